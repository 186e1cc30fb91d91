package models

// Pagination is the page envelope attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether another page follows this one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}
