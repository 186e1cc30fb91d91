package models

// Announcement is a broadcast to a platform audience.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  Role      `json:"audience,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Message is a direct message between two users.
type Message struct {
	ID     string    `json:"id"`
	FromID string    `json:"fromId"`
	ToID   string    `json:"toId"`
	Body   string    `json:"body"`
	SentAt Timestamp `json:"sentAt"`
	Read   bool      `json:"read"`
}

// AnnouncementsResponse lists announcements.
type AnnouncementsResponse struct {
	Announcements []Announcement `json:"announcements"`
}

// AnnouncementResponse wraps a single announcement.
type AnnouncementResponse struct {
	Message      string       `json:"message,omitempty"`
	Announcement Announcement `json:"announcement"`
}

// MessagesResponse lists direct messages.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

// MessageResponse wraps a single direct message.
type MessageResponse struct {
	Status  string  `json:"status,omitempty"`
	Message Message `json:"message"`
}
