package models

// ContactType distinguishes learner enquiries from business enquiries.
type ContactType string

const (
	ContactLearner  ContactType = "learner_contact"
	ContactBusiness ContactType = "business_contact"
)

// Valid reports whether t is a known contact type.
func (t ContactType) Valid() bool {
	return t == ContactLearner || t == ContactBusiness
}

// ContactStatus tracks how far a contact submission has been handled.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactResolved   ContactStatus = "resolved"
	ContactClosed     ContactStatus = "closed"
)

// Valid reports whether s is a known contact status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResolved, ContactClosed:
		return true
	}
	return false
}

// Contact is a submission from the public contact form.
type Contact struct {
	ID          string        `json:"id"`
	Type        ContactType   `json:"type"`
	Status      ContactStatus `json:"status"`
	FullName    string        `json:"fullName"`
	Email       string        `json:"email"`
	Company     string        `json:"company,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	Message     string        `json:"message"`
	Notes       string        `json:"notes,omitempty"`
	SubmittedAt Timestamp     `json:"submittedAt"`
}

// ContactsResponse is a page of contacts.
type ContactsResponse struct {
	Contacts   []Contact  `json:"contacts"`
	Pagination Pagination `json:"pagination"`
}

// ContactResponse wraps a single contact.
type ContactResponse struct {
	Message string  `json:"message,omitempty"`
	Contact Contact `json:"contact"`
}
