package models

// ApplicationType distinguishes learner applications from business partnerships.
type ApplicationType string

const (
	ApplicationLearner  ApplicationType = "learner_application"
	ApplicationBusiness ApplicationType = "business_application"
)

// Valid reports whether t is a known application type.
func (t ApplicationType) Valid() bool {
	return t == ApplicationLearner || t == ApplicationBusiness
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationOnHold    ApplicationStatus = "on_hold"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewing, ApplicationApproved, ApplicationRejected, ApplicationOnHold:
		return true
	}
	return false
}

// Attachment is a file uploaded with an application.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Application is a request to join the programme as a learner or partner.
type Application struct {
	ID          string            `json:"id"`
	Type        ApplicationType   `json:"type"`
	Status      ApplicationStatus `json:"status"`
	FullName    string            `json:"fullName"`
	Email       string            `json:"email"`
	Message     string            `json:"message,omitempty"`
	Attachments []Attachment      `json:"attachments,omitempty"`
	ReviewNotes string            `json:"reviewNotes,omitempty"`
	SubmittedAt Timestamp         `json:"submittedAt"`
	ReviewedAt  Timestamp         `json:"reviewedAt"`
}

// ApplicationsResponse is a page of applications.
type ApplicationsResponse struct {
	Applications []Application `json:"applications"`
	Pagination   Pagination    `json:"pagination"`
}

// ApplicationResponse wraps a single application.
type ApplicationResponse struct {
	Message     string      `json:"message,omitempty"`
	Application Application `json:"application"`
}
