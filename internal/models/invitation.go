package models

// InvitationStatus is the lifecycle state of a workspace invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Valid reports whether s is a known invitation status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationDeclined, InvitationCancelled:
		return true
	}
	return false
}

// Invitation is an invite from a workspace member to a user or email address.
type Invitation struct {
	ID            string           `json:"id"`
	WorkspaceID   string           `json:"workspaceId"`
	WorkspaceName string           `json:"workspaceName,omitempty"`
	InviterID     string           `json:"inviterId"`
	InviterName   string           `json:"inviterName,omitempty"`
	InviteeID     string           `json:"inviteeId,omitempty"`
	Email         string           `json:"email,omitempty"`
	Role          WorkspaceRole    `json:"role"`
	Status        InvitationStatus `json:"status"`
	Message       string           `json:"message,omitempty"`
	CreatedAt     Timestamp        `json:"createdAt"`
	UpdatedAt     Timestamp        `json:"updatedAt"`
	RespondedAt   Timestamp        `json:"respondedAt"`
}

// InvitationResponse wraps a single invitation.
type InvitationResponse struct {
	Message    string     `json:"message,omitempty"`
	Invitation Invitation `json:"invitation"`
}

// InvitationsResponse is a page of invitations.
type InvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
	Pagination  Pagination   `json:"pagination"`
}

// JoinRequestStatus is the lifecycle state of a request to join a workspace.
type JoinRequestStatus string

const (
	JoinRequestPending   JoinRequestStatus = "pending"
	JoinRequestApproved  JoinRequestStatus = "approved"
	JoinRequestRejected  JoinRequestStatus = "rejected"
	JoinRequestWithdrawn JoinRequestStatus = "withdrawn"
)

// Valid reports whether s is a known join request status.
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestPending, JoinRequestApproved, JoinRequestRejected, JoinRequestWithdrawn:
		return true
	}
	return false
}

// JoinRequest is a user's request to become a member of a workspace.
type JoinRequest struct {
	ID            string            `json:"id"`
	WorkspaceID   string            `json:"workspaceId"`
	RequesterID   string            `json:"requesterId"`
	RequesterName string            `json:"requesterName,omitempty"`
	Email         string            `json:"email,omitempty"`
	Message       string            `json:"message,omitempty"`
	Status        JoinRequestStatus `json:"status"`
	AssignedRole  WorkspaceRole     `json:"assignedRole,omitempty"`
	CreatedAt     Timestamp         `json:"createdAt"`
	UpdatedAt     Timestamp         `json:"updatedAt"`
}

// JoinRequestResponse wraps a single join request.
type JoinRequestResponse struct {
	Message     string      `json:"message,omitempty"`
	JoinRequest JoinRequest `json:"joinRequest"`
}

// JoinRequestsResponse is a page of join requests.
type JoinRequestsResponse struct {
	JoinRequests []JoinRequest `json:"joinRequests"`
	Pagination   Pagination    `json:"pagination"`
}
