package fakeapi

import (
	"slices"
	"strings"
	"time"

	"github.com/wolfeidau/mentorhub/internal/auth"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// CreateWorkspace adds a workspace owned by ownerID.
func (s *Store) CreateWorkspace(name, ownerID string) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.users[ownerID]
	if !ok {
		return nil, notFound("User")
	}

	ws := &models.Workspace{ID: s.newID(), Name: name, OwnerID: ownerID, CreatedAt: s.timestamp()}
	s.workspaces[ws.ID] = ws
	s.addMemberLocked(ws, owner, models.WorkspaceRoleOwner)

	out := *ws
	return &out, nil
}

// Workspaces lists every workspace.
func (s *Store) Workspaces() []models.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collect(s.workspaces, nil, func(w *models.Workspace) (time.Time, string) { return w.CreatedAt.Time, w.ID })
}

// Members lists the members of a workspace.
func (s *Store) Members(workspaceID string) ([]models.WorkspaceMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, notFound("Workspace")
	}
	return slices.Clone(s.members[workspaceID]), nil
}

func (s *Store) memberLocked(workspaceID, userID string) (models.WorkspaceMember, bool) {
	for _, m := range s.members[workspaceID] {
		if m.UserID == userID {
			return m, true
		}
	}
	return models.WorkspaceMember{}, false
}

func (s *Store) addMemberLocked(ws *models.Workspace, u *models.User, role models.WorkspaceRole) {
	if _, ok := s.memberLocked(ws.ID, u.ID); ok {
		return
	}
	s.members[ws.ID] = append(slices.Clone(s.members[ws.ID]), models.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        role,
		JoinedAt:    s.timestamp(),
	})
	ws.MemberCount = len(s.members[ws.ID])
}

func (s *Store) removeUserMembershipsLocked(userID string) {
	for wsID, members := range s.members {
		kept := slices.DeleteFunc(slices.Clone(members), func(m models.WorkspaceMember) bool { return m.UserID == userID })
		if len(kept) == len(members) {
			continue
		}
		s.members[wsID] = kept
		if ws, ok := s.workspaces[wsID]; ok {
			ws.MemberCount = len(kept)
		}
	}
}

// canManageLocked reports whether p may invite to or approve requests for ws.
func (s *Store) canManageLocked(p *auth.Principal, workspaceID string) bool {
	if isAdmin(p) {
		return true
	}
	m, ok := s.memberLocked(workspaceID, p.UserID)
	return ok && (m.Role == models.WorkspaceRoleOwner || m.Role == models.WorkspaceRoleAdmin)
}

// WorkspaceInvitations lists a workspace's invitations, optionally by status.
func (s *Store) WorkspaceInvitations(workspaceID string, status models.InvitationStatus, page Page) (*models.InvitationsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, notFound("Workspace")
	}

	all := collect(s.invitations, func(inv *models.Invitation) bool {
		return inv.WorkspaceID == workspaceID && (status == "" || inv.Status == status)
	}, invitationKey)

	items, pg := paginate(all, page)
	return &models.InvitationsResponse{Invitations: items, Pagination: pg}, nil
}

// UserInvitations lists invitations addressed to p by id or email.
func (s *Store) UserInvitations(p *auth.Principal, status models.InvitationStatus) *models.InvitationsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := collect(s.invitations, func(inv *models.Invitation) bool {
		return s.isInviteeLocked(p, inv) && (status == "" || inv.Status == status)
	}, invitationKey)

	items, pg := paginate(all, Page{Limit: maxPageSize})
	return &models.InvitationsResponse{Invitations: items, Pagination: pg}
}

func invitationKey(inv *models.Invitation) (time.Time, string) { return inv.CreatedAt.Time, inv.ID }

func (s *Store) isInviteeLocked(p *auth.Principal, inv *models.Invitation) bool {
	if inv.InviteeID != "" {
		return inv.InviteeID == p.UserID
	}
	return p.Email != "" && strings.EqualFold(inv.Email, p.Email)
}

// InvitationInput is the body of a create invitation request.
type InvitationInput struct {
	Email     string               `json:"email"`
	InviteeID string               `json:"inviteeId"`
	Role      models.WorkspaceRole `json:"role"`
	Message   string               `json:"message"`
}

// CreateInvitation invites a user by id or email. A pending invitation for the
// same invitee is a conflict, as is inviting an existing member.
func (s *Store) CreateInvitation(p *auth.Principal, workspaceID string, in InvitationInput) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, notFound("Workspace")
	}
	if !s.canManageLocked(p, workspaceID) {
		return nil, forbidden("Only workspace owners and admins can send invitations")
	}
	if !in.Role.Valid() || in.Role == models.WorkspaceRoleOwner {
		return nil, invalid("Invalid role %q", in.Role)
	}

	email := strings.TrimSpace(in.Email)
	if in.InviteeID != "" {
		u, ok := s.users[in.InviteeID]
		if !ok {
			return nil, notFound("User")
		}
		email = u.Email
	} else if email == "" {
		return nil, invalid("An email or user id is required")
	} else if u := s.userByEmailLocked(email); u != nil {
		in.InviteeID = u.ID
	}

	if in.InviteeID != "" {
		if _, ok := s.memberLocked(workspaceID, in.InviteeID); ok {
			return nil, conflict("User is already a member of this workspace")
		}
	}
	for _, inv := range s.invitations {
		if inv.WorkspaceID == workspaceID && inv.Status == models.InvitationPending && strings.EqualFold(inv.Email, email) {
			return nil, conflict("An invitation is already pending for %s", email)
		}
	}

	now := s.timestamp()
	inv := &models.Invitation{
		ID:            s.newID(),
		WorkspaceID:   workspaceID,
		WorkspaceName: ws.Name,
		InviterID:     p.UserID,
		InviterName:   p.Name,
		InviteeID:     in.InviteeID,
		Email:         email,
		Role:          in.Role,
		Status:        models.InvitationPending,
		Message:       in.Message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.invitations[inv.ID] = inv

	out := *inv
	return &out, nil
}

// RespondToInvitation accepts or declines a pending invitation. Accepting adds
// the caller to the workspace with the invited role.
func (s *Store) RespondToInvitation(p *auth.Principal, id string, accept bool) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, notFound("Invitation")
	}
	if !s.isInviteeLocked(p, inv) {
		return nil, forbidden("This invitation is addressed to someone else")
	}
	if inv.Status != models.InvitationPending {
		return nil, conflict("Invitation has already been %s", inv.Status)
	}

	u, uok := s.users[p.UserID]
	ws, wok := s.workspaces[inv.WorkspaceID]
	if accept && (!uok || !wok) {
		return nil, notFound("Workspace or user")
	}

	now := s.timestamp()
	inv.UpdatedAt, inv.RespondedAt = now, now
	inv.Status = models.InvitationDeclined

	if accept {
		inv.Status = models.InvitationAccepted
		inv.InviteeID = u.ID
		s.addMemberLocked(ws, u, inv.Role)
	}

	out := *inv
	return &out, nil
}

// CancelInvitation withdraws a pending invitation. The inviter or a workspace
// manager may cancel.
func (s *Store) CancelInvitation(p *auth.Principal, id string) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, notFound("Invitation")
	}
	if inv.InviterID != p.UserID && !s.canManageLocked(p, inv.WorkspaceID) {
		return nil, forbidden("You cannot cancel this invitation")
	}
	if inv.Status != models.InvitationPending {
		return nil, conflict("Invitation has already been %s", inv.Status)
	}

	inv.Status = models.InvitationCancelled
	inv.UpdatedAt = s.timestamp()

	out := *inv
	return &out, nil
}

// RequestToJoin files a join request from the caller.
func (s *Store) RequestToJoin(p *auth.Principal, workspaceID, message string) (*models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, notFound("Workspace")
	}
	if _, ok := s.memberLocked(workspaceID, p.UserID); ok {
		return nil, conflict("You are already a member of this workspace")
	}
	for _, jr := range s.joinRequests {
		if jr.WorkspaceID == workspaceID && jr.RequesterID == p.UserID && jr.Status == models.JoinRequestPending {
			return nil, conflict("You already have a pending request for this workspace")
		}
	}

	now := s.timestamp()
	jr := &models.JoinRequest{
		ID:            s.newID(),
		WorkspaceID:   workspaceID,
		RequesterID:   p.UserID,
		RequesterName: p.Name,
		Email:         p.Email,
		Message:       message,
		Status:        models.JoinRequestPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.joinRequests[jr.ID] = jr

	out := *jr
	return &out, nil
}

// RespondToJoinRequest approves or rejects a pending request. Approval adds
// the requester with role, defaulting to member.
func (s *Store) RespondToJoinRequest(p *auth.Principal, id string, approve bool, role models.WorkspaceRole) (*models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jr, ok := s.joinRequests[id]
	if !ok {
		return nil, notFound("Join request")
	}
	if !s.canManageLocked(p, jr.WorkspaceID) {
		return nil, forbidden("Only workspace owners and admins can respond to join requests")
	}
	if jr.Status != models.JoinRequestPending {
		return nil, conflict("Join request has already been %s", jr.Status)
	}

	jr.UpdatedAt = s.timestamp()
	if !approve {
		jr.Status = models.JoinRequestRejected
		out := *jr
		return &out, nil
	}

	if role == "" {
		role = models.WorkspaceRoleMember
	}
	if !role.Valid() || role == models.WorkspaceRoleOwner {
		return nil, invalid("Invalid role %q", role)
	}
	u, ok := s.users[jr.RequesterID]
	if !ok {
		return nil, notFound("User")
	}

	jr.Status = models.JoinRequestApproved
	jr.AssignedRole = role
	s.addMemberLocked(s.workspaces[jr.WorkspaceID], u, role)

	out := *jr
	return &out, nil
}

// WorkspaceJoinRequests lists a workspace's join requests, optionally by status.
func (s *Store) WorkspaceJoinRequests(workspaceID string, status models.JoinRequestStatus) (*models.JoinRequestsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, notFound("Workspace")
	}

	all := collect(s.joinRequests, func(jr *models.JoinRequest) bool {
		return jr.WorkspaceID == workspaceID && (status == "" || jr.Status == status)
	}, func(jr *models.JoinRequest) (time.Time, string) { return jr.CreatedAt.Time, jr.ID })

	items, pg := paginate(all, Page{Limit: maxPageSize})
	return &models.JoinRequestsResponse{JoinRequests: items, Pagination: pg}, nil
}

// WithdrawJoinRequest withdraws the caller's own pending request.
func (s *Store) WithdrawJoinRequest(p *auth.Principal, id string) (*models.JoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jr, ok := s.joinRequests[id]
	if !ok {
		return nil, notFound("Join request")
	}
	if jr.RequesterID != p.UserID {
		return nil, forbidden("You can only withdraw your own requests")
	}
	if jr.Status != models.JoinRequestPending {
		return nil, conflict("Join request has already been %s", jr.Status)
	}

	jr.Status = models.JoinRequestWithdrawn
	jr.UpdatedAt = s.timestamp()

	out := *jr
	return &out, nil
}
