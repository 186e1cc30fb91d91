package fakeapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func (h *Handler) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.WorkspacesResponse{Workspaces: h.store.Workspaces()})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.Members(chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.WorkspaceMembersResponse{Members: members})
}

func (h *Handler) listWorkspaceInvitations(w http.ResponseWriter, r *http.Request) {
	status := models.InvitationStatus(r.URL.Query().Get("status"))
	res, err := h.store.WorkspaceInvitations(chi.URLParam(r, "workspaceID"), status, page(r))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listUserInvitations(w http.ResponseWriter, r *http.Request) {
	status := models.InvitationStatus(r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, h.store.UserInvitations(principal(r), status))
}

func (h *Handler) createInvitation(w http.ResponseWriter, r *http.Request) {
	var in InvitationInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.store.CreateInvitation(principal(r), chi.URLParam(r, "workspaceID"), in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.InvitationResponse{Message: "Invitation sent", Invitation: *inv})
}

func (h *Handler) respondToInvitation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Accept bool `json:"accept"`
	}
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.store.RespondToInvitation(principal(r), chi.URLParam(r, "id"), in.Accept)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	msg := "Invitation declined"
	if in.Accept {
		msg = "Invitation accepted"
	}
	writeJSON(w, http.StatusOK, models.InvitationResponse{Message: msg, Invitation: *inv})
}

func (h *Handler) cancelInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.CancelInvitation(principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.InvitationResponse{Message: "Invitation cancelled", Invitation: *inv})
}

func (h *Handler) requestToJoin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if !decode(w, r, &in) {
		return
	}
	jr, err := h.store.RequestToJoin(principal(r), chi.URLParam(r, "workspaceID"), in.Message)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.JoinRequestResponse{Message: "Join request sent", JoinRequest: *jr})
}

func (h *Handler) respondToJoinRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Approve bool                 `json:"approve"`
		Role    models.WorkspaceRole `json:"role"`
	}
	if !decode(w, r, &in) {
		return
	}
	jr, err := h.store.RespondToJoinRequest(principal(r), chi.URLParam(r, "id"), in.Approve, in.Role)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.JoinRequestResponse{Message: "Join request " + string(jr.Status), JoinRequest: *jr})
}

func (h *Handler) listJoinRequests(w http.ResponseWriter, r *http.Request) {
	status := models.JoinRequestStatus(r.URL.Query().Get("status"))
	res, err := h.store.WorkspaceJoinRequests(chi.URLParam(r, "workspaceID"), status)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) withdrawJoinRequest(w http.ResponseWriter, r *http.Request) {
	jr, err := h.store.WithdrawJoinRequest(principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.JoinRequestResponse{Message: "Join request withdrawn", JoinRequest: *jr})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.store.Users(UserFilter{
		Role:     models.Role(q.Get("role")),
		Disabled: boolParam(r, "disabled"),
		Search:   q.Get("search"),
		Page:     page(r),
	}))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.User(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{User: *u})
}

func (h *Handler) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Disabled bool `json:"disabled"`
	}
	if !decode(w, r, &in) {
		return
	}
	u, err := h.store.SetUserDisabled(principal(r), chi.URLParam(r, "id"), in.Disabled)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{Message: "User updated", User: *u})
}

func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role models.Role `json:"role"`
	}
	if !decode(w, r, &in) {
		return
	}
	u, err := h.store.SetUserRole(principal(r), chi.URLParam(r, "id"), in.Role)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{Message: "Role updated", User: *u})
}

type bulkInput struct {
	UserIDs  []string `json:"userIds"`
	Disabled bool     `json:"disabled"`
}

func (in bulkInput) valid(w http.ResponseWriter) bool {
	if len(in.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "userIds must not be empty")
		return false
	}
	return true
}

func (h *Handler) bulkUserStatus(w http.ResponseWriter, r *http.Request) {
	var in bulkInput
	if !decode(w, r, &in) || !in.valid(w) {
		return
	}
	res := h.store.BulkSetDisabled(principal(r), in.UserIDs, in.Disabled)
	writeJSON(w, http.StatusOK, models.BulkResponse{Message: "Bulk status update processed", Results: res})
}

func (h *Handler) bulkDeleteUsers(w http.ResponseWriter, r *http.Request) {
	var in bulkInput
	if !decode(w, r, &in) || !in.valid(w) {
		return
	}
	res := h.store.BulkDeleteUsers(principal(r), in.UserIDs)
	writeJSON(w, http.StatusOK, models.BulkResponse{Message: "Bulk delete processed", Results: res})
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.store.Contacts(ContactFilter{
		Type:   models.ContactType(q.Get("type")),
		Status: models.ContactStatus(q.Get("status")),
		Page:   page(r),
	}))
}

func (h *Handler) getContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Contact(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ContactResponse{Contact: *c})
}

func (h *Handler) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.ContactStatus `json:"status"`
		Notes  string               `json:"notes"`
	}
	if !decode(w, r, &in) {
		return
	}
	c, err := h.store.UpdateContactStatus(chi.URLParam(r, "id"), in.Status, in.Notes)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ContactResponse{Message: "Contact updated", Contact: *c})
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.DeleteContact(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ContactResponse{Message: "Contact deleted", Contact: *c})
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.store.Applications(ApplicationFilter{
		Type:   models.ApplicationType(q.Get("type")),
		Status: models.ApplicationStatus(q.Get("status")),
		Page:   page(r),
	}))
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Application(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ApplicationResponse{Application: *a})
}

func (h *Handler) reviewApplication(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.ApplicationStatus `json:"status"`
		Notes  string                   `json:"notes"`
	}
	if !decode(w, r, &in) {
		return
	}
	a, err := h.store.ReviewApplication(chi.URLParam(r, "id"), in.Status, in.Notes)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ApplicationResponse{Message: "Application reviewed", Application: *a})
}
