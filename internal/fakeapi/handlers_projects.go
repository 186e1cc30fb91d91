package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfeidau/mentorhub/internal/models"
)

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	writeJSON(w, http.StatusOK, h.store.Projects(ProjectFilter{
		Status:   models.ProjectStatus(q.Get("status")),
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Sort:     q.Get("sort"),
		Limit:    limit,
	}))
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Project(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ProjectResponse{Project: *p})
}

func (h *Handler) listProjectAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.store.ProjectAreas(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ProjectAreasResponse{Areas: areas})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var in ProjectInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.store.CreateProject(principal(r), in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.ProjectResponse{Message: "Project created", Project: *p})
}

func (h *Handler) joinProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.JoinProject(principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ProjectResponse{Message: "Joined project", Project: *p})
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.TaskStatus `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	t, err := h.store.UpdateTaskStatus(principal(r), chi.URLParam(r, "id"), chi.URLParam(r, "taskID"), in.Status)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskResponse{Message: "Task updated", Task: *t})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.store.Sessions(principal(r), SessionFilter{
		Status: models.SessionStatus(q.Get("status")),
		Role:   models.Role(q.Get("role")),
	}))
}

func (h *Handler) updateSessionStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.SessionStatus `json:"status"`
		Reason string               `json:"reason"`
	}
	if !decode(w, r, &in) {
		return
	}
	s, err := h.store.UpdateSessionStatus(principal(r), chi.URLParam(r, "id"), in.Status, in.Reason)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SessionResponse{Message: "Session " + string(s.Status), Session: *s})
}

func (h *Handler) listLearningPaths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.LearningPaths(principal(r), r.URL.Query().Get("level"), boolParam(r, "published")))
}

func (h *Handler) getLearningPath(w http.ResponseWriter, r *http.Request) {
	lp, err := h.store.LearningPath(principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LearningPathResponse{LearningPath: *lp})
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	lp, err := h.store.Enroll(principal(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LearningPathResponse{Message: "Enrolled", LearningPath: *lp})
}

func (h *Handler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Announcements(principal(r)))
}

func (h *Handler) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	var in AnnouncementInput
	if !decode(w, r, &in) {
		return
	}
	a, err := h.store.CreateAnnouncement(in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.AnnouncementResponse{Message: "Announcement published", Announcement: *a})
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	writeJSON(w, http.StatusOK, h.store.Messages(principal(r), unread))
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ToID string `json:"toId"`
		Body string `json:"body"`
	}
	if !decode(w, r, &in) {
		return
	}
	m, err := h.store.SendMessage(principal(r), in.ToID, in.Body)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.MessageResponse{Status: "sent", Message: *m})
}
