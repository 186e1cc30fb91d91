package fakeapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/auth"
	mhttp "github.com/wolfeidau/mentorhub/internal/http"
	"github.com/wolfeidau/mentorhub/internal/models"
)

const maxBodySize = 1 << 20

// Options configures the router.
type Options struct {
	// Verifier authenticates bearer tokens. When nil every request runs as
	// DevPrincipal.
	Verifier     *auth.Verifier
	DevPrincipal *auth.Principal
	Logger       zerolog.Logger
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Handler serves the REST API over a Store.
type Handler struct {
	store *Store
}

// NewRouter returns the API mounted at /api.
func NewRouter(store *Store, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(mhttp.RequestIDMiddleware())
	r.Use(mhttp.ClientIPMiddleware())
	r.Use(mhttp.AccessLogMiddleware(opts.Logger))
	r.Use(middleware.Recoverer)
	if opts.RateLimit > 0 {
		burst := max(opts.Burst, 1)
		r.Use(mhttp.NewRateLimiter(opts.RateLimit, burst).Middleware(writeError))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := &Handler{store: store}
	r.Route("/api", func(r chi.Router) {
		if opts.Verifier != nil {
			r.Use(opts.Verifier.Middleware(writeError))
		} else {
			p := opts.DevPrincipal
			if p == nil {
				p = &auth.Principal{UserID: "dev", Role: models.RoleAdmin, Name: "Developer"}
			}
			r.Use(auth.StaticMiddleware(p))
		}
		r.Use(etagMiddleware)
		MountRoutes(r, h)
	})

	return gzhttp.GzipHandler(r)
}

// MountRoutes registers every API route on r.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/workspaces", h.listWorkspaces)

	r.Route("/workspacesInvites", func(r chi.Router) {
		r.Get("/{workspaceID}/members", h.listMembers)
		r.Get("/{workspaceID}/invitations", h.listWorkspaceInvitations)
		r.With(allow(auth.PermWorkspacesInvite)).Post("/{workspaceID}/invitations", h.createInvitation)
		r.Post("/{workspaceID}/join-request", h.requestToJoin)
		r.Get("/{workspaceID}/join-requests", h.listJoinRequests)
		r.Post("/join-requests/{id}/withdraw", h.withdrawJoinRequest)
	})

	r.Route("/invitations", func(r chi.Router) {
		r.Get("/user", h.listUserInvitations)
		r.Post("/{id}/respond", h.respondToInvitation)
		r.Post("/{id}/cancel", h.cancelInvitation)
		r.Post("/{id}/respond-join-request", h.respondToJoinRequest)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(allow(auth.PermUsersManage))
		r.Get("/", h.listUsers)
		r.Post("/bulk/status", h.bulkUserStatus)
		r.Post("/bulk/delete", h.bulkDeleteUsers)
		r.Get("/{id}", h.getUser)
		r.Post("/{id}/status", h.updateUserStatus)
		r.Post("/{id}/role", h.updateUserRole)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(allow(auth.PermContactsManage))
		r.Get("/", h.listContacts)
		r.Get("/{id}", h.getContact)
		r.Post("/{id}/status", h.updateContactStatus)
		r.Post("/{id}/delete", h.deleteContact)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Use(allow(auth.PermApplicationsReview))
		r.Get("/", h.listApplications)
		r.Get("/{id}", h.getApplication)
		r.Post("/{id}/review", h.reviewApplication)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.listProjects)
		r.With(allow(auth.PermProjectsCreate)).Post("/", h.createProject)
		r.Get("/{id}", h.getProject)
		r.Get("/{id}/areas", h.listProjectAreas)
		r.With(allow(auth.PermProjectsJoin)).Post("/{id}/join", h.joinProject)
		r.With(allow(auth.PermTasksUpdate)).Post("/{id}/tasks/{taskID}/status", h.updateTaskStatus)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.listSessions)
		r.With(allow(auth.PermSessionsManage)).Post("/{id}/status", h.updateSessionStatus)
	})

	r.Route("/learning-paths", func(r chi.Router) {
		r.Get("/", h.listLearningPaths)
		r.Get("/{id}", h.getLearningPath)
		r.With(allow(auth.PermPathsEnroll)).Post("/{id}/enroll", h.enroll)
	})

	r.Route("/communications", func(r chi.Router) {
		r.Get("/announcements", h.listAnnouncements)
		r.With(allow(auth.PermAnnouncementsCreate)).Post("/announcements", h.createAnnouncement)
		r.Get("/messages", h.listMessages)
		r.With(allow(auth.PermMessagesSend)).Post("/messages", h.sendMessage)
	})
}

// allow rejects callers whose role lacks perm.
func allow(perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := auth.RequirePermission(r.Context(), perm); err != nil {
				status := http.StatusForbidden
				if errors.Is(err, auth.ErrUnauthenticated) {
					status = http.StatusUnauthorized
				}
				writeError(w, status, "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principal(r *http.Request) *auth.Principal {
	return auth.PrincipalFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes the {"message": ...} body the client decodes.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeStoreError maps a store error to its status and message.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("store failure")
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// decode reads a JSON request body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}
	return true
}

// page reads page and limit query parameters.
func page(r *http.Request) Page {
	q := r.URL.Query()
	p, _ := strconv.Atoi(q.Get("page"))
	l, _ := strconv.Atoi(q.Get("limit"))
	return Page{Page: p, Limit: l}
}

// boolParam returns nil when name is absent.
func boolParam(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// etagMiddleware tags successful GET responses with a crc64-nvme digest of
// the body and answers matching If-None-Match requests with 304.
func etagMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedWriter{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(rec, r)

		for k, v := range rec.header {
			w.Header()[k] = v
		}
		if rec.status != http.StatusOK {
			w.WriteHeader(rec.status)
			_, _ = w.Write(rec.body.Bytes())
			return
		}

		etag := `"` + strconv.FormatUint(crc64nvme.Checksum(rec.body.Bytes()), 16) + `"`
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, no-cache")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Del("Content-Type")
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(rec.body.Bytes())
	})
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.status = status
	b.wrote = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}
