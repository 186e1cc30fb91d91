package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type SessionsArgs struct {
	Status models.SessionStatus `json:"status,omitempty"`
	// Role selects sessions where the caller is the mentor or the learner.
	Role models.Role `json:"role,omitempty"`
}

type UpdateSessionStatusArgs struct {
	SessionID string               `json:"sessionId"`
	Status    models.SessionStatus `json:"status"`
	Reason    string               `json:"reason,omitempty"`
}

var GetSessions = Query[SessionsArgs, models.SessionsResponse]{
	Name:     "getSessions",
	Template: "/sessions",
	Path: func(a SessionsArgs) string {
		return withQuery("/sessions", params{}.
			str("status", string(a.Status)).
			str("role", string(a.Role)))
	},
	Provides: func(_ SessionsArgs, res *models.SessionsResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagSession)}
		if res != nil {
			for _, s := range res.Sessions {
				tags = append(tags, cache.IDTag(TagSession, s.ID))
			}
		}
		return tags
	},
}

var UpdateSessionStatus = Mutation[UpdateSessionStatusArgs, models.SessionResponse]{
	Name:     "updateSessionStatus",
	Template: "/sessions/{id}/status",
	Path: func(a UpdateSessionStatusArgs) string {
		return pathf("/sessions/%s/status", a.SessionID)
	},
	Body: func(a UpdateSessionStatusArgs) any {
		return struct {
			Status models.SessionStatus `json:"status"`
			Reason string               `json:"reason,omitempty"`
		}{a.Status, a.Reason}
	},
	Validate: func(a UpdateSessionStatusArgs) error {
		if err := required("sessionId", a.SessionID); err != nil {
			return err
		}
		if !a.Status.Valid() {
			return invalid("status", "must be one of pending, accepted, completed, cancelled, rejected")
		}
		if (a.Status == models.SessionRejected || a.Status == models.SessionCancelled) && a.Reason == "" {
			return required("reason", a.Reason)
		}
		return nil
	},
	Invalidates: func(a UpdateSessionStatusArgs, _ *models.SessionResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagSession, a.SessionID), cache.ListTag(TagSession)}
	},
}

func (a *API) GetSessions(ctx context.Context, args SessionsArgs) (*models.SessionsResponse, error) {
	return RunQuery(ctx, a, GetSessions, args)
}

func (a *API) UpdateSessionStatus(ctx context.Context, args UpdateSessionStatusArgs) (*models.SessionResponse, error) {
	return RunMutation(ctx, a, UpdateSessionStatus, args)
}
