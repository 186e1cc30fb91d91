package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type ApplicationsArgs struct {
	Type   models.ApplicationType   `json:"type,omitempty"`
	Status models.ApplicationStatus `json:"status,omitempty"`
	Page   int                      `json:"page,omitempty"`
	Limit  int                      `json:"limit,omitempty"`
}

type ReviewApplicationArgs struct {
	ApplicationID string                   `json:"applicationId"`
	Status        models.ApplicationStatus `json:"status"`
	Notes         string                   `json:"notes,omitempty"`
}

var GetApplications = Query[ApplicationsArgs, models.ApplicationsResponse]{
	Name:     "getApplications",
	Template: "/applications",
	Path: func(a ApplicationsArgs) string {
		return withQuery("/applications", params{}.
			str("type", string(a.Type)).
			str("status", string(a.Status)).
			int("page", a.Page).
			int("limit", a.Limit))
	},
	Provides: func(_ ApplicationsArgs, res *models.ApplicationsResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagApplication)}
		if res != nil {
			for _, app := range res.Applications {
				tags = append(tags, cache.IDTag(TagApplication, app.ID))
			}
		}
		return tags
	},
}

var GetApplication = Query[string, models.ApplicationResponse]{
	Name:     "getApplication",
	Template: "/applications/{id}",
	Path:     func(id string) string { return pathf("/applications/%s", id) },
	Provides: func(id string, _ *models.ApplicationResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagApplication, id)}
	},
}

// ReviewApplication moves an application through review. An approval
// provisions an account, so the user list is invalidated too.
var ReviewApplication = Mutation[ReviewApplicationArgs, models.ApplicationResponse]{
	Name:     "reviewApplication",
	Template: "/applications/{id}/review",
	Path: func(a ReviewApplicationArgs) string {
		return pathf("/applications/%s/review", a.ApplicationID)
	},
	Body: func(a ReviewApplicationArgs) any {
		return struct {
			Status models.ApplicationStatus `json:"status"`
			Notes  string                   `json:"notes,omitempty"`
		}{a.Status, a.Notes}
	},
	Validate: func(a ReviewApplicationArgs) error {
		if err := required("applicationId", a.ApplicationID); err != nil {
			return err
		}
		if !a.Status.Valid() {
			return invalid("status", "must be one of pending, reviewing, approved, rejected, on_hold")
		}
		return nil
	},
	Invalidates: func(a ReviewApplicationArgs, _ *models.ApplicationResponse) []cache.Tag {
		tags := []cache.Tag{cache.IDTag(TagApplication, a.ApplicationID), cache.ListTag(TagApplication)}
		if a.Status == models.ApplicationApproved {
			tags = append(tags, cache.ListTag(TagUser))
		}
		return tags
	},
}

func (a *API) GetApplications(ctx context.Context, args ApplicationsArgs) (*models.ApplicationsResponse, error) {
	return RunQuery(ctx, a, GetApplications, args)
}

func (a *API) GetApplication(ctx context.Context, applicationID string) (*models.ApplicationResponse, error) {
	return RunQuery(ctx, a, GetApplication, applicationID)
}

func (a *API) ReviewApplication(ctx context.Context, args ReviewApplicationArgs) (*models.ApplicationResponse, error) {
	return RunMutation(ctx, a, ReviewApplication, args)
}
