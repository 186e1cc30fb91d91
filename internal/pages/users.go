package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/bulk"
	"github.com/wolfeidau/mentorhub/internal/models"
	"github.com/wolfeidau/mentorhub/internal/notify"
	"github.com/wolfeidau/mentorhub/internal/views"
)

type UsersView struct {
	View[models.User]
	Stats views.UserStats
}

// BulkAction names a bulk operation on the users page.
type BulkAction string

const (
	BulkDisable BulkAction = "disable"
	BulkEnable  BulkAction = "enable"
	BulkDelete  BulkAction = "delete"
)

// UsersPage is the admin user list with per-row and bulk actions.
type UsersPage struct {
	*base[views.UserFilters, api.UsersArgs, models.UsersResponse, models.User]

	flows map[BulkAction]*bulk.Flow
}

func NewUsersPage(a *api.API, n notify.Notifier, filters views.UserFilters) *UsersPage {
	return &UsersPage{
		base: &base[views.UserFilters, api.UsersArgs, models.UsersResponse, models.User]{
			api:      a,
			notifier: n,
			filters:  filters,
			list: list[api.UsersArgs, models.UsersResponse, models.User]{
				api:   a,
				query: api.GetUsers,
				what:  "users",
				rows:  func(r *models.UsersResponse) []models.User { return r.Users },
				pages: func(r *models.UsersResponse) models.Pagination { return r.Pagination },
			},
		},
		flows: map[BulkAction]*bulk.Flow{
			BulkDisable: bulk.NewFlow("user", "disabled", n),
			BulkEnable:  bulk.NewFlow("user", "enabled", n),
			BulkDelete:  bulk.NewFlow("user", "deleted", n),
		},
	}
}

func (p *UsersPage) Load(ctx context.Context) UsersView {
	return usersView(p.view(ctx, false))
}

func (p *UsersPage) Refresh(ctx context.Context) UsersView {
	return usersView(p.refreshed(ctx))
}

func (p *UsersPage) Watch(ctx context.Context, every time.Duration, render func(UsersView)) error {
	return p.watch(ctx, every, func(ctx context.Context, force bool) {
		render(usersView(p.view(ctx, force)))
	})
}

func usersView(v View[models.User]) UsersView {
	return UsersView{View: v, Stats: views.NewUserStats(v.Items)}
}

// SetDisabled enables or disables one account.
func (p *UsersPage) SetDisabled(ctx context.Context, userID string, disabled bool) bool {
	_, err := p.api.UpdateUserStatus(ctx, api.UpdateUserStatusArgs{UserID: userID, Disabled: disabled})
	verb := "enabled"
	if disabled {
		verb = "disabled"
	}
	return notify.MutationResult(p.notifier, err, "User "+verb, "Failed to update user status")
}

func (p *UsersPage) SetRole(ctx context.Context, userID string, role models.Role) bool {
	_, err := p.api.UpdateUserRole(ctx, api.UpdateUserRoleArgs{UserID: userID, Role: role})
	return notify.MutationResult(p.notifier, err, "Role updated to "+views.Label(string(role)), "Failed to update role")
}

// Flow returns the confirm dialog state for action.
func (p *UsersPage) Flow(action BulkAction) (*bulk.Flow, error) {
	f, ok := p.flows[action]
	if !ok {
		return nil, fmt.Errorf("unknown bulk action %q", action)
	}
	return f, nil
}

// Executor returns the request behind action.
func (p *UsersPage) Executor(action BulkAction) (bulk.Executor, error) {
	switch action {
	case BulkDisable, BulkEnable:
		disabled := action == BulkDisable
		return func(ctx context.Context, ids []string) (*models.BulkResult, error) {
			res, err := p.api.BulkToggleUserStatus(ctx, api.BulkUserStatusArgs{UserIDs: ids, Disabled: disabled})
			if err != nil {
				return nil, err
			}
			return &res.Results, nil
		}, nil
	case BulkDelete:
		return func(ctx context.Context, ids []string) (*models.BulkResult, error) {
			res, err := p.api.BulkDeleteUsers(ctx, api.BulkDeleteUsersArgs{UserIDs: ids})
			if err != nil {
				return nil, err
			}
			return &res.Results, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown bulk action %q", action)
}

// Bulk opens and immediately confirms action on ids, then dismisses the
// result. Callers that prompt for confirmation drive Flow themselves.
func (p *UsersPage) Bulk(ctx context.Context, action BulkAction, ids []string) (bulk.Outcome, error) {
	flow, err := p.Flow(action)
	if err != nil {
		return bulk.Outcome{}, err
	}
	exec, err := p.Executor(action)
	if err != nil {
		return bulk.Outcome{}, err
	}
	if err := flow.Open(ids); err != nil {
		return bulk.Outcome{}, err
	}
	out, err := flow.Confirm(ctx, exec)
	if derr := flow.Dismiss(); derr != nil && err == nil {
		err = derr
	}
	return out, err
}
