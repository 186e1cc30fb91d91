package views

import (
	"cmp"
	"slices"

	"github.com/wolfeidau/mentorhub/internal/models"
)

// Sort keys understood by the list pages.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortTitle    = "title"
	SortProgress = "progress"
)

// SortProjects returns a sorted copy of projects. Unknown keys keep the
// server order.
func SortProjects(projects []models.Project, key string) []models.Project {
	out := slices.Clone(projects)

	var less func(a, b models.Project) int
	switch key {
	case SortNewest:
		less = func(a, b models.Project) int { return b.CreatedAt.Compare(a.CreatedAt.Time) }
	case SortOldest:
		less = func(a, b models.Project) int { return a.CreatedAt.Compare(b.CreatedAt.Time) }
	case SortTitle:
		less = func(a, b models.Project) int { return cmp.Compare(fold(a.Title), fold(b.Title)) }
	case SortProgress:
		less = func(a, b models.Project) int { return cmp.Compare(b.Progress, a.Progress) }
	default:
		return out
	}

	slices.SortStableFunc(out, less)
	return out
}

// SortSessions orders sessions by scheduled time, soonest first.
func SortSessions(sessions []models.Session) []models.Session {
	out := slices.Clone(sessions)
	slices.SortStableFunc(out, func(a, b models.Session) int {
		return a.ScheduledAt.Compare(b.ScheduledAt.Time)
	})
	return out
}

// SortUsers orders users by name.
func SortUsers(users []models.User) []models.User {
	out := slices.Clone(users)
	slices.SortStableFunc(out, func(a, b models.User) int {
		return cmp.Compare(fold(a.FullName), fold(b.FullName))
	})
	return out
}
