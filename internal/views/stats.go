package views

import (
	"time"

	"github.com/wolfeidau/mentorhub/internal/models"
)

type ProjectStats struct {
	Total           int
	ByStatus        map[models.ProjectStatus]int
	AverageProgress float64
}

func NewProjectStats(projects []models.Project) ProjectStats {
	s := ProjectStats{Total: len(projects), ByStatus: map[models.ProjectStatus]int{}}
	if len(projects) == 0 {
		return s
	}

	var sum float64
	for _, p := range projects {
		s.ByStatus[p.Status]++
		sum += clamp(p.Progress, 0, 100)
	}
	s.AverageProgress = sum / float64(len(projects))
	return s
}

type UserStats struct {
	Total    int
	Active   int
	Disabled int
	ByRole   map[models.Role]int
}

func NewUserStats(users []models.User) UserStats {
	s := UserStats{Total: len(users), ByRole: map[models.Role]int{}}
	for _, u := range users {
		s.ByRole[u.Role]++
		if u.Disabled {
			s.Disabled++
		} else {
			s.Active++
		}
	}
	return s
}

type ContactStats struct {
	Total    int
	ByStatus map[models.ContactStatus]int
	ByType   map[models.ContactType]int
}

func NewContactStats(contacts []models.Contact) ContactStats {
	s := ContactStats{
		Total:    len(contacts),
		ByStatus: map[models.ContactStatus]int{},
		ByType:   map[models.ContactType]int{},
	}
	for _, c := range contacts {
		s.ByStatus[c.Status]++
		s.ByType[c.Type]++
	}
	return s
}

// Open counts contacts that still need attention.
func (s ContactStats) Open() int {
	return s.ByStatus[models.ContactNew] + s.ByStatus[models.ContactInProgress]
}

type ApplicationStats struct {
	Total    int
	ByStatus map[models.ApplicationStatus]int
	ByType   map[models.ApplicationType]int
}

func NewApplicationStats(apps []models.Application) ApplicationStats {
	s := ApplicationStats{
		Total:    len(apps),
		ByStatus: map[models.ApplicationStatus]int{},
		ByType:   map[models.ApplicationType]int{},
	}
	for _, a := range apps {
		s.ByStatus[a.Status]++
		s.ByType[a.Type]++
	}
	return s
}

// AwaitingReview counts pending and in-review applications.
func (s ApplicationStats) AwaitingReview() int {
	return s.ByStatus[models.ApplicationPending] + s.ByStatus[models.ApplicationReviewing]
}

type SessionStats struct {
	Total    int
	Upcoming int
	Past     int
	ByStatus map[models.SessionStatus]int
}

func NewSessionStats(sessions []models.Session, now time.Time) SessionStats {
	s := SessionStats{Total: len(sessions), ByStatus: map[models.SessionStatus]int{}}
	for _, session := range sessions {
		s.ByStatus[session.Status]++
		if session.IsUpcoming(now) {
			s.Upcoming++
		} else {
			s.Past++
		}
	}
	return s
}
