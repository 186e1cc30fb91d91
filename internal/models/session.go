package models

import "time"

// SessionStatus is the lifecycle state of a mentoring session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionAccepted  SessionStatus = "accepted"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionRejected  SessionStatus = "rejected"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionAccepted, SessionCompleted, SessionCancelled, SessionRejected:
		return true
	}
	return false
}

// Session is a scheduled meeting between a mentor and a learner.
type Session struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Status          SessionStatus `json:"status"`
	MentorID        string        `json:"mentorId"`
	MentorName      string        `json:"mentorName,omitempty"`
	LearnerID       string        `json:"learnerId"`
	LearnerName     string        `json:"learnerName,omitempty"`
	Participants    []string      `json:"participants,omitempty"`
	ScheduledAt     Timestamp     `json:"scheduledAt"`
	DurationMinutes int           `json:"durationMinutes"`
	Reason          string        `json:"reason,omitempty"`
}

// EndsAt returns the scheduled end of the session.
func (s Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsUpcoming reports whether the session is still ahead of now and not closed.
func (s Session) IsUpcoming(now time.Time) bool {
	if s.Status != SessionPending && s.Status != SessionAccepted {
		return false
	}
	return s.ScheduledAt.After(now)
}

// SessionsResponse is a list of sessions.
type SessionsResponse struct {
	Sessions   []Session  `json:"sessions"`
	Pagination Pagination `json:"pagination"`
}

// SessionResponse wraps a single session.
type SessionResponse struct {
	Message string  `json:"message,omitempty"`
	Session Session `json:"session"`
}
