package domain

import "time"

type InterviewStatus string

const (
	InterviewStatusPending   InterviewStatus = "pending"
	InterviewStatusConfirmed InterviewStatus = "confirmed"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
)

// ParseInterviewStatus maps a wire value onto a known status.
func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch InterviewStatus(s) {
	case InterviewStatusPending, InterviewStatusConfirmed, InterviewStatusCompleted, InterviewStatusCancelled:
		return InterviewStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// Role selects which side of an interview a party identity refers to.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

// Interview is a booked time slot between a candidate and an interviewer.
type Interview struct {
	ID               string
	CandidateName    string
	CandidateEmail   string
	InterviewerName  string
	InterviewerEmail string
	StartTime        time.Time
	EndTime          time.Time
	Status           InterviewStatus
	Position         string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// Revision increments on every mutation; direct status updates use it
	// as an optimistic guard, independent of the booking-path row locks.
	Revision int64
}

func (i Interview) Slot() TimeSlot {
	return TimeSlot{Start: i.StartTime, End: i.EndTime}
}
