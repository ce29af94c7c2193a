package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/clock"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

// InterviewRepository is what the service needs from storage. The
// locking conflict query and any insert or update that depends on it
// must run inside one WithTx transaction.
type InterviewRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// FindConflicts returns non-cancelled interviews where the given
	// party identity occupies the given role and the stored slot
	// overlaps the candidate slot. forUpdate=true locks each returned
	// row until the enclosing transaction ends.
	FindConflicts(ctx context.Context, role domain.Role, email string, slot domain.TimeSlot, forUpdate bool) ([]domain.Interview, error)

	Create(ctx context.Context, interview domain.Interview) error
	GetByID(ctx context.Context, id string) (domain.Interview, error)

	// UpdateStatus applies a status change guarded by the expected
	// revision; it returns domain.ErrRevisionConflict when the row has
	// moved on.
	UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus, updatedAt time.Time, expectedRevision int64) error

	List(ctx context.Context) ([]domain.Interview, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]domain.Interview, error)
	ListByRole(ctx context.Context, role domain.Role, email string) ([]domain.Interview, error)
}

type InterviewService struct {
	repo InterviewRepository
	clk  clock.Clock
	log  *zap.SugaredLogger
}

func NewInterviewService(repo InterviewRepository, clk clock.Clock, log *zap.SugaredLogger) *InterviewService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &InterviewService{
		repo: repo,
		clk:  clk,
		log:  log,
	}
}

// ScheduleInput carries an already-validated booking request. The
// transport layer owns field validation (non-blank identities,
// Slot.Start < Slot.End).
type ScheduleInput struct {
	CandidateName    string
	CandidateEmail   string
	InterviewerName  string
	InterviewerEmail string
	Slot             domain.TimeSlot
	Position         string
	Notes            string
}

// Schedule books an interview. Inside a single transaction it locks
// every conflicting row for both parties, fails with *ConflictError if
// any exist, and otherwise inserts the new interview. A concurrent
// booking for an overlapping slot blocks on the row locks and
// re-evaluates against committed state once they are released.
func (s *InterviewService) Schedule(ctx context.Context, in ScheduleInput) (domain.Interview, error) {
	s.log.Infow("scheduling interview",
		"candidate", in.CandidateEmail,
		"interviewer", in.InterviewerEmail,
		"start", in.Slot.Start,
		"end", in.Slot.End,
	)

	now := s.clk.Now()
	var result domain.Interview

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		conflicts, err := s.findConflicts(txCtx, in, true)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			s.log.Warnw("conflicts found for interview scheduling",
				"candidate", in.CandidateEmail,
				"interviewer", in.InterviewerEmail,
				"conflicts", len(conflicts),
			)
			return &domain.ConflictError{Conflicts: conflicts}
		}

		interview := domain.Interview{
			ID:               uuid.NewString(),
			CandidateName:    in.CandidateName,
			CandidateEmail:   in.CandidateEmail,
			InterviewerName:  in.InterviewerName,
			InterviewerEmail: in.InterviewerEmail,
			StartTime:        in.Slot.Start,
			EndTime:          in.Slot.End,
			Status:           domain.InterviewStatusPending,
			Position:         in.Position,
			Notes:            in.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
			Revision:         0,
		}

		if err := s.repo.Create(txCtx, interview); err != nil {
			return err
		}

		result = interview
		return nil
	})
	if err != nil {
		return domain.Interview{}, err
	}

	s.log.Infow("interview scheduled", "id", result.ID)
	return result, nil
}

// ConflictReport is the advisory answer of CheckConflicts. It never
// guarantees the slot stays free; only Schedule's locking path does.
type ConflictReport struct {
	HasConflict    bool
	Message        string
	Conflicts      []domain.Interview
	SuggestedSlots []string
}

const (
	msgConflicts   = "Conflicts detected. Please choose a different time slot."
	msgNoConflicts = "No conflicts found. This slot is available."
)

// CheckConflicts runs the non-locking conflict queries for both roles
// and reports the result as data. It takes no locks and mutates
// nothing, so results can be stale by the time a caller books.
func (s *InterviewService) CheckConflicts(ctx context.Context, in ScheduleInput) (ConflictReport, error) {
	s.log.Infow("checking conflicts",
		"candidate", in.CandidateEmail,
		"interviewer", in.InterviewerEmail,
	)

	conflicts, err := s.findConflicts(ctx, in, false)
	if err != nil {
		return ConflictReport{}, err
	}

	report := ConflictReport{
		HasConflict: len(conflicts) > 0,
		Message:     msgNoConflicts,
		Conflicts:   conflicts,
	}
	if report.HasConflict {
		report.Message = msgConflicts
		report.SuggestedSlots = suggestSlots(in.Slot)
	}
	return report, nil
}

// findConflicts queries both roles and concatenates the results. The
// two queries hit disjoint role predicates, so the combined list is not
// deduplicated.
func (s *InterviewService) findConflicts(ctx context.Context, in ScheduleInput, forUpdate bool) ([]domain.Interview, error) {
	interviewer, err := s.repo.FindConflicts(ctx, domain.RoleInterviewer, in.InterviewerEmail, in.Slot, forUpdate)
	if err != nil {
		return nil, err
	}

	candidate, err := s.repo.FindConflicts(ctx, domain.RoleCandidate, in.CandidateEmail, in.Slot, forUpdate)
	if err != nil {
		return nil, err
	}

	return append(interviewer, candidate...), nil
}

func (s *InterviewService) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InterviewService) List(ctx context.Context) ([]domain.Interview, error) {
	return s.repo.List(ctx)
}

// ListUpcoming returns non-cancelled interviews starting after now,
// soonest first.
func (s *InterviewService) ListUpcoming(ctx context.Context) ([]domain.Interview, error) {
	return s.repo.ListUpcoming(ctx, s.clk.Now())
}

func (s *InterviewService) ListByInterviewer(ctx context.Context, email string) ([]domain.Interview, error) {
	return s.repo.ListByRole(ctx, domain.RoleInterviewer, email)
}

func (s *InterviewService) ListByCandidate(ctx context.Context, email string) ([]domain.Interview, error) {
	return s.repo.ListByRole(ctx, domain.RoleCandidate, email)
}

// UpdateStatus moves an interview to a new status. Cancelled is
// terminal: any transition out of it fails with ErrInterviewCancelled.
// The revision guard catches concurrent direct updates to the same row.
func (s *InterviewService) UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus) (domain.Interview, error) {
	s.log.Infow("updating interview status", "id", id, "status", status)

	now := s.clk.Now()
	var result domain.Interview

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		interview, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if interview.Status == domain.InterviewStatusCancelled {
			return domain.ErrInterviewCancelled
		}

		if err := s.repo.UpdateStatus(txCtx, id, status, now, interview.Revision); err != nil {
			return err
		}

		interview.Status = status
		interview.UpdatedAt = now
		interview.Revision++
		result = interview
		return nil
	})
	if err != nil {
		return domain.Interview{}, err
	}

	return result, nil
}

// Cancel marks an interview cancelled. The row is kept for history and
// stops counting toward conflicts from this point on.
func (s *InterviewService) Cancel(ctx context.Context, id string) (domain.Interview, error) {
	s.log.Infow("cancelling interview", "id", id)
	return s.UpdateStatus(ctx, id, domain.InterviewStatusCancelled)
}
