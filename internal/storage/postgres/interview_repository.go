package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

const interviewColumns = `id, candidate_name, candidate_email, interviewer_name, interviewer_email,
start_time, end_time, status, position, notes, created_at, updated_at, revision`

const defaultLockTimeout = 5 * time.Second

type InterviewRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewInterviewRepository(pool *pgxpool.Pool, opts ...InterviewRepositoryOption) *InterviewRepository {
	r := &InterviewRepository{
		pool:        pool,
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type InterviewRepositoryOption func(*InterviewRepository)

// WithLockTimeout bounds how long a booking transaction waits on
// another transaction's row locks.
func WithLockTimeout(d time.Duration) InterviewRepositoryOption {
	return func(r *InterviewRepository) {
		if d > 0 {
			r.lockTimeout = d
		}
	}
}

func (r *InterviewRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, r.lockTimeout, fn)
}

// FindConflicts returns non-cancelled interviews where email fills the
// given role and the stored interval overlaps slot. Overlap is strict
// (start_time < $3 AND end_time > $2): intervals touching at an
// endpoint do not conflict. With forUpdate the matched rows stay
// exclusively locked until the enclosing transaction ends, which
// serializes concurrent bookings contending for the same party.
func (r *InterviewRepository) FindConflicts(ctx context.Context, role domain.Role, email string, slot domain.TimeSlot, forUpdate bool) ([]domain.Interview, error) {
	column, err := roleColumn(role)
	if err != nil {
		return nil, err
	}

	if forUpdate {
		// Row locks cannot guard a slot no row occupies yet: two empty
		// conflict scans would both insert. A per-party advisory lock,
		// scoped to the transaction, closes that window; parties other
		// than this one are unaffected. lock_timeout bounds the wait.
		if _, err := r.exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, email); err != nil {
			return nil, fmt.Errorf("lock party %s: %w", email, mapLockErr(err))
		}
	}

	query := fmt.Sprintf(`
SELECT %s
FROM interviews
WHERE %s = $1
  AND status <> 'cancelled'
  AND start_time < $3
  AND end_time > $2
ORDER BY start_time`, interviewColumns, column)
	if forUpdate {
		query += `
FOR UPDATE`
	}

	rows, err := r.query(ctx, query, email, slot.Start, slot.End)
	if err != nil {
		return nil, fmt.Errorf("find conflicts: %w", mapLockErr(err))
	}
	return scanInterviews(rows)
}

func (r *InterviewRepository) Create(ctx context.Context, i domain.Interview) error {
	const stmt = `
INSERT INTO interviews (id, candidate_name, candidate_email, interviewer_name, interviewer_email,
	start_time, end_time, status, position, notes, created_at, updated_at, revision)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.exec(ctx, stmt,
		i.ID,
		i.CandidateName,
		i.CandidateEmail,
		i.InterviewerName,
		i.InterviewerEmail,
		i.StartTime,
		i.EndTime,
		i.Status,
		i.Position,
		i.Notes,
		i.CreatedAt,
		i.UpdatedAt,
		i.Revision,
	)
	if err != nil {
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE id = $1`, interviewColumns)

	i, err := scanInterview(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Interview{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Interview{}, domain.ErrInterviewNotFound
		}
		return domain.Interview{}, fmt.Errorf("get interview: %w", err)
	}
	return i, nil
}

// UpdateStatus bumps the revision together with the status change. The
// expectedRevision guard makes concurrent direct updates lose cleanly
// instead of clobbering each other.
func (r *InterviewRepository) UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus, updatedAt time.Time, expectedRevision int64) error {
	const stmt = `
UPDATE interviews
SET status = $2, updated_at = $3, revision = revision + 1
WHERE id = $1 AND revision = $4`

	tag, err := r.exec(ctx, stmt, id, status, updatedAt, expectedRevision)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update interview status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM interviews WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check interview exists: %w", err)
		}
		if !exists {
			return domain.ErrInterviewNotFound
		}
		return domain.ErrRevisionConflict
	}
	return nil
}

func (r *InterviewRepository) List(ctx context.Context) ([]domain.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews ORDER BY start_time DESC`, interviewColumns)

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return scanInterviews(rows)
}

func (r *InterviewRepository) ListUpcoming(ctx context.Context, after time.Time) ([]domain.Interview, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM interviews
WHERE status <> 'cancelled' AND start_time > $1
ORDER BY start_time ASC`, interviewColumns)

	rows, err := r.query(ctx, query, after)
	if err != nil {
		return nil, fmt.Errorf("list upcoming interviews: %w", err)
	}
	return scanInterviews(rows)
}

func (r *InterviewRepository) ListByRole(ctx context.Context, role domain.Role, email string) ([]domain.Interview, error) {
	column, err := roleColumn(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT %s
FROM interviews
WHERE %s = $1
ORDER BY start_time DESC`, interviewColumns, column)

	rows, err := r.query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list interviews by %s: %w", role, err)
	}
	return scanInterviews(rows)
}

func roleColumn(role domain.Role) (string, error) {
	switch role {
	case domain.RoleCandidate:
		return "candidate_email", nil
	case domain.RoleInterviewer:
		return "interviewer_email", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

func mapLockErr(err error) error {
	if isLockNotAvailable(err) || isDeadlockDetected(err) {
		return domain.ErrLockTimeout
	}
	return err
}

func scanInterview(row pgx.Row) (domain.Interview, error) {
	var i domain.Interview
	err := row.Scan(
		&i.ID,
		&i.CandidateName,
		&i.CandidateEmail,
		&i.InterviewerName,
		&i.InterviewerEmail,
		&i.StartTime,
		&i.EndTime,
		&i.Status,
		&i.Position,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Revision,
	)
	return i, err
}

func scanInterviews(rows pgx.Rows) ([]domain.Interview, error) {
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		interviews = append(interviews, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", mapLockErr(err))
	}
	return interviews, nil
}

func (r *InterviewRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InterviewRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *InterviewRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
