package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/app"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

var validBody = `{
	"candidate_name": "Ada",
	"candidate_email": "ada@example.com",
	"interviewer_name": "Grace",
	"interviewer_email": "grace@example.com",
	"start_time": "2024-01-10T09:00:00Z",
	"end_time": "2024-01-10T10:00:00Z",
	"position": "Backend Engineer"
}`

func testInterview() domain.Interview {
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	return domain.Interview{
		ID:               "b3b1f6b2-0000-4000-8000-000000000001",
		CandidateName:    "Ada",
		CandidateEmail:   "ada@example.com",
		InterviewerName:  "Grace",
		InterviewerEmail: "grace@example.com",
		StartTime:        time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		Status:           domain.InterviewStatusPending,
		Position:         "Backend Engineer",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func doRequest(t *testing.T, svc InterviewService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()

	NewRouter(svc, nil, []string{"*"}).ServeHTTP(rec, req)
	return rec
}

func TestScheduleHandler(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{scheduleResult: testInterview()}

		rec := doRequest(t, svc, http.MethodPost, "/api/interviews", validBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp interviewResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "pending", resp.Status)
		require.Equal(t, "ada@example.com", resp.CandidateEmail)
	})

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()
		bodies := []string{
			`{"candidate_email":`,
			`{"candidate_email": "ada@example.com"}`,
			strings.Replace(validBody, "2024-01-10T10:00:00Z", "2024-01-10T09:00:00Z", 1),
			strings.Replace(validBody, "2024-01-10T10:00:00Z", "2024-01-10T08:00:00Z", 1),
		}
		for _, body := range bodies {
			svc := &stubService{scheduleResult: testInterview()}
			rec := doRequest(t, svc, http.MethodPost, "/api/interviews", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
			require.Zero(t, svc.scheduleCalls, "core must not see invalid requests")
		}
	})

	t.Run("conflict answers 409 with conflict list", func(t *testing.T) {
		t.Parallel()
		conflict := testInterview()
		svc := &stubService{scheduleErr: &domain.ConflictError{Conflicts: []domain.Interview{conflict}}}

		rec := doRequest(t, svc, http.MethodPost, "/api/interviews", validBody)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp conflictResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.True(t, resp.HasConflict)
		require.Len(t, resp.ConflictingInterviews, 1)
		require.Equal(t, conflict.ID, resp.ConflictingInterviews[0].ID)
	})

	t.Run("lock timeout answers 503", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{scheduleErr: domain.ErrLockTimeout}

		rec := doRequest(t, svc, http.MethodPost, "/api/interviews", validBody)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("storage failure answers 500", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{scheduleErr: errors.New("boom")}

		rec := doRequest(t, svc, http.MethodPost, "/api/interviews", validBody)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCheckConflictsHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{checkResult: app.ConflictReport{
		HasConflict:    true,
		Message:        "Conflicts detected. Please choose a different time slot.",
		Conflicts:      []domain.Interview{testInterview()},
		SuggestedSlots: []string{"2024-01-10T11:00:00Z to 2024-01-10T12:00:00Z"},
	}}

	rec := doRequest(t, svc, http.MethodPost, "/api/interviews/check-conflicts", validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp conflictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.HasConflict)
	require.Len(t, resp.ConflictingInterviews, 1)
	require.Len(t, resp.SuggestedSlots, 1)
}

func TestGetByIDHandler(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{getResult: testInterview()}

		rec := doRequest(t, svc, http.MethodGet, "/api/interviews/"+testInterview().ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{getErr: domain.ErrInterviewNotFound}

		rec := doRequest(t, svc, http.MethodGet, "/api/interviews/missing", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Parallel()

	t.Run("updates", func(t *testing.T) {
		t.Parallel()
		updated := testInterview()
		updated.Status = domain.InterviewStatusConfirmed
		svc := &stubService{updateResult: updated}

		rec := doRequest(t, svc, http.MethodPatch, "/api/interviews/"+updated.ID+"/status?status=confirmed", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, domain.InterviewStatusConfirmed, svc.updateStatus)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{}

		rec := doRequest(t, svc, http.MethodPatch, "/api/interviews/some-id/status?status=postponed", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Zero(t, svc.updateCalls)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		t.Parallel()
		svc := &stubService{updateErr: domain.ErrInterviewCancelled}

		rec := doRequest(t, svc, http.MethodPatch, "/api/interviews/some-id/status?status=pending", "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCancelHandler(t *testing.T) {
	t.Parallel()

	cancelled := testInterview()
	cancelled.Status = domain.InterviewStatusCancelled
	svc := &stubService{cancelResult: cancelled}

	rec := doRequest(t, svc, http.MethodDelete, "/api/interviews/"+cancelled.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp interviewResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "cancelled", resp.Status)
}

func TestListHandlers(t *testing.T) {
	t.Parallel()

	svc := &stubService{listResult: []domain.Interview{testInterview()}}

	for _, path := range []string{
		"/api/interviews",
		"/api/interviews/upcoming",
		"/api/interviews/interviewer/grace@example.com",
		"/api/interviews/candidate/ada@example.com",
	} {
		rec := doRequest(t, svc, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, "path: %s", path)

		var resp []interviewResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 1, "path: %s", path)
	}
}

type stubService struct {
	scheduleResult domain.Interview
	scheduleErr    error
	scheduleCalls  int

	checkResult app.ConflictReport
	checkErr    error

	getResult domain.Interview
	getErr    error

	listResult []domain.Interview
	listErr    error

	updateResult domain.Interview
	updateErr    error
	updateStatus domain.InterviewStatus
	updateCalls  int

	cancelResult domain.Interview
	cancelErr    error
}

func (s *stubService) Schedule(ctx context.Context, in app.ScheduleInput) (domain.Interview, error) {
	s.scheduleCalls++
	return s.scheduleResult, s.scheduleErr
}

func (s *stubService) CheckConflicts(ctx context.Context, in app.ScheduleInput) (app.ConflictReport, error) {
	return s.checkResult, s.checkErr
}

func (s *stubService) GetByID(ctx context.Context, id string) (domain.Interview, error) {
	return s.getResult, s.getErr
}

func (s *stubService) List(ctx context.Context) ([]domain.Interview, error) {
	return s.listResult, s.listErr
}

func (s *stubService) ListUpcoming(ctx context.Context) ([]domain.Interview, error) {
	return s.listResult, s.listErr
}

func (s *stubService) ListByInterviewer(ctx context.Context, email string) ([]domain.Interview, error) {
	return s.listResult, s.listErr
}

func (s *stubService) ListByCandidate(ctx context.Context, email string) ([]domain.Interview, error) {
	return s.listResult, s.listErr
}

func (s *stubService) UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus) (domain.Interview, error) {
	s.updateCalls++
	s.updateStatus = status
	return s.updateResult, s.updateErr
}

func (s *stubService) Cancel(ctx context.Context, id string) (domain.Interview, error) {
	return s.cancelResult, s.cancelErr
}
