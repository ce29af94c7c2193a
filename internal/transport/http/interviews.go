package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/app"
	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

// InterviewService is the surface the handlers need from the core.
type InterviewService interface {
	Schedule(ctx context.Context, in app.ScheduleInput) (domain.Interview, error)
	CheckConflicts(ctx context.Context, in app.ScheduleInput) (app.ConflictReport, error)
	GetByID(ctx context.Context, id string) (domain.Interview, error)
	List(ctx context.Context) ([]domain.Interview, error)
	ListUpcoming(ctx context.Context) ([]domain.Interview, error)
	ListByInterviewer(ctx context.Context, email string) ([]domain.Interview, error)
	ListByCandidate(ctx context.Context, email string) ([]domain.Interview, error)
	UpdateStatus(ctx context.Context, id string, status domain.InterviewStatus) (domain.Interview, error)
	Cancel(ctx context.Context, id string) (domain.Interview, error)
}

type InterviewHandler struct {
	svc InterviewService
}

func NewInterviewHandler(svc InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

func (h *InterviewHandler) Register(g *echo.Group) {
	g.POST("", h.schedule)
	g.POST("/check-conflicts", h.checkConflicts)
	g.GET("", h.list)
	g.GET("/upcoming", h.listUpcoming)
	g.GET("/interviewer/:email", h.listByInterviewer)
	g.GET("/candidate/:email", h.listByCandidate)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.cancel)
}

func (h *InterviewHandler) schedule(c echo.Context) error {
	in, ok := bindScheduleRequest(c)
	if !ok {
		return nil
	}

	interview, err := h.svc.Schedule(c.Request().Context(), in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toInterviewResponse(interview))
}

func (h *InterviewHandler) checkConflicts(c echo.Context) error {
	in, ok := bindScheduleRequest(c)
	if !ok {
		return nil
	}

	report, err := h.svc.CheckConflicts(c.Request().Context(), in)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, conflictResponse{
		HasConflict:           report.HasConflict,
		Message:               report.Message,
		ConflictingInterviews: toInterviewResponses(report.Conflicts),
		SuggestedSlots:        report.SuggestedSlots,
	})
}

func (h *InterviewHandler) list(c echo.Context) error {
	interviews, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

func (h *InterviewHandler) listUpcoming(c echo.Context) error {
	interviews, err := h.svc.ListUpcoming(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

func (h *InterviewHandler) listByInterviewer(c echo.Context) error {
	interviews, err := h.svc.ListByInterviewer(c.Request().Context(), c.Param("email"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

func (h *InterviewHandler) listByCandidate(c echo.Context) error {
	interviews, err := h.svc.ListByCandidate(c.Request().Context(), c.Param("email"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

func (h *InterviewHandler) getByID(c echo.Context) error {
	interview, err := h.svc.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponse(interview))
}

func (h *InterviewHandler) updateStatus(c echo.Context) error {
	status, err := domain.ParseInterviewStatus(c.QueryParam("status"))
	if err != nil {
		return writeServiceError(c, err)
	}

	interview, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponse(interview))
}

func (h *InterviewHandler) cancel(c echo.Context) error {
	interview, err := h.svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toInterviewResponse(interview))
}

type interviewRequest struct {
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	InterviewerName  string    `json:"interviewer_name"`
	InterviewerEmail string    `json:"interviewer_email"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Position         string    `json:"position"`
	Notes            string    `json:"notes"`
}

// validate enforces the request-layer contract the core assumes:
// non-blank identities and a strictly ordered interval.
func (r interviewRequest) validate() error {
	required := map[string]string{
		"candidate_name":    r.CandidateName,
		"candidate_email":   r.CandidateEmail,
		"interviewer_name":  r.InterviewerName,
		"interviewer_email": r.InterviewerEmail,
		"position":          r.Position,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return errors.New(field + " is required")
		}
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errors.New("start_time and end_time are required")
	}
	if !r.StartTime.Before(r.EndTime) {
		return errors.New("start_time must be before end_time")
	}
	return nil
}

// bindScheduleRequest decodes and validates a booking request. On
// failure it writes the 400 response itself and reports ok=false.
func bindScheduleRequest(c echo.Context) (app.ScheduleInput, bool) {
	var req interviewRequest
	if err := c.Bind(&req); err != nil {
		_ = writeError(c, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return app.ScheduleInput{}, false
	}
	if err := req.validate(); err != nil {
		_ = writeError(c, http.StatusBadRequest, codeValidationFailed, err.Error())
		return app.ScheduleInput{}, false
	}

	return app.ScheduleInput{
		CandidateName:    req.CandidateName,
		CandidateEmail:   req.CandidateEmail,
		InterviewerName:  req.InterviewerName,
		InterviewerEmail: req.InterviewerEmail,
		Slot:             domain.TimeSlot{Start: req.StartTime.UTC(), End: req.EndTime.UTC()},
		Position:         req.Position,
		Notes:            req.Notes,
	}, true
}

type interviewResponse struct {
	ID               string    `json:"id"`
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	InterviewerName  string    `json:"interviewer_name"`
	InterviewerEmail string    `json:"interviewer_email"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	Position         string    `json:"position"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Revision         int64     `json:"revision"`
}

type conflictResponse struct {
	HasConflict           bool                `json:"has_conflict"`
	Message               string              `json:"message"`
	ConflictingInterviews []interviewResponse `json:"conflicting_interviews"`
	SuggestedSlots        []string            `json:"suggested_slots,omitempty"`
	Code                  string              `json:"code,omitempty"`
}

func toInterviewResponse(i domain.Interview) interviewResponse {
	return interviewResponse{
		ID:               i.ID,
		CandidateName:    i.CandidateName,
		CandidateEmail:   i.CandidateEmail,
		InterviewerName:  i.InterviewerName,
		InterviewerEmail: i.InterviewerEmail,
		StartTime:        i.StartTime,
		EndTime:          i.EndTime,
		Status:           string(i.Status),
		Position:         i.Position,
		Notes:            i.Notes,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
		Revision:         i.Revision,
	}
}

func toInterviewResponses(interviews []domain.Interview) []interviewResponse {
	responses := make([]interviewResponse, 0, len(interviews))
	for _, i := range interviews {
		responses = append(responses, toInterviewResponse(i))
	}
	return responses
}
