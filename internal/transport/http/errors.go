package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medhadesawale/Interview-Slot-Conflict-Resolver/internal/domain"
)

const (
	codeNotFound           = "interview_not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeValidationFailed   = "validation_failed"
	codeInvalidID          = "invalid_id"
	codeInvalidStatus      = "invalid_status"
	codeInterviewCancelled = "interview_cancelled"
	codeRevisionConflict   = "revision_conflict"
	codeSchedulingConflict = "scheduling_conflict"
	codeLockTimeout        = "slot_lock_timeout"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps domain errors onto HTTP statuses. A scheduling
// conflict answers with the full conflict report body so callers can
// show the offending interviews, matching the check-conflicts shape.
func writeServiceError(c echo.Context, err error) error {
	if ce, ok := domain.AsConflictError(err); ok {
		return c.JSON(http.StatusConflict, conflictResponse{
			HasConflict:           true,
			Message:               "Interview slot conflicts detected. Please choose a different time.",
			ConflictingInterviews: toInterviewResponses(ce.Conflicts),
			Code:                  codeSchedulingConflict,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInterviewNotFound):
		return writeError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		return writeError(c, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		return writeError(c, http.StatusUnprocessableEntity, codeInvalidStatus, err.Error())
	case errors.Is(err, domain.ErrInterviewCancelled):
		return writeError(c, http.StatusConflict, codeInterviewCancelled, err.Error())
	case errors.Is(err, domain.ErrRevisionConflict):
		return writeError(c, http.StatusConflict, codeRevisionConflict, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		return writeError(c, http.StatusServiceUnavailable, codeLockTimeout, err.Error())
	}
	return writeError(c, http.StatusInternalServerError, codeInternalError, "internal error")
}
