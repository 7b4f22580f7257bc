package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

var kindNames = map[error]string{
	types.ErrInvalidName:      "invalid_name",
	types.ErrInvalidPath:      "invalid_path",
	types.ErrAlreadyExists:    "already_exists",
	types.ErrNotFound:         "not_found",
	types.ErrPermissionDenied: "permission_denied",
	types.ErrNotSupported:     "not_supported",
	types.ErrForbidden:        "forbidden",
	types.ErrEmptySelection:   "empty_selection",
}

// KindName returns the wire name of err's taxonomy kind, or "internal"
func KindName(err error) string {
	if name, ok := kindNames[types.Kind(types.Classify(err))]; ok {
		return name
	}
	return "internal"
}

// StatusFor maps an engine error onto an HTTP status
func StatusFor(err error) int {
	switch types.Kind(types.Classify(err)) {
	case types.ErrInvalidName, types.ErrInvalidPath, types.ErrEmptySelection:
		return http.StatusBadRequest
	case types.ErrNotFound:
		return http.StatusNotFound
	case types.ErrAlreadyExists:
		return http.StatusConflict
	case types.ErrPermissionDenied, types.ErrForbidden:
		return http.StatusForbidden
	case types.ErrNotSupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.Canceled) {
		return 499
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error    string         `json:"error"`
	Kind     string         `json:"kind"`
	Severity types.Severity `json:"severity"`
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), errorResponse{
		Error:    err.Error(),
		Kind:     KindName(err),
		Severity: types.SeverityOf(err),
	})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:    err.Error(),
		Kind:     "bad_request",
		Severity: types.SeverityError,
	})
}
