package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// statusByCode maps domain error codes onto transport statuses.
var statusByCode = map[string]int{
	"invalid_input":        http.StatusBadRequest,
	"weak_password":        http.StatusBadRequest,
	"not_found":            http.StatusNotFound,
	"user_not_found":       http.StatusNotFound,
	"email_exists":         http.StatusConflict,
	"phone_exists":         http.StatusConflict,
	"invalid_credentials":  http.StatusUnauthorized,
	"invalid_token":        http.StatusUnauthorized,
	"role_mismatch":        http.StatusForbidden,
	"account_inactive":     http.StatusForbidden,
	"forecast_unavailable": http.StatusBadGateway,
	"storage_error":        http.StatusBadGateway,
	"catalog_unavailable":  http.StatusServiceUnavailable,
	"queue_unavailable":    http.StatusServiceUnavailable,
}

// fromDomainError translates an application error into an HTTPError.
// Unknown codes become 500 and keep their message out of the response.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		if code == "" {
			code = "internal_error"
		}
		return NewHTTPError(http.StatusInternalServerError, code, "something went wrong", err)
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// abortWithDomainError is the common failure path for service calls.
func abortWithDomainError(c *gin.Context, err error) {
	abortWithError(c, fromDomainError(err))
}

func invalidRequest(c *gin.Context, err error) {
	abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
