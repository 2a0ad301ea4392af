package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/natal-chart/pkg/errors"
)

// statusClientClosedRequest is the non-standard status for requests abandoned by the client.
const statusClientClosedRequest = 499

// HTTPError is the transport form of a failed request: a status plus the public code and message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError builds an HTTPError for failures detected in the transport itself.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type errorRoute struct {
	status int
	code   string
}

// errorRoutes maps domain AppError codes onto transport status and public error code.
var errorRoutes = map[string]errorRoute{
	apperrors.CodeInvalidInput:   {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeNotFound:       {http.StatusNotFound, "not_found"},
	apperrors.CodeEphemerisError: {http.StatusBadGateway, "ephemeris_error"},
	apperrors.CodeChartError:     {http.StatusInternalServerError, "chart_failed"},
	apperrors.CodeProfileError:   {http.StatusInternalServerError, "profile_failed"},
	apperrors.CodeInvalidToken:   {http.StatusForbidden, "invalid_token"},
	apperrors.CodeAuthError:      {http.StatusInternalServerError, "auth_failed"},
	apperrors.CodeCanceled:       {statusClientClosedRequest, "request_canceled"},
}

// asHTTPError resolves any error into its response form. Domain errors are routed by
// AppError code and keep their AppError message; anything else is an opaque 500.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if route, ok := errorRoutes[appErr.Code]; ok {
			message := appErr.Message
			if message == "" {
				message = err.Error()
			}
			return &HTTPError{Status: route.status, Code: route.code, Message: message, Err: err}
		}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// abortWithError records err for errorHandlingMiddleware and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(asHTTPError(err))
	c.Abort()
}
