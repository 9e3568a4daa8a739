package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/models"
)

// statusFor maps domain error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeValidation, domain.ErrCodeBadRequest:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden, domain.ErrCodeAccountDisabled:
		return http.StatusForbidden
	case domain.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond translates a service error into a JSON error response.
// Internal errors get logged and a generic body, everything else
// carries the domain message through.
func Respond(c echo.Context, err error) error {
	code := domain.GetErrorCode(err)
	status := statusFor(code)

	if status == http.StatusInternalServerError {
		log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
		return c.JSON(status, models.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred. Please try again later.",
		})
	}

	de, ok := err.(*domain.DomainError)
	message := ""
	if ok {
		message = de.Message
	}
	return c.JSON(status, models.ErrorResponse{
		Error:   errorSlug(code),
		Message: message,
	})
}

func errorSlug(code string) string {
	switch code {
	case domain.ErrCodeNotFound:
		return "not_found"
	case domain.ErrCodeValidation:
		return "validation_error"
	case domain.ErrCodeUnauthorized:
		return "unauthorized"
	case domain.ErrCodeForbidden:
		return "forbidden"
	case domain.ErrCodeAccountDisabled:
		return "account_disabled"
	case domain.ErrCodeConflict:
		return "conflict"
	case domain.ErrCodeBadRequest:
		return "bad_request"
	default:
		return "internal_error"
	}
}

// ValidationError returns a generic validation error without exposing
// internal details
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// BindError returns a generic malformed-body error
func BindError(c echo.Context, err error) error {
	log.Printf("[BIND ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_body",
		Message: "Request body could not be parsed.",
	})
}

// UnauthorizedError returns a generic unauthorized error
func UnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: "You are not authorized to access this resource.",
	})
}

// ForbiddenError returns a generic forbidden error
func ForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, models.ErrorResponse{
		Error:   "forbidden",
		Message: "You do not have permission to access this resource.",
	})
}

// NotFoundError returns a generic not found error
func NotFoundError(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "The requested resource was not found.",
	})
}
