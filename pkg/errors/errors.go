package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value that is rendered in the error response.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// Is reports whether any AppError in err's chain carries code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Review gate failures

func SelfReview() *AppError {
	return New(CodeSelfReview, "You cannot review yourself", http.StatusBadRequest, nil)
}

func UserNotFound(uid string) *AppError {
	return New(CodeUserNotFound, fmt.Sprintf("User %s not found", uid), http.StatusNotFound, nil)
}

func AlreadyReviewed(err error) *AppError {
	return New(CodeAlreadyReviewed, "You have already reviewed this user", http.StatusConflict, err)
}

func EmergencyAlreadyUsed() *AppError {
	return New(CodeEmergencyAlreadyUsed, "Emergency review for this user has already been used", http.StatusConflict, nil)
}

func PhoneRequired() *AppError {
	return New(CodePhoneRequired, "A verified phone number is required for emergency reviews", http.StatusForbidden, nil)
}

func InsufficientMessageHistory(message string) *AppError {
	return New(CodeInsufficientMessageHistory, message, http.StatusForbidden, nil)
}

func WeeklyQuotaExceeded() *AppError {
	return New(CodeWeeklyQuotaExceeded, "Weekly review limit reached", http.StatusTooManyRequests, nil)
}

func RatingOutOfRange(min, max int) *AppError {
	return New(CodeRatingOutOfRange, fmt.Sprintf("Rating must be between %d and %d", min, max), http.StatusBadRequest, nil).
		WithDetail("min", min).
		WithDetail("max", max)
}

func ContentFlagged(strikeNumber int) *AppError {
	return New(CodeContentFlagged, "Review contains prohibited content and was rejected", http.StatusUnprocessableEntity, nil).
		WithDetail("strikeNumber", strikeNumber)
}
