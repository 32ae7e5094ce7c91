package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("submit: %w", AlreadyReviewed(nil))

	assert.True(t, Is(err, CodeAlreadyReviewed))
	assert.False(t, Is(err, CodeSelfReview))
	assert.False(t, Is(stderrors.New("plain"), CodeAlreadyReviewed))
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("duplicate key")
	err := AlreadyReviewed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "ALREADY_REVIEWED: You have already reviewed this user", err.Error())
}

func TestContentFlagged_CarriesStrikeNumber(t *testing.T) {
	err := ContentFlagged(2)

	assert.Equal(t, CodeContentFlagged, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, 2, err.Details["strikeNumber"])
}

func TestRatingOutOfRange_CarriesBounds(t *testing.T) {
	err := RatingOutOfRange(5, 10)

	assert.Equal(t, "Rating must be between 5 and 10", err.Message)
	assert.Equal(t, 5, err.Details["min"])
	assert.Equal(t, 10, err.Details["max"])
}

func TestGateErrorStatuses(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{SelfReview(), http.StatusBadRequest},
		{UserNotFound("u1"), http.StatusNotFound},
		{EmergencyAlreadyUsed(), http.StatusConflict},
		{PhoneRequired(), http.StatusForbidden},
		{InsufficientMessageHistory("no"), http.StatusForbidden},
		{WeeklyQuotaExceeded(), http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.err.Code, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
		})
	}
}
