package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeMatchesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewSequenceConflict(5))
	assert.True(t, HasCode(err, CodeSequenceConflict))
	assert.False(t, HasCode(err, CodeRateLimited))
	assert.False(t, HasCode(errors.New("plain"), CodeSequenceConflict))
}

func TestNewRateLimitedRoundsUp(t *testing.T) {
	err := NewRateLimited(90*time.Second + 300*time.Millisecond)

	seconds, ok := RetryAfter(err)
	require.True(t, ok)
	assert.Equal(t, int64(91), seconds, "clients must never retry before the window resets")

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusTooManyRequests, domainErr.HTTPStatus)
}

func TestRetryAfterOnlyForRateLimits(t *testing.T) {
	_, ok := RetryAfter(NewValidationError("bad", nil))
	assert.False(t, ok)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection reset")
	domainErr := ToDomainError(cause)
	require.NotNil(t, domainErr)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.ErrorIs(t, domainErr, cause)

	assert.Nil(t, ToDomainError(nil))
}

func TestTransactionFailedKeepsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := NewTransactionFailed(cause)
	assert.True(t, HasCode(err, CodeTransactionFailed))
	assert.ErrorIs(t, err, cause)
}
