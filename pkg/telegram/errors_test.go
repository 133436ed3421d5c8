package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	verr := invalid("text", "must not be empty")
	rerr := newRemoteError(MethodSendMessage, &APIResponse{ErrorCode: 400, Description: "Bad Request: chat not found"})
	terr := &TransportError{Method: MethodGetUpdates, Err: context.DeadlineExceeded}

	assert.ErrorIs(t, verr, ErrValidation)
	assert.NotErrorIs(t, verr, ErrRemoteRejection)

	assert.ErrorIs(t, rerr, ErrRemoteRejection)
	assert.NotErrorIs(t, rerr, ErrTransportFailure)
	assert.Equal(t, "telegram sendMessage: 400 Bad Request: chat not found", rerr.Error())

	assert.ErrorIs(t, terr, ErrTransportFailure)
	assert.ErrorIs(t, terr, context.DeadlineExceeded)
	assert.NotErrorIs(t, terr, ErrValidation)

	wrapped := fmt.Errorf("relay: %w", rerr)
	assert.ErrorIs(t, wrapped, ErrRemoteRejection)
}

func TestRetryAfter(t *testing.T) {
	flood := newRemoteError(MethodSendMessage, &APIResponse{
		ErrorCode:   429,
		Description: "Too Many Requests: retry after 7",
		Parameters:  &ResponseParameters{RetryAfter: 7},
	})
	assert.True(t, flood.IsFlood())

	d, ok := RetryAfter(fmt.Errorf("send: %w", flood))
	assert.True(t, ok)
	assert.Equal(t, 7*time.Second, d)

	_, ok = RetryAfter(errors.New("boom"))
	assert.False(t, ok)
}
