package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-workers/internal/common/camunda/camundatest"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func jobWithRetries(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:     42,
		Type:    "calculate-assignment-score",
		Retries: retries,
	}}
}

// ==========================
// Throw (non-retryable)
// ==========================

func TestHandleJobError_ThrowsNonRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"malformed line", NewMalformedLineError(1, "missing ';' separator"), "MALFORMED_LINE"},
		{"overflow", NewScoreOverflowError(300, 200), "SCORE_OVERFLOW"},
		{"unknown strategy", NewUnknownStrategyError("greedy"), "UNKNOWN_STRATEGY"},
		{"validation", NewValidationFailedError("line is required"), "VALIDATION_FAILED"},
		{"wrapped", fmt.Errorf("score job: %w", NewScoreOverflowError(300, 200)), "SCORE_OVERFLOW"},
		{"joined", stderrors.Join(fmt.Errorf("context"), NewMalformedLineError(1, "empty product group")), "MALFORMED_LINE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			log := &recordingLogger{}

			NewErrorHandler(log).HandleJobError(context.Background(), client, jobWithRetries(3), tt.err)

			require.Len(t, client.Gateway.Thrown, 1)
			assert.Empty(t, client.Gateway.Failed)
			thrown := client.Gateway.Thrown[0]
			assert.Equal(t, int64(42), thrown.JobKey)
			assert.Equal(t, tt.wantCode, thrown.ErrorCode)

			var vars map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(thrown.Variables), &vars))
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, false, vars["retryable"])
			assert.Contains(t, log.messages, "Job failed")
		})
	}
}

// ==========================
// Fail (retryable)
// ==========================

func TestHandleJobError_FailsRetryable(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		jobRetries  int32
		maxRetries  int
		wantRetries int32
	}{
		{"unexpected error consumes one retry", fmt.Errorf("rpc error: unavailable"), 3, 0, 2},
		{"last retry leaves none", fmt.Errorf("rpc error: unavailable"), 1, 0, 0},
		{"code table caps retries", NewCacheUnavailableError(fmt.Errorf("dial tcp")), 10, 0, 3},
		{"worker config caps retries", fmt.Errorf("deadline exceeded"), 5, 1, 1},
		{"cap above remaining is ignored", fmt.Errorf("deadline exceeded"), 2, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			handler := NewErrorHandler(&recordingLogger{}).WithMaxRetries(tt.maxRetries)

			handler.HandleJobError(context.Background(), client, jobWithRetries(tt.jobRetries), tt.err)

			require.Len(t, client.Gateway.Failed, 1)
			assert.Empty(t, client.Gateway.Thrown)
			failed := client.Gateway.Failed[0]
			assert.Equal(t, int64(42), failed.JobKey)
			assert.Equal(t, tt.wantRetries, failed.Retries)
			assert.NotEmpty(t, failed.ErrorMessage)
			assert.Contains(t, failed.Variables, "originalErrorCode")
		})
	}
}

func TestHandleJobError_RetryableWithoutRetriesLeftThrows(t *testing.T) {
	client := camundatest.NewJobClient()

	NewErrorHandler(&recordingLogger{}).HandleJobError(context.Background(), client, jobWithRetries(0), fmt.Errorf("timeout"))

	require.Len(t, client.Gateway.Thrown, 1)
	assert.Equal(t, "INTERNAL_ERROR", client.Gateway.Thrown[0].ErrorCode)
	assert.Empty(t, client.Gateway.Failed)
}

func TestNormalizeError_UnexpectedIsRetryableInternal(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})

	stdErr := h.normalizeError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, "boom", stdErr.Details)
	assert.Equal(t, 3, ConvertToBPMNError(stdErr).Retries)
}
