package llmstxt

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOutcomeStatusCompleted(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0).UTC()
	status := Outcome{Document: "# Example"}.Status(now)

	require.Equal(t, StatusCompleted, status.Status)
	require.Equal(t, StepDone, status.Step)
	require.Equal(t, ProgressDone, status.Progress)
	require.Equal(t, "# Example", status.Content)
	require.Equal(t, now, status.Timestamp)
	require.NoError(t, status.Validate())
}

func TestOutcomeStatusFailureMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{NewFailure(FailureGeneration, errors.New("quota exceeded")), "Failed to generate llms.txt: quota exceeded"},
		{NewFailure(FailureTimeout, context.DeadlineExceeded), "Failed to generate llms.txt: language model request timed out"},
		{NewFailure(FailureEmptyResponse, nil), "Failed to generate llms.txt: language model returned empty response"},
		{NewFailure(FailureTooShort, errors.New("50 characters")), "Generated content is too short"},
		{errors.New("nil pointer"), "Internal error: nil pointer"},
		{fmt.Errorf("synthesize: %w", NewFailure(FailureGeneration, errors.New("bad key"))), "Failed to generate llms.txt: bad key"},
	}
	for _, tc := range cases {
		status := Outcome{Document: "ignored", Err: tc.err}.Status(time.Now())
		require.Equal(t, StatusError, status.Status)
		require.Equal(t, StepError, status.Step)
		require.Zero(t, status.Progress)
		require.Empty(t, status.Content)
		require.Equal(t, tc.want, status.Message)
		require.NoError(t, status.Validate())
	}
}

func TestAsFailure(t *testing.T) {
	t.Parallel()

	require.Nil(t, AsFailure(nil))
	f := AsFailure(errors.New("boom"))
	require.Equal(t, FailureInternal, f.Kind)
	require.ErrorContains(t, f, "boom")
}
