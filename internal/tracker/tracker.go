// Package tracker records the lifecycle of generation jobs keyed by site URL.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

// StartMessage is recorded when a job is admitted.
const StartMessage = "Starting generation..."

// Tracker stamps and stores JobStatus snapshots.
type Tracker struct {
	store  llmstxt.StatusStore
	clock  llmstxt.Clock
	logger *zap.Logger
}

// New constructs a Tracker over store.
func New(store llmstxt.StatusStore, clock llmstxt.Clock, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:  store,
		clock:  clock,
		logger: logger.Named("tracker"),
	}
}

// Update overwrites the record for key with a freshly timestamped snapshot.
func (t *Tracker) Update(ctx context.Context, key string, status llmstxt.Status, step llmstxt.Step, progress int, message string) error {
	snapshot := llmstxt.JobStatus{
		Status:    status,
		Step:      step,
		Progress:  progress,
		Message:   message,
		Timestamp: t.clock.Now(),
	}
	if err := t.store.Put(ctx, key, snapshot); err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	t.logger.Debug("status updated",
		zap.String("site_url", key),
		zap.String("step", string(step)),
		zap.Int("progress", progress),
	)
	return nil
}

// Begin records the start snapshot unless a job for key is already running.
// It reports whether the job was admitted.
func (t *Tracker) Begin(ctx context.Context, key string) (bool, error) {
	snapshot := llmstxt.JobStatus{
		Status:    llmstxt.StatusRunning,
		Step:      llmstxt.StepStart,
		Progress:  llmstxt.ProgressStart,
		Message:   StartMessage,
		Timestamp: t.clock.Now(),
	}
	ok, err := t.store.PutIfIdle(ctx, key, snapshot)
	if err != nil {
		return false, fmt.Errorf("begin %s: %w", key, err)
	}
	return ok, nil
}

// Complete records the finished document for key.
func (t *Tracker) Complete(ctx context.Context, key, document string) error {
	if strings.TrimSpace(document) == "" {
		return errors.New("complete requires a non-empty document")
	}
	return t.Finish(ctx, key, llmstxt.Outcome{Document: document})
}

// Fail records a terminal error for key.
func (t *Tracker) Fail(ctx context.Context, key string, err error) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	return t.Finish(ctx, key, llmstxt.Outcome{Err: err})
}

// Finish converts an outcome into its terminal snapshot and stores it.
func (t *Tracker) Finish(ctx context.Context, key string, outcome llmstxt.Outcome) error {
	snapshot := outcome.Status(t.clock.Now())
	if err := t.store.Put(ctx, key, snapshot); err != nil {
		return fmt.Errorf("finish %s: %w", key, err)
	}
	return nil
}

// Read returns the latest snapshot for key or llmstxt.ErrNotFound.
func (t *Tracker) Read(ctx context.Context, key string) (llmstxt.JobStatus, error) {
	return t.store.Get(ctx, key)
}

// Delete removes the record for key or returns llmstxt.ErrNotFound.
func (t *Tracker) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, key)
}

var _ llmstxt.ProgressReporter = (*Tracker)(nil)
