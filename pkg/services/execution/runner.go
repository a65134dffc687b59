package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb/execution"
	"github.com/rs/zerolog"
)

var (
	ErrExecutionFailed = errors.New("report execution failed")
	ErrStillRunning    = errors.New("report execution still running")
	ErrPollTimeout     = fmt.Errorf("%w: poll timed out", ErrStillRunning)
)

const defaultFailureMessage = "Report generation failed"

// Backend is the part of the report service the runner talks to.
type Backend interface {
	ExecuteReport(ctx context.Context, reportID int64) (*api.ExecuteResponse, error)
	GetExecution(ctx context.Context, executionID int64) (*api.Execution, error)
	RetryExecution(ctx context.Context, executionID int64) (*api.ExecuteResponse, error)
}

type Runner struct {
	backend  Backend
	mediaURL string
	config   PollConfig
	history  execution.Store
	now      func() time.Time
}

type Option func(*Runner)

func WithPollConfig(cfg PollConfig) Option {
	return func(r *Runner) { r.config = cfg }
}

// WithHistory records every observed status in the local execution history.
func WithHistory(history execution.Store) Option {
	return func(r *Runner) { r.history = history }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(backend Backend, mediaURL string, opts ...Option) (*Runner, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	r := &Runner{
		backend:  backend,
		mediaURL: strings.TrimRight(mediaURL, "/"),
		config:   DefaultPollConfig(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poll config: %w", err)
	}
	return r, nil
}

// Execute starts a run of the saved report and waits for its outcome.
func (r *Runner) Execute(ctx context.Context, reportID int64) (*domain.ExecutionResult, error) {
	executionID, err := r.Start(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return r.Wait(ctx, executionID)
}

// Start asks the service to run the report and returns the execution id
// without waiting.
func (r *Runner) Start(ctx context.Context, reportID int64) (int64, error) {
	logger := zerolog.Ctx(ctx)

	started, err := r.backend.ExecuteReport(ctx, reportID)
	if err != nil {
		return 0, fmt.Errorf("failed to start report %d: %w", reportID, err)
	}
	logger.Info().Int64("report", reportID).Int64("execution", started.ExecutionID).Msg("report execution started")
	r.record(ctx, store.ExecutionRecord{ExecutionID: started.ExecutionID, ReportID: reportID, Status: string(domain.ExecutionStatusRunning)})
	return started.ExecutionID, nil
}

// Retry asks the service to rerun a failed execution and waits for the new run.
func (r *Runner) Retry(ctx context.Context, executionID int64) (*domain.ExecutionResult, error) {
	retried, err := r.backend.RetryExecution(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retry execution %d: %w", executionID, err)
	}
	return r.Wait(ctx, retried.ExecutionID)
}

// Wait polls an execution until it completes, fails, the attempts or the
// timeout run out, or ctx is cancelled. Running out of attempts or time is
// not a failure: the result carries status running and ErrStillRunning.
func (r *Runner) Wait(ctx context.Context, executionID int64) (*domain.ExecutionResult, error) {
	logger := zerolog.Ctx(ctx).With().Int64("execution", executionID).Logger()

	pollCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	result := &domain.ExecutionResult{ExecutionID: executionID, Status: domain.ExecutionStatusRunning}
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		result.Attempts = attempt

		e, err := r.backend.GetExecution(pollCtx, executionID)
		if err != nil {
			if stop := r.interrupted(ctx, pollCtx); stop != nil {
				return result, stop
			}
			return nil, fmt.Errorf("failed to poll execution %d: %w", executionID, err)
		}

		status := domain.ExecutionStatus(e.Status)
		logger.Debug().Int("attempt", attempt).Str("status", e.Status).Msg("execution polled")

		switch status {
		case domain.ExecutionStatusCompleted:
			result.Status = status
			result.FileURL = r.fileURL(e.FilePath)
			result.GeneratedAt = e.CompletedAt
			r.record(ctx, store.ExecutionRecord{ExecutionID: executionID, ReportID: e.Report, Status: e.Status, FileURL: result.FileURL, StartedAt: e.StartedAt})
			return result, nil
		case domain.ExecutionStatusFailed:
			msg := e.ErrorMessage
			if msg == "" {
				msg = defaultFailureMessage
			}
			result.Status = status
			r.record(ctx, store.ExecutionRecord{ExecutionID: executionID, ReportID: e.Report, Status: e.Status, Error: &msg, StartedAt: e.StartedAt})
			return result, fmt.Errorf("%w: %s", ErrExecutionFailed, msg)
		}

		if attempt == r.config.MaxAttempts {
			break
		}
		timer := time.NewTimer(r.config.delay(attempt))
		select {
		case <-pollCtx.Done():
			timer.Stop()
			return result, r.interrupted(ctx, pollCtx)
		case <-timer.C:
		}
	}

	logger.Info().Int("attempts", result.Attempts).Msg("execution still running after polling")
	return result, fmt.Errorf("%w: gave up after %d attempts", ErrStillRunning, result.Attempts)
}

// interrupted tells caller cancellation apart from the poll timeout.
func (r *Runner) interrupted(parent, pollCtx context.Context) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrPollTimeout, r.config.Timeout)
	}
	return nil
}

func (r *Runner) fileURL(path string) string {
	if path == "" {
		return "#"
	}
	return r.mediaURL + "/" + strings.TrimLeft(path, "/")
}

func (r *Runner) record(ctx context.Context, rec store.ExecutionRecord) {
	if r.history == nil {
		return
	}
	rec.UpdatedAt = r.now().UTC()
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.UpdatedAt
	}
	if err := r.history.Record(ctx, &rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("execution", rec.ExecutionID).Msg("failed to record execution history")
	}
}

// Describe maps a raw execution to its domain form.
func Describe(e *api.Execution) domain.Execution {
	return adapters.MapAPIExecutionToDomain(*e)
}
