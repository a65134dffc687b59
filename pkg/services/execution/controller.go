package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

var ErrNotTracked = errors.New("execution is not tracked")

// DefaultRetention is how long a finished watch stays answerable from memory.
// Older outcomes are served from the execution history.
const DefaultRetention = 15 * time.Minute

// Controller runs execution polls in the background so that callers which
// cannot block, like HTTP handlers, can start a report and ask for its
// outcome later.
type Controller interface {
	Start(ctx context.Context, reportID int64) (int64, error)
	Status(executionID int64) (Snapshot, error)
	Cancel(ctx context.Context, executionID int64) error
	Shutdown()
}

type Snapshot struct {
	ExecutionID int64
	ReportID    int64
	Done        bool
	Result      *domain.ExecutionResult
	Err         error
}

type watch struct {
	cancelFunc context.CancelFunc
	done       chan struct{}
	snapshot   Snapshot
	finishedAt time.Time
}

type DefaultController struct {
	runner    *Runner
	retention time.Duration

	mu      sync.Mutex
	watches map[int64]*watch
	wg      sync.WaitGroup
}

type ControllerOption func(*DefaultController)

func WithRetention(d time.Duration) ControllerOption {
	return func(ctrl *DefaultController) { ctrl.retention = d }
}

func NewController(runner *Runner, opts ...ControllerOption) *DefaultController {
	ctrl := &DefaultController{
		runner:    runner,
		retention: DefaultRetention,
		watches:   make(map[int64]*watch),
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// prune drops finished watches older than the retention. Callers hold mu.
func (ctrl *DefaultController) prune() {
	cutoff := ctrl.runner.now().Add(-ctrl.retention)
	for id, w := range ctrl.watches {
		if w.snapshot.Done && !w.finishedAt.After(cutoff) {
			delete(ctrl.watches, id)
		}
	}
}

func (ctrl *DefaultController) Start(ctx context.Context, reportID int64) (int64, error) {
	executionID, err := ctrl.runner.Start(ctx, reportID)
	if err != nil {
		return 0, err
	}

	logger := zerolog.Ctx(ctx).With().Int64("execution", executionID).Logger()
	watchCtx, cancel := context.WithCancel(logger.WithContext(context.WithoutCancel(ctx)))

	w := &watch{
		cancelFunc: cancel,
		done:       make(chan struct{}),
		snapshot:   Snapshot{ExecutionID: executionID, ReportID: reportID},
	}

	ctrl.mu.Lock()
	ctrl.prune()
	if prev, ok := ctrl.watches[executionID]; ok {
		prev.cancelFunc()
	}
	ctrl.watches[executionID] = w
	ctrl.mu.Unlock()

	ctrl.wg.Add(1)
	go func() {
		defer ctrl.wg.Done()
		defer close(w.done)
		defer cancel()

		result, err := ctrl.runner.Wait(watchCtx, executionID)
		finishedAt := ctrl.runner.now()

		ctrl.mu.Lock()
		w.finishedAt = finishedAt
		w.snapshot.Done = true
		w.snapshot.Result = result
		w.snapshot.Err = err
		ctrl.mu.Unlock()

		if err != nil {
			logger.Warn().Err(err).Msg("execution watch finished with error")
			return
		}
		logger.Info().Str("status", string(result.Status)).Msg("execution watch finished")
	}()

	return executionID, nil
}

func (ctrl *DefaultController) Status(executionID int64) (Snapshot, error) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	ctrl.prune()
	w, ok := ctrl.watches[executionID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrNotTracked, executionID)
	}
	return w.snapshot, nil
}

// Cancel stops watching an execution and waits for its poll loop to exit.
// The execution itself keeps running on the service.
func (ctrl *DefaultController) Cancel(ctx context.Context, executionID int64) error {
	ctrl.mu.Lock()
	w, ok := ctrl.watches[executionID]
	ctrl.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotTracked, executionID)
	}

	w.cancelFunc()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ctrl *DefaultController) Shutdown() {
	ctrl.mu.Lock()
	for _, w := range ctrl.watches {
		w.cancelFunc()
	}
	ctrl.mu.Unlock()
	ctrl.wg.Wait()
}
