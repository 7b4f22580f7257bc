package filesystem

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// DefaultStagingThreshold is the selection size above which Archive stages
const DefaultStagingThreshold = 4

// StagingDirName is the transient directory Archive collects items in
const StagingDirName = "zip"

// Options configures an Engine
type Options struct {
	CasePolicy       paths.CasePolicy
	StagingThreshold int
	WalkWorkers      int
	Trash            Trash
	Opener           Opener
	Logger           *logging.Logger
	Metrics          *monitoring.Metrics
	Clock            func() time.Time
}

// Engine performs synchronous filesystem mutations for one or more sessions
type Engine struct {
	opts    Options
	namer   *CollisionNamer
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates an engine; zero Options fields take defaults
func New(opts Options) *Engine {
	if opts.StagingThreshold <= 0 {
		opts.StagingThreshold = DefaultStagingThreshold
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Engine{
		opts:    opts,
		namer:   NewCollisionNamer(opts.Clock),
		log:     opts.Logger.Named("engine"),
		metrics: opts.Metrics,
	}
}

// CasePolicy returns the path comparison policy in effect
func (e *Engine) CasePolicy() paths.CasePolicy {
	return e.opts.CasePolicy
}

func (e *Engine) timer(op string) *monitoring.Timer {
	if e.metrics == nil {
		return nil
	}
	return monitoring.NewTimer(e.metrics, op)
}

// record logs and counts one per-item outcome
func (e *Engine) record(op string, task TransferTask) TransferTask {
	if e.metrics != nil {
		e.metrics.RecordOutcome(op, string(task.Status))
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("source", task.Source.String()),
		zap.String("status", string(task.Status)),
	}
	if task.FinalPath != "" {
		fields = append(fields, zap.String("final", task.FinalPath.String()))
	}
	if task.Reason != "" {
		fields = append(fields, zap.String("reason", task.Reason))
	}

	if task.OK() {
		e.log.Debug("item processed", fields...)
	} else {
		e.log.Warn("item failed", append(fields, zap.Error(task.Err))...)
	}
	return task
}

func completed(src, dstParent, final paths.Path) TransferTask {
	return TransferTask{Source: src, DestinationParent: dstParent, Status: StatusCompleted, FinalPath: final}
}

func skipped(src, dstParent paths.Path, reason string, err error) TransferTask {
	return TransferTask{Source: src, DestinationParent: dstParent, Status: StatusSkipped, Reason: reason, Err: err}
}

// failed classifies err; permission problems get their own status
func failed(src, dstParent paths.Path, err error) TransferTask {
	err = types.Classify(err)
	status := StatusFailed
	if errors.Is(err, types.ErrPermissionDenied) {
		status = StatusPermissionDenied
	}
	return TransferTask{Source: src, DestinationParent: dstParent, Status: status, Reason: err.Error(), Err: err}
}

// cancelled marks items left unprocessed after ctx ended
func cancelled(ctx context.Context, src, dstParent paths.Path) TransferTask {
	return TransferTask{
		Source:            src,
		DestinationParent: dstParent,
		Status:            StatusFailed,
		Reason:            "operation cancelled",
		Err:               ctx.Err(),
	}
}

// wrap adds op context to an engine-level error after classification
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: types.Classify(err)}
}

// OpError records the engine operation that failed
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
