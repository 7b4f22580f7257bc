package system

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/jmgilman/go/exec"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// DefaultLaunchTimeout bounds how long a launcher command may run
const DefaultLaunchTimeout = "1m"

// DefaultCommand returns the platform's "open with default application" launcher
func DefaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// OpenerOptions configures an Opener
type OpenerOptions struct {
	Command []string
	Timeout string
	Logger  *logging.Logger

	// Breaker settings for the launcher; zero values use the defaults
	Breaker resilience.Settings
}

// Opener hands files to the desktop's default application. Launches run in
// the background; failures are logged and never reported to the caller.
// After repeated launcher failures further launches are skipped until the
// breaker cools down.
type Opener struct {
	command []string
	timeout string
	log     *logging.Logger
	breaker *resilience.Breaker
	wg      sync.WaitGroup
}

// NewOpener creates an opener, filling unset options with platform defaults
func NewOpener(opts OpenerOptions) *Opener {
	if len(opts.Command) == 0 {
		opts.Command = DefaultCommand()
	}
	if opts.Timeout == "" {
		opts.Timeout = DefaultLaunchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	log := opts.Logger.Named("opener")

	settings := opts.Breaker
	onChange := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn("launcher breaker changed state",
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		if onChange != nil {
			onChange(name, from, to)
		}
	}

	return &Opener{
		command: append([]string(nil), opts.Command...),
		timeout: opts.Timeout,
		log:     log,
		breaker: resilience.New("launcher", settings),
	}
}

// Open starts the launcher for path and returns immediately
func (o *Opener) Open(ctx context.Context, path paths.Path) error {
	args := append(append([]string(nil), o.command...), path.OS())

	// The launch outlives the request that triggered it
	runCtx := context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		cmd := exec.New(
			exec.WithInheritEnv(),
			exec.WithContext(runCtx),
			exec.WithTimeout(o.timeout),
		)
		var result *exec.Result
		err := o.breaker.Do(func() error {
			var err error
			result, err = cmd.Run(args...)
			return err
		})
		switch {
		case errors.Is(err, resilience.ErrOpen):
			o.log.Debug("launcher suspended", zap.String("path", path.String()))
			return
		case err != nil:
			fields := []zap.Field{zap.String("path", path.String()), zap.Error(err)}
			if result != nil && result.Stderr != "" {
				fields = append(fields, zap.String("stderr", result.Stderr))
			}
			o.log.Debug("launcher failed", fields...)
			return
		}
		o.log.Debug("launched", zap.String("path", path.String()))
	}()
	return nil
}

// Suspended reports whether launches are currently being skipped
func (o *Opener) Suspended() bool {
	return o.breaker.State() == resilience.StateOpen
}

// Wait blocks until every launch started so far has exited
func (o *Opener) Wait() {
	o.wg.Wait()
}
