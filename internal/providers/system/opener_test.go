//go:build !windows

package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/filecore/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

func TestOpenerLaunches(t *testing.T) {
	log, logs := logging.NewObserved(zapcore.DebugLevel)
	o := NewOpener(OpenerOptions{Command: []string{"true"}, Logger: log})

	assert.NoError(t, o.Open(context.Background(), paths.Path("/tmp/x.txt")))
	o.Wait()

	assert.Equal(t, 1, logs.FilterMessage("launched").Len())
	assert.Equal(t, 0, logs.FilterMessage("launcher failed").Len())
}

func TestOpenerSwallowsFailures(t *testing.T) {
	log, logs := logging.NewObserved(zapcore.DebugLevel)
	o := NewOpener(OpenerOptions{Command: []string{"false"}, Logger: log})

	assert.NoError(t, o.Open(context.Background(), paths.Path("/tmp/x.txt")))
	o.Wait()
	assert.Equal(t, 1, logs.FilterMessage("launcher failed").Len())

	missing := NewOpener(OpenerOptions{Command: []string{"filecore-no-such-launcher"}, Logger: log})
	assert.NoError(t, missing.Open(context.Background(), paths.Path("/tmp/x.txt")))
	missing.Wait()
	assert.Equal(t, 2, logs.FilterMessage("launcher failed").Len())
}

func TestOpenerOutlivesRequest(t *testing.T) {
	log, logs := logging.NewObserved(zapcore.DebugLevel)
	o := NewOpener(OpenerOptions{Command: []string{"true"}, Logger: log})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, o.Open(ctx, paths.Path("/tmp/x.txt")))
	o.Wait()
	assert.Equal(t, 1, logs.FilterMessage("launched").Len())
}

func TestOpenerSuspendsFailingLauncher(t *testing.T) {
	log, logs := logging.NewObserved(zapcore.DebugLevel)
	o := NewOpener(OpenerOptions{
		Command: []string{"false"},
		Logger:  log,
		Breaker: resilience.Settings{Threshold: 2, Cooldown: time.Hour},
	})

	for i := 0; i < 3; i++ {
		assert.NoError(t, o.Open(context.Background(), paths.Path("/tmp/x.txt")))
		o.Wait()
	}

	assert.Equal(t, 2, logs.FilterMessage("launcher failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("launcher suspended").Len())
	assert.Equal(t, 1, logs.FilterMessage("launcher breaker changed state").Len())
	assert.True(t, o.Suspended())
}

func TestDefaultCommand(t *testing.T) {
	assert.NotEmpty(t, DefaultCommand())
	o := NewOpener(OpenerOptions{})
	assert.Equal(t, DefaultCommand(), o.command)
	assert.Equal(t, DefaultLaunchTimeout, o.timeout)
	assert.False(t, o.Suspended())
}
