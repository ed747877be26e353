//go:build !tinygo

package drive

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/wardrush/VandyTom2018/core"
	"go.uber.org/zap"
)

// Runner paces a Loop on the host. Each clock tick advances the core
// scheduler clock and dispatches the loop's timer, the same path the
// firmware takes.
type Runner struct {
	loop   *Loop
	clock  clock.Clock
	period time.Duration
	logger *zap.SugaredLogger
}

// NewRunner creates a runner. Pass clock.New() for real time or a
// *clock.Mock to drive ticks from a test or a fast simulation.
func NewRunner(loop *Loop, clk clock.Clock, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		loop:   loop,
		clock:  clk,
		period: loop.tuning.TickPeriod(),
		logger: logger,
	}
}

// Run ticks the loop until ctx is canceled or maxTicks ticks have run
// (0 runs until canceled). The motors are stopped before it returns.
func (r *Runner) Run(ctx context.Context, maxTicks uint32) error {
	core.ResetTimers()
	start := r.clock.Now()
	core.SetTime(0)
	core.TimerInit()

	timer := r.loop.Timer(0)
	core.ScheduleTimer(timer)
	defer core.CancelTimer(timer)

	ticker := r.clock.Ticker(r.period)
	defer ticker.Stop()

	if err := r.loop.Start(); err != nil {
		r.logger.Warnw("boot packet failed", "error", err)
	}
	r.logger.Infow("control loop started", "period", r.period, "max_ticks", maxTicks)

	core.ProcessTimers()
	for maxTicks == 0 || r.loop.Ticks() < maxTicks {
		select {
		case <-ctx.Done():
			r.logger.Infow("control loop canceled", "ticks", r.loop.Ticks())
			return r.shutdown()
		case <-ticker.C:
			elapsed := r.clock.Since(start)
			core.SetTime(uint32(elapsed / time.Microsecond))
			core.ProcessTimers()
		}
	}
	r.logger.Infow("control loop finished", "ticks", r.loop.Ticks())
	return r.shutdown()
}

func (r *Runner) shutdown() error {
	sent, failed := r.loop.Stats()
	if err := r.loop.Shutdown(); err != nil {
		r.logger.Errorw("stop packet failed", "error", err)
		return err
	}
	r.logger.Infow("motors stopped", "packets_sent", sent, "packets_failed", failed,
		"input_errors", r.loop.InputErrors, "telemetry_errors", r.loop.TeleErrors)
	return nil
}
