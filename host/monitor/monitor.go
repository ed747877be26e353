// Package monitor decodes the controller's telemetry stream on the host,
// logs it and optionally records it to SQLite.
package monitor

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/wardrush/VandyTom2018/motion"
	"github.com/wardrush/VandyTom2018/protocol"
	"go.uber.org/zap"
)

// Monitor consumes telemetry frames from a reader
type Monitor struct {
	reader   *protocol.FrameReader
	logger   *zap.SugaredLogger
	recorder *Recorder
	now      func() time.Time

	// OnTick is called for every decoded tick when set
	OnTick func(protocol.Telemetry)

	Boot      *protocol.Boot
	Ticks     uint32
	BadFrames uint32
	lastFail  uint32
}

// New creates a monitor. recorder may be nil.
func New(r io.Reader, logger *zap.SugaredLogger, recorder *Recorder) *Monitor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Monitor{
		reader:   protocol.NewFrameReader(r),
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run reads frames until the stream ends or ctx is canceled. The underlying
// reader should time out periodically so cancellation is noticed.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.logStats()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		f, err := m.reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.handle(f); err != nil {
			return err
		}
	}
}

func (m *Monitor) handle(f protocol.Frame) error {
	id, rest, err := protocol.DecodeMessage(f.Payload)
	if err != nil {
		m.BadFrames++
		m.logger.Warnw("undecodable frame", "seq", f.Sequence, "error", err)
		return nil
	}

	switch id {
	case protocol.MsgBoot:
		boot, err := protocol.DecodeBoot(rest)
		if err != nil {
			m.BadFrames++
			m.logger.Warnw("bad boot message", "error", err)
			return nil
		}
		m.Boot = &boot
		m.logger.Infow("controller booted", "firmware", boot.Version,
			"period", time.Duration(boot.PeriodUS)*time.Microsecond)
		if m.recorder != nil {
			if err := m.recorder.RecordBoot(boot); err != nil {
				return err
			}
		}

	case protocol.MsgTick:
		t, err := protocol.DecodeTelemetry(rest)
		if err != nil {
			m.BadFrames++
			m.logger.Warnw("bad tick message", "error", err)
			return nil
		}
		m.Ticks++
		m.logTick(t)
		if m.recorder != nil {
			if err := m.recorder.RecordTick(t, m.now()); err != nil {
				return err
			}
		}
		if m.OnTick != nil {
			m.OnTick(t)
		}

	default:
		m.BadFrames++
		m.logger.Warnw("unknown message", "id", id, "error", protocol.ErrUnknownMessage)
	}
	return nil
}

func (m *Monitor) logTick(t protocol.Telemetry) {
	fields := []interface{}{
		"tick", t.Tick,
		"action", motion.Action(t.Action).String(),
		"a", t.A, "b", t.B,
		"emit_a", t.EmitA, "emit_b", t.EmitB,
		"throttle", t.Throttle,
		"bias", t.Bias,
		"beginner", t.Flags&protocol.TF_BEGINNER != 0,
		"latched", t.Flags&protocol.TF_LATCHED != 0,
	}
	if t.SendErrors != m.lastFail {
		m.lastFail = t.SendErrors
		m.logger.Warnw("motor link failing", append(fields, "send_errors", t.SendErrors)...)
		return
	}
	if motion.Action(t.Action) == motion.ActionEmergencyStop {
		m.logger.Infow("emergency stop", fields...)
		return
	}
	m.logger.Debugw("tick", fields...)
}

func (m *Monitor) logStats() {
	dropped, missed := m.reader.Stats()
	m.logger.Infow("telemetry closed", "ticks", m.Ticks, "bad_frames", m.BadFrames+dropped, "missed", missed)
}

// Replay prints a recorded session through the logger
func Replay(rec *Recorder, session string, logger *zap.SugaredLogger) (int, error) {
	ticks, err := rec.Ticks(session)
	if err != nil {
		return 0, errors.Wrapf(err, "replay %s", session)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m := &Monitor{logger: logger}
	for _, t := range ticks {
		m.logTick(t)
	}
	return len(ticks), nil
}
