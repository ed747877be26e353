package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wardrush/VandyTom2018/config"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/drive"
	"github.com/wardrush/VandyTom2018/host/monitor"
	"github.com/wardrush/VandyTom2018/host/serial"
	"github.com/wardrush/VandyTom2018/host/sim"
)

const (
	flagDebug    = "debug"
	flagTuning   = "tuning"
	flagScenario = "scenario"
	flagPort     = "port"
	flagRealtime = "realtime"
	flagRecord   = "record"
	flagDB       = "db"
	flagSession  = "session"
)

// appState carries what Before builds for the commands
type appState struct {
	logger *zap.SugaredLogger
}

func newApp() *cli.App {
	st := &appState{}
	return &cli.App{
		Name:            "chairctl",
		Usage:           "simulate and monitor the wheelchair drive controller",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging, including every tick",
			},
		},
		Before: func(c *cli.Context) error {
			logger, err := newLogger(c.Bool(flagDebug))
			if err != nil {
				return err
			}
			st.logger = logger
			core.SetDebugWriter(func(s string) { logger.Debug(s) })
			core.SetDebugEnabled(c.Bool(flagDebug))
			return nil
		},
		After: func(c *cli.Context) error {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "simulate",
				Usage: "run a scripted scenario through the control loop",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagScenario,
						Aliases:  []string{"s"},
						Usage:    "scenario `FILE` (YAML)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagTuning,
						Usage: "tuning `FILE` (JSON), defaults to the firmware values",
					},
					&cli.StringFlag{
						Name:  flagPort,
						Usage: "send motor packets to the driver on serial `DEVICE`",
					},
					&cli.BoolFlag{
						Name:  flagRealtime,
						Usage: "pace ticks in real time instead of as fast as possible",
					},
					&cli.StringFlag{
						Name:  flagRecord,
						Usage: "record the run's telemetry to SQLite `FILE`",
					},
				},
				Action: st.simulateAction,
			},
			{
				Name:  "monitor",
				Usage: "decode live telemetry from the controller",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagPort,
						Usage:    "controller USB serial `DEVICE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagRecord,
						Usage: "record telemetry to SQLite `FILE`",
					},
				},
				Action: st.monitorAction,
			},
			{
				Name:  "replay",
				Usage: "print a recorded session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagDB,
						Usage:    "SQLite `FILE` written by --record",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagSession,
						Usage: "session `ID` to print, defaults to the latest",
					},
				},
				Action: st.replayAction,
			},
		},
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger.Sugar(), nil
}

// signalContext is canceled on interrupt
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (st *appState) simulateAction(c *cli.Context) error {
	tuning, err := config.Load(c.String(flagTuning))
	if err != nil {
		return err
	}
	scenario, err := config.LoadScenario(c.String(flagScenario))
	if err != nil {
		return err
	}

	inputs, err := sim.NewInputs(sim.NewPanel(scenario, tuning), tuning)
	if err != nil {
		return errors.Wrap(err, "set up panel")
	}

	var motor io.Writer = io.Discard
	if dev := c.String(flagPort); dev != "" {
		port, err := serial.Open(serial.DriverConfig(dev, tuning.DriverBaud))
		if err != nil {
			return err
		}
		defer port.Close()
		motor = port
	}

	opts := drive.Options{
		Tuning:    tuning,
		Inputs:    inputs,
		Motor:     motor,
		Indicator: &logIndicator{logger: st.logger},
	}

	var recDone chan error
	if path := c.String(flagRecord); path != "" {
		rec, err := monitor.OpenRecorder(path)
		if err != nil {
			return err
		}
		defer rec.Close()
		pr, pw := io.Pipe()
		opts.Telemetry = pw
		recDone = make(chan error, 1)
		mon := monitor.New(pr, st.logger.Named("telemetry"), rec)
		go func() { recDone <- mon.Run(context.Background()) }()
		defer func() {
			pw.Close()
			if err := <-recDone; err != nil {
				st.logger.Errorw("recording failed", "error", err)
			}
			st.logger.Infow("telemetry recorded", "db", path, "session", rec.Session())
		}()
	}

	loop, err := drive.New(opts)
	if err != nil {
		return err
	}
	loop.SetObserver(func(r drive.Result) {
		idx, step := inputs.Step()
		st.logger.Debugw("tick", "n", r.Tick, "step", idx, "scripted", step.Action,
			"action", r.Sample.Action.String(), "a", r.State.A, "b", r.State.B,
			"out_a", r.Packet.A, "out_b", r.Packet.B)
	})

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	total := uint32(scenario.TotalTicks()) + 1
	st.logger.Infow("simulating", "scenario", scenario.Name, "ticks", total, "realtime", c.Bool(flagRealtime))

	if c.Bool(flagRealtime) {
		return drive.NewRunner(loop, clock.New(), st.logger).Run(ctx, total)
	}
	return runFast(ctx, loop, tuning.TickPeriod(), total, st.logger)
}

// runFast paces the runner with a mock clock advanced as quickly as the
// loop consumes ticks
func runFast(ctx context.Context, loop *drive.Loop, period time.Duration, ticks uint32, logger *zap.SugaredLogger) error {
	mock := clock.NewMock()
	done := make(chan error, 1)
	go func() { done <- drive.NewRunner(loop, mock, logger).Run(ctx, ticks) }()
	for {
		select {
		case err := <-done:
			return err
		default:
			mock.Add(period)
		}
	}
}

func (st *appState) monitorAction(c *cli.Context) error {
	port, err := serial.Open(serial.TelemetryConfig(c.String(flagPort)))
	if err != nil {
		return err
	}
	defer port.Close()

	var rec *monitor.Recorder
	if path := c.String(flagRecord); path != "" {
		if rec, err = monitor.OpenRecorder(path); err != nil {
			return err
		}
		defer rec.Close()
		st.logger.Infow("recording", "db", path, "session", rec.Session())
	}

	ctx, cancel := signalContext(c.Context)
	defer cancel()
	return monitor.New(port, st.logger, rec).Run(ctx)
}

func (st *appState) replayAction(c *cli.Context) error {
	if _, err := os.Stat(c.String(flagDB)); err != nil {
		return errors.Wrap(err, "telemetry database")
	}
	rec, err := monitor.OpenArchive(c.String(flagDB))
	if err != nil {
		return err
	}
	defer rec.Close()

	session := c.String(flagSession)
	if session == "" {
		if session, err = rec.LatestSession(); err != nil {
			return err
		}
	}

	n, err := monitor.Replay(rec, session, st.logger)
	if err != nil {
		return err
	}
	st.logger.Infow("replayed", "session", session, "ticks", n)
	return nil
}

// logIndicator reports indicator changes through the logger
type logIndicator struct {
	logger *zap.SugaredLogger
}

func (l *logIndicator) SetHeartbeat(on bool) {
	l.logger.Debugw("heartbeat", "on", on)
}

func (l *logIndicator) SetColor(c drive.Color) {
	l.logger.Infow("indicator", "color", colorName(c))
}

func colorName(c drive.Color) string {
	switch c {
	case drive.ColorIdle:
		return "idle"
	case drive.ColorMoving:
		return "moving"
	case drive.ColorLatched:
		return "latched"
	case drive.ColorEStop:
		return "estop"
	}
	return "custom"
}
