package simulation

import (
	"context"
	"time"

	"github.com/zeusync/motorig/internal/core/observability/log"
)

type command struct {
	fn     func(*Simulation) error
	result chan error
}

// Runner owns a Simulation on a single goroutine. Other goroutines reach it
// only through Do, which runs between frames, so no command ever overlaps a
// step or a draw.
type Runner struct {
	sim      *Simulation
	interval time.Duration
	logger   log.Log
	commands chan command
	done     chan struct{}
	onFrame  []func(*Simulation)
}

func NewRunner(sim *Simulation, interval time.Duration, logger log.Log) *Runner {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Runner{
		sim:      sim,
		interval: interval,
		logger:   logger.With(log.String("component", "runner")),
		commands: make(chan command),
		done:     make(chan struct{}),
	}
}

// OnFrame registers fn to run on the loop goroutine after every frame. Call
// it before Run.
func (r *Runner) OnFrame(fn func(*Simulation)) {
	r.onFrame = append(r.onFrame, fn)
}

// Run drives frames until ctx is cancelled. Pending commands are drained
// before every frame.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("frame loop started", log.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("frame loop stopped")
			return nil
		case c := <-r.commands:
			r.exec(c)
		case <-ticker.C:
			r.drain()
			r.sim.Frame()
			for _, fn := range r.onFrame {
				fn(r.sim)
			}
		}
	}
}

func (r *Runner) drain() {
	for {
		select {
		case c := <-r.commands:
			r.exec(c)
		default:
			return
		}
	}
}

func (r *Runner) exec(c command) {
	c.result <- c.fn(r.sim)
}

// Do runs fn on the loop goroutine and returns its error. It fails with
// ErrRunnerStopped once Run has returned.
func (r *Runner) Do(ctx context.Context, fn func(*Simulation) error) error {
	c := command{fn: fn, result: make(chan error, 1)}
	select {
	case r.commands <- c:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot is a convenience wrapper around Do.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.Do(ctx, func(s *Simulation) error {
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
