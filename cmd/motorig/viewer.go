package main

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/render"
	"github.com/zeusync/motorig/internal/simulation"
)

// viewer turns terminal input into simulation commands.
type viewer struct {
	screen   tcell.Screen
	terminal *render.Terminal
	runner   *simulation.Runner
	logger   log.Log

	pressed bool
}

// Run polls terminal events until the user quits or ctx is cancelled.
func (v *viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	quit := make(chan struct{})
	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			done, err := v.handle(ctx, ev)
			if err != nil && !errors.Is(err, context.Canceled) {
				v.logger.Warn("viewer command failed", log.Error(err))
			}
			if done {
				return nil
			}
		}
	}
}

func (v *viewer) handle(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return true, nil
		case ev.Rune() == ' ':
			return false, v.runner.Do(ctx, func(sim *simulation.Simulation) error {
				sim.SetRunning(!sim.Running())
				return nil
			})
		case ev.Rune() == 'r':
			return false, v.runner.Do(ctx, (*simulation.Simulation).Reset)
		}
	case *tcell.EventMouse:
		return false, v.mouse(ctx, ev)
	}
	return false, nil
}

func (v *viewer) mouse(ctx context.Context, ev *tcell.EventMouse) error {
	x, y := ev.Position()
	p := v.terminal.CellToWorld(x, y)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !v.pressed:
		v.pressed = true
		return v.runner.Do(ctx, func(sim *simulation.Simulation) error {
			_, err := sim.PointerDown(p)
			return err
		})
	case down:
		return v.runner.Do(ctx, func(sim *simulation.Simulation) error {
			sim.PointerMove(p)
			return nil
		})
	case v.pressed:
		v.pressed = false
		return v.runner.Do(ctx, func(sim *simulation.Simulation) error {
			sim.PointerUp()
			return nil
		})
	}
	return nil
}
