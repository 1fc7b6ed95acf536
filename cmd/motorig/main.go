package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/motorig/internal/config"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/render"
	"github.com/zeusync/motorig/internal/injector"
	"github.com/zeusync/motorig/internal/simulation"
	"github.com/zeusync/motorig/pkg/concurrent"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	paramsPath := flag.String("params", "", "path to a YAML or JSON parameter set")
	headless := flag.Bool("headless", false, "disable the terminal viewer")
	serve := flag.String("serve", "", "start the live view server on this address")
	flag.Parse()

	if err := run(*configPath, *paramsPath, *headless, *serve); err != nil {
		fmt.Fprintln(os.Stderr, "motorig:", err)
		os.Exit(1)
	}
}

func run(configPath, paramsPath string, headless bool, serve string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if paramsPath != "" {
		cfg.ParamsFile = paramsPath
	}
	if headless {
		cfg.Viewer.Enabled = false
	}
	if serve != "" {
		cfg.Server.Enabled = true
		cfg.Server.ListenAddr = serve
	}

	var (
		screen   tcell.Screen
		terminal *render.Terminal
		surface  render.Surface
	)
	if cfg.Viewer.Enabled {
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err = screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()
		screen.EnableMouse()
		terminal = render.NewTerminal(screen, cfg.Viewer.CellsPerMeter)
		surface = terminal
	}

	app, err := injector.InitializeApp(cfg, surface)
	if err != nil {
		return err
	}
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	if err = app.Simulation.CreateWorld(app.Params); err != nil {
		return err
	}
	app.Simulation.SetRunning(cfg.Viewer.StartRunning)
	logger.Info("motorig started",
		log.Bool("viewer", cfg.Viewer.Enabled),
		log.Bool("server", cfg.Server.Enabled),
		log.String("params_file", cfg.ParamsFile),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := []concurrent.Task{app.Runner.Run}
	if cfg.Server.Enabled {
		tasks = append(tasks, app.Server.Run)
	}
	if terminal != nil {
		app.Runner.OnFrame(func(sim *simulation.Simulation) {
			terminal.Status = status(sim)
		})
		v := &viewer{screen: screen, terminal: terminal, runner: app.Runner, logger: logger}
		tasks = append(tasks, v.Run)
	}

	err = concurrent.Run(ctx, tasks...)
	logger.Info("motorig stopped")
	return err
}

func status(sim *simulation.Simulation) string {
	state := "paused"
	if sim.Running() {
		state = "running"
	}
	if sim.Dragging() {
		state += ", dragging"
	}
	return fmt.Sprintf(" motorig [%s]  space: run/pause  r: reset  drag: mouse  q: quit ", state)
}
