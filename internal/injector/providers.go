package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/motorig/internal/config"
	"github.com/zeusync/motorig/internal/core/events/bus"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/render"
	"github.com/zeusync/motorig/internal/server"
	"github.com/zeusync/motorig/internal/simulation"
)

// App is everything main needs, wired from one config.
type App struct {
	Config     *config.Config
	Logger     *log.Logger
	Events     bus.EventBus
	Params     *params.Set
	Simulation *simulation.Simulation
	Runner     *simulation.Runner
	Server     *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideParams,
	ProvideSimulation,
	ProvideRunner,
	ProvideServer,
	wire.Bind(new(log.Log), new(*log.Logger)),
	wire.Bind(new(server.Controller), new(*simulation.Runner)),
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	output := cfg.Log.Output
	if output == "" {
		output = "stderr"
	}
	return log.NewWithOutput(log.ParseLevel(cfg.Log.Level), output)
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideParams(cfg *config.Config) (*params.Set, error) {
	if cfg.ParamsFile == "" {
		return params.Defaults(), nil
	}
	return params.LoadFile(cfg.ParamsFile)
}

func ProvideSimulation(cfg *config.Config, surface render.Surface, logger log.Log, events bus.EventBus) *simulation.Simulation {
	return simulation.New(cfg.Simulation, surface, logger, events)
}

func ProvideRunner(cfg *config.Config, sim *simulation.Simulation, logger log.Log) *simulation.Runner {
	return simulation.NewRunner(sim, cfg.Viewer.FrameInterval, logger)
}

// ProvideServer builds the live view server and forwards simulation events
// to its websocket clients.
func ProvideServer(cfg *config.Config, ctrl server.Controller, logger log.Log, events bus.EventBus) (*server.Server, error) {
	srv := server.NewServer(cfg.Server.Config, ctrl, logger)
	if _, err := srv.SubscribeEvents(events); err != nil {
		return nil, err
	}
	return srv, nil
}
