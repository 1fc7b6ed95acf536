//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/motorig/internal/config"
	"github.com/zeusync/motorig/internal/core/render"
)

func InitializeApp(cfg *config.Config, surface render.Surface) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
