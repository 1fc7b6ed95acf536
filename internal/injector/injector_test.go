package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motorig/internal/config"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/render"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Output = filepath.Join(t.TempDir(), "motorig.log")

	app, err := InitializeApp(cfg, render.NewRecorder())
	require.NoError(t, err)
	assert.Same(t, cfg, app.Config)
	assert.Equal(t, params.Defaults().Fingerprint(), app.Params.Fingerprint())
	require.NoError(t, app.Simulation.CreateWorld(app.Params))
	assert.Equal(t, 6, app.Simulation.World().BodyCount())
	assert.NotNil(t, app.Runner)
	assert.NotNil(t, app.Server)
}

func TestInitializeApp_BadParamsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bike.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame: [1, 2]\n"), 0o600))

	cfg := config.Default()
	cfg.Log.Output = filepath.Join(dir, "motorig.log")
	cfg.ParamsFile = path

	_, err := InitializeApp(cfg, nil)
	assert.Error(t, err)
}
