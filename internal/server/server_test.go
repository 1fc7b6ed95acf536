package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motorig/internal/core/events/bus"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/simulation"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sim := simulation.New(simulation.DefaultConfig(), nil, log.Nop(), nil)
	require.NoError(t, sim.CreateWorld(params.Defaults()))

	runner := simulation.NewRunner(sim, 5*time.Millisecond, log.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = runner.Run(ctx)
		close(done)
	}()

	srv := NewServer(DefaultServerConfig(), runner, log.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetParams(t *testing.T) {
	_, ts := newTestServer(t)

	var resp paramsResponse
	status := doJSON(t, http.MethodGet, ts.URL+"/params", nil, &resp)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Set)
	assert.Equal(t, params.Defaults().Frame.HeadTubeLength, resp.Set.Frame.HeadTubeLength)
	assert.Len(t, resp.Entries, 24)
}

func TestPutParams_SingleEdit(t *testing.T) {
	_, ts := newTestServer(t)

	var resp paramsResponse
	status := doJSON(t, http.MethodPut, ts.URL+"/params",
		EditRequest{Group: params.GroupFrame, Key: "swingarm_length", Value: 0.6}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.6, resp.Set.Frame.SwingarmLength.Value)

	var snap simulation.Snapshot
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/snapshot", nil, &snap))
	assert.Equal(t, resp.Set.Fingerprint(), snap.Fingerprint)
}

func TestPutParams_FullSet(t *testing.T) {
	_, ts := newTestServer(t)

	set := params.Defaults()
	set.Frame.FrontWheelDiameter.Value = 0.7

	var resp paramsResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPut, ts.URL+"/params", set, &resp))
	assert.Equal(t, 0.7, resp.Set.Frame.FrontWheelDiameter.Value)
}

func TestPutParams_InvalidGeometry(t *testing.T) {
	_, ts := newTestServer(t)

	var before simulation.Snapshot
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/snapshot", nil, &before))

	var resp errorResponse
	status := doJSON(t, http.MethodPut, ts.URL+"/params",
		EditRequest{Group: params.GroupFrame, Key: "head_tube_length", Value: 3}, &resp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, params.Defaults().Frame.HeadTubeLength.DisplayName, resp.Side)
	assert.Contains(t, resp.Error, "invalid triangle")

	var after simulation.Snapshot
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/snapshot", nil, &after))
	assert.Equal(t, before.RigID, after.RigID)
}

func TestPutParams_DegenerateShape(t *testing.T) {
	_, ts := newTestServer(t)

	var resp errorResponse
	status := doJSON(t, http.MethodPut, ts.URL+"/params",
		EditRequest{Group: params.GroupFrame, Key: "top_fork_width", Value: 1e-9}, &resp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, resp.Error, "invalid shape")

	var got paramsResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/params", nil, &got))
	assert.Equal(t, params.Defaults().Frame.TopForkWidth.Value, got.Set.Frame.TopForkWidth.Value)
}

func TestPutParams_BadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	var resp errorResponse
	status := doJSON(t, http.MethodPut, ts.URL+"/params",
		EditRequest{Group: params.GroupFrame, Key: "nope", Value: 1}, &resp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "nope", resp.Parameter)

	status = doJSON(t, http.MethodPut, ts.URL+"/params", map[string]any{"frame": params.Defaults().Frame}, &resp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/params", strings.NewReader("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestRunningAndReset(t *testing.T) {
	_, ts := newTestServer(t)

	var running runningRequest
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/running", runningRequest{Running: true}, &running))
	assert.True(t, running.Running)

	require.Eventually(t, func() bool {
		var snap simulation.Snapshot
		return doJSON(t, http.MethodGet, ts.URL+"/snapshot", nil, &snap) == http.StatusOK && snap.Frame > 2
	}, 2*time.Second, 10*time.Millisecond)

	var snap simulation.Snapshot
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/reset", nil, &snap))
	assert.True(t, snap.Running)
	assert.Len(t, snap.Components, 6)
}

func TestWebSocket(t *testing.T) {
	srv, ts := newTestServer(t)

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	var first ServerMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)
	require.NotNil(t, first.Snapshot)
	assert.Len(t, first.Snapshot.Components, 6)
	assert.Equal(t, int64(1), srv.GetStats().ClientCount)

	// grab the rear wheel away from the swingarm
	var wheel simulation.ComponentState
	for _, c := range first.Snapshot.Components[1:] {
		if c.Kind == "wheel" {
			wheel = c
		}
	}
	require.NoError(t, conn.WriteJSON(ControlMessage{Action: ActionPointerDown, X: wheel.Position.X + 0.1, Y: wheel.Position.Y + 0.1}))
	var reply ServerMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, ActionPointerDown, reply.Type)
	assert.True(t, reply.Grabbed)

	require.NoError(t, conn.WriteJSON(ControlMessage{Action: ActionPointerUp}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, ActionPointerUp, reply.Type)

	require.NoError(t, conn.WriteJSON(ControlMessage{Action: "jump"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Error, "unknown action")
}

func TestServer_Lifecycle(t *testing.T) {
	sim := simulation.New(simulation.DefaultConfig(), nil, log.Nop(), nil)
	runner := simulation.NewRunner(sim, 5*time.Millisecond, log.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = runner.Run(ctx) }()

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	srv := NewServer(cfg, runner, log.Nop())

	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerAlreadyRunning)
	assert.True(t, srv.GetStats().Running)

	resp, err := http.Get("http://" + srv.Addr() + "/params")
	require.NoError(t, err)
	_ = resp.Body.Close()
	// no world yet
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	assert.ErrorIs(t, srv.Stop(context.Background()), ErrServerNotRunning)
	assert.ErrorIs(t, srv.Start(ctx), ErrServerClosed)
}

func TestServer_ForwardsEvents(t *testing.T) {
	events := bus.New()
	sim := simulation.New(simulation.DefaultConfig(), nil, log.Nop(), events)
	runner := simulation.NewRunner(sim, 5*time.Millisecond, log.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = runner.Run(ctx) }()

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.SnapshotInterval = time.Hour
	srv := NewServer(cfg, runner, log.Nop())
	_, err := srv.SubscribeEvents(events)
	require.NoError(t, err)
	require.NoError(t, srv.Start(ctx))
	defer func() { _ = srv.Stop(context.Background()) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	var first ServerMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)

	require.NoError(t, runner.Do(ctx, func(s *simulation.Simulation) error {
		return s.CreateWorld(params.Defaults())
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "event", msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, simulation.EventWorldCreated, msg.Event.Type)

	resp, err := http.Get("http://" + srv.Addr() + "/stats")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.NotNil(t, stats.Events)
	assert.EqualValues(t, 1, stats.Events.Published)
	assert.EqualValues(t, 1, stats.Events.DeliveredHandlers)
	assert.Zero(t, stats.Events.Errors)
}

func TestServer_StopUnsubscribesFromBus(t *testing.T) {
	events := bus.New()
	srv := NewServer(DefaultServerConfig(), nil, log.Nop())
	_, err := srv.SubscribeEvents(events)
	require.NoError(t, err)

	srv.unsubscribeEvents()
	require.NoError(t, events.Publish(bus.NewEvent(simulation.EventRigRebuilt, "test", nil, nil)))
	assert.Empty(t, srv.events)
	// observer is gone, so nothing is counted
	assert.Zero(t, srv.GetStats().Events.Published)
}
