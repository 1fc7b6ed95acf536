// Package server exposes a running simulation over HTTP: parameter edits and
// control calls come in, snapshots stream out over a websocket.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/motorig/internal/core/events/bus"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/simulation"
)

// Controller is the part of simulation.Runner the server needs.
type Controller interface {
	Do(ctx context.Context, fn func(*simulation.Simulation) error) error
	Snapshot(ctx context.Context) (simulation.Snapshot, error)
}

type Config struct {
	ListenAddr       string        `yaml:"listen_addr"`
	MaxClients       int           `yaml:"max_clients"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	MaxMessageSize   int64         `yaml:"max_message_size"`
}

func DefaultServerConfig() Config {
	return Config{
		ListenAddr:       "127.0.0.1:8080",
		MaxClients:       64,
		SnapshotInterval: 50 * time.Millisecond,
		WriteTimeout:     2 * time.Second,
		MaxMessageSize:   64 * 1024,
	}
}

// Server is the live view server.
type Server struct {
	config Config
	logger log.Log
	sim    Controller

	httpServer *http.Server
	listener   net.Listener

	clients     sync.Map // map[string]*client
	clientCount int64    // atomic

	running int32 // atomic bool
	closed  int32 // atomic bool

	events   chan EventMessage
	eventBus bus.EventBus
	eventSub bus.Subscription

	workerGroup sync.WaitGroup
	stopChan    chan struct{}
}

type Stats struct {
	ClientCount int64                `json:"client_count"`
	Running     bool                 `json:"running"`
	Events      *bus.EventBusMetrics `json:"events,omitempty"`
}

func NewServer(config Config, sim Controller, logger log.Log) *Server {
	if config.SnapshotInterval <= 0 {
		config.SnapshotInterval = DefaultServerConfig().SnapshotInterval
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultServerConfig().WriteTimeout
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = DefaultServerConfig().MaxMessageSize
	}
	s := &Server{
		config:   config,
		logger:   logger.With(log.String("component", "server")),
		sim:      sim,
		events:   make(chan EventMessage, eventBuffer),
		stopChan: make(chan struct{}),
	}
	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))
	return s
}

// eventBuffer bounds the simulation events queued for broadcast. Events past
// it are dropped so a slow client never stalls the frame loop.
const eventBuffer = 64

// EventMessage is a simulation event as forwarded to websocket clients.
type EventMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// SubscribeEvents forwards every event published on events to connected
// websocket clients. The server also observes the bus, which turns on its
// metrics for GetStats.
func (s *Server) SubscribeEvents(events bus.EventBus) (bus.Subscription, error) {
	sub, err := events.Subscribe(bus.Wildcard, func(e bus.Event) error {
		select {
		case s.events <- EventMessage{Type: e.Type(), Data: e.Data()}:
		default:
			s.logger.Debug("Event dropped", log.String("event", e.Type()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.AddObserver(s)
	s.eventBus, s.eventSub = events, sub
	return sub, nil
}

func (s *Server) OnPublish(string, bus.Event) {}

// OnDelivered reports handler failures from any subscriber on the bus.
func (s *Server) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	if err != nil {
		s.logger.Warn("Event handler failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Duration("duration", duration),
			log.Error(err))
	}
}

func (s *Server) unsubscribeEvents() {
	if s.eventBus == nil {
		return
	}
	s.eventBus.RemoveObserver(s)
	_ = s.eventBus.Unsubscribe(s.eventSub)
}

// Handler returns the HTTP routes, including the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /params", s.handleGetParams)
	mux.HandleFunc("PUT /params", s.handlePutParams)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /running", s.handleRunning)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start listens and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	s.workerGroup.Add(2)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()
	go func() {
		defer s.workerGroup.Done()
		s.broadcastLoop()
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address, useful when ListenAddr used port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down and disconnects every websocket client.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.logger.Info("Stopping server")

	close(s.stopChan)
	s.unsubscribeEvents()
	err := s.httpServer.Shutdown(ctx)
	s.clients.Range(func(_, value any) bool {
		value.(*client).close()
		return true
	})
	s.workerGroup.Wait()
	atomic.StoreInt32(&s.closed, 1)

	s.logger.Info("Server stopped")
	return err
}

// Run starts the server and stops it when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

func (s *Server) GetStats() Stats {
	stats := Stats{
		ClientCount: atomic.LoadInt64(&s.clientCount),
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
	if s.eventBus != nil {
		m := s.eventBus.GetMetrics()
		stats.Events = &m
	}
	return stats
}
