package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/simulation"
	"github.com/zeusync/motorig/pkg/concurrent"
	"github.com/zeusync/motorig/pkg/generic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

var encodeBuffers = generic.NewResetPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// ControlMessage is what websocket clients send: pointer input and run/pause.
type ControlMessage struct {
	Action  string  `json:"action"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Running bool    `json:"running,omitempty"`
}

const (
	ActionPointerDown = "pointer_down"
	ActionPointerMove = "pointer_move"
	ActionPointerUp   = "pointer_up"
	ActionRunning     = "running"
	ActionReset       = "reset"
)

// ServerMessage is what the server pushes: snapshots and command replies.
type ServerMessage struct {
	Type     string               `json:"type"`
	Snapshot *simulation.Snapshot `json:"snapshot,omitempty"`
	Event    *EventMessage        `json:"event,omitempty"`
	Grabbed  bool                 `json:"grabbed,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  int32 // atomic bool
}

func (c *client) send(msg ServerMessage, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// sendRaw writes an already encoded message.
func (c *client) sendRaw(data []byte, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		_ = c.conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxClients > 0 && int(atomic.LoadInt64(&s.clientCount)) >= s.config.MaxClients {
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	c := &client{id: uuid.NewString(), conn: conn}
	s.clients.Store(c.id, c)
	atomic.AddInt64(&s.clientCount, 1)

	clientLogger := s.logger.With(log.String("client_id", c.id))
	clientLogger.Info("Client connected",
		log.String("remote_addr", r.RemoteAddr),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	defer func() {
		s.clients.Delete(c.id)
		atomic.AddInt64(&s.clientCount, -1)
		c.close()
		clientLogger.Info("Client disconnected",
			log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))
	}()

	if snap, err := s.sim.Snapshot(r.Context()); err == nil {
		_ = c.send(ServerMessage{Type: "snapshot", Snapshot: &snap}, s.config.WriteTimeout)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := s.handleControl(r.Context(), data)
		if err = c.send(reply, s.config.WriteTimeout); err != nil {
			clientLogger.Debug("Reply failed", log.Error(err))
			return
		}
	}
}

func (s *Server) handleControl(ctx context.Context, data []byte) ServerMessage {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ServerMessage{Type: "error", Error: fmt.Sprintf("%s: %v", ErrInvalidMessage, err)}
	}

	reply := ServerMessage{Type: msg.Action}
	p := geometry.Pt(msg.X, msg.Y)
	var fn func(*simulation.Simulation) error
	switch msg.Action {
	case ActionPointerDown:
		fn = func(sim *simulation.Simulation) error {
			grabbed, err := sim.PointerDown(p)
			reply.Grabbed = grabbed
			return err
		}
	case ActionPointerMove:
		fn = func(sim *simulation.Simulation) error {
			sim.PointerMove(p)
			return nil
		}
	case ActionPointerUp:
		fn = func(sim *simulation.Simulation) error {
			sim.PointerUp()
			return nil
		}
	case ActionRunning:
		fn = func(sim *simulation.Simulation) error {
			sim.SetRunning(msg.Running)
			return nil
		}
	case ActionReset:
		fn = (*simulation.Simulation).Reset
	default:
		return ServerMessage{Type: "error", Error: fmt.Sprintf("%s: unknown action %q", ErrInvalidMessage, msg.Action)}
	}

	if err := s.sim.Do(ctx, fn); err != nil {
		return ServerMessage{Type: "error", Error: err.Error()}
	}
	return reply
}

// broadcastLoop pushes a snapshot to every client on each interval and
// forwards queued simulation events as they arrive.
func (s *Server) broadcastLoop() {
	s.logger.Debug("Snapshot broadcaster started")
	defer s.logger.Debug("Snapshot broadcaster stopped")

	ticker := time.NewTicker(s.config.SnapshotInterval)
	defer ticker.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.stopChan
		cancel()
	}()

	for {
		select {
		case <-s.stopChan:
			return
		case ev := <-s.events:
			if atomic.LoadInt64(&s.clientCount) > 0 {
				s.broadcast(ServerMessage{Type: "event", Event: &ev})
			}
		case <-ticker.C:
			if atomic.LoadInt64(&s.clientCount) == 0 {
				continue
			}
			snap, err := s.sim.Snapshot(ctx)
			if err != nil {
				continue
			}
			s.broadcast(ServerMessage{Type: "snapshot", Snapshot: &snap})
		}
	}
}

// broadcast encodes msg once and writes it to every client.
func (s *Server) broadcast(msg ServerMessage) {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		s.logger.Error("Failed to encode broadcast", log.String("type", msg.Type), log.Error(err))
		return
	}
	data := buf.Bytes()

	var targets []*client
	s.clients.Range(func(_, value any) bool {
		targets = append(targets, value.(*client))
		return true
	})
	_ = concurrent.Each(targets, func(c *client) error {
		if err := c.sendRaw(data, s.config.WriteTimeout); err != nil {
			s.logger.Debug("Failed to send broadcast", log.String("client_id", c.id), log.Error(err))
			c.close()
		}
		return nil
	})
}
