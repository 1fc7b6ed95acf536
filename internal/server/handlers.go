package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/observability/log"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/simulation"
)

type errorResponse struct {
	Error string `json:"error"`
	// Side and Parameter name the offending input so a form can revert it.
	Side      string `json:"side,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

type paramsResponse struct {
	Set     *params.Set    `json:"set"`
	Entries []params.Entry `json:"entries"`
}

// EditRequest changes a single parameter value.
type EditRequest struct {
	Group string  `json:"group"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type runningRequest struct {
	Running bool `json:"running"`
}

func (s *Server) handleGetParams(w http.ResponseWriter, r *http.Request) {
	var set *params.Set
	err := s.sim.Do(r.Context(), func(sim *simulation.Simulation) error {
		set = sim.Params()
		if set == nil {
			return simulation.ErrNoWorld
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paramsResponse{Set: set, Entries: set.Entries()})
}

// handlePutParams accepts either a full parameter set or a single EditRequest
// and rebuilds the rig from the result.
func (s *Server) handlePutParams(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize)
	var body struct {
		params.Set
		EditRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var set *params.Set
	err := s.sim.Do(r.Context(), func(sim *simulation.Simulation) error {
		next := &body.Set
		if body.Group != "" {
			current := sim.Params()
			if current == nil {
				return simulation.ErrNoWorld
			}
			edited, err := current.With(body.Group, body.Key, body.Value)
			if err != nil {
				return err
			}
			next = edited
		}
		if err := sim.UpdateBodies(next); err != nil {
			return err
		}
		set = sim.Params()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Parameters updated", log.Uint64("fingerprint", set.Fingerprint()))
	writeJSON(w, http.StatusOK, paramsResponse{Set: set, Entries: set.Entries()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.Do(r.Context(), (*simulation.Simulation).Reset); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleSnapshot(w, r)
}

func (s *Server) handleRunning(w http.ResponseWriter, r *http.Request) {
	var req runningRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := s.sim.Do(r.Context(), func(sim *simulation.Simulation) error {
		sim.SetRunning(req.Running)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sim.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.GetStats())
}

// writeError maps domain errors to status codes. Invalid geometry,
// parameters and the shapes they produce are the caller's fault and come
// back as 422.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var ge *geometry.GeometryError
	var pe *params.ParameterError
	switch {
	case errors.As(err, &ge):
		status = http.StatusUnprocessableEntity
		resp.Side = ge.Side
	case errors.As(err, &pe):
		status = http.StatusUnprocessableEntity
		resp.Parameter = pe.Name
	case errors.Is(err, physics.ErrInvalidShape):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, simulation.ErrNoWorld):
		status = http.StatusConflict
	case errors.Is(err, simulation.ErrRunnerStopped):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", log.Error(err))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
