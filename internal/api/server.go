// Package api provides the HTTP API for watching and steering the outposts.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (mission control).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/mission"
	"github.com/talgya/outpost/internal/persistence"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
	maxSpeed          = 1000
	shutdownTimeout   = 5 * time.Second
)

// Server serves the simulation over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // Optional journal
	Uptime   *engine.Uptime  // Optional
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// LaunchLimit caps mission launches per client per hour. Zero uses 30.
	LaunchLimit int
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limit := s.LaunchLimit
	if limit == 0 {
		limit = 30
	}
	launchLimiter := NewRateLimiter(limit, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/missions", s.handleMissions)
	mux.HandleFunc("GET /api/v1/mission/{id}", s.handleMissionDetail)
	mux.HandleFunc("GET /api/v1/mission/{id}/events", s.handleMissionEvents)
	mux.HandleFunc("GET /api/v1/settlements", s.handleSettlements)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/speed", s.handleGetSpeed)

	// Mission control (POST, require bearer token).
	mux.HandleFunc("POST /api/v1/speed", s.adminOnly(s.handleSetSpeed))
	mux.HandleFunc("POST /api/v1/missions", s.adminOnly(RateLimitMiddleware(launchLimiter, s.handleLaunch)))
	mux.HandleFunc("POST /api/v1/mission/{id}/abort", s.adminOnly(s.handleAbort))
	mux.HandleFunc("POST /api/v1/provision", s.adminOnly(s.handleProvision))
	mux.HandleFunc("POST /api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return corsMiddleware(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.AdminKey != "")

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	slog.Info("HTTP API stopped")
	return nil
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "mission control disabled (no OUTPOST_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.Sim.Status()
	body := map[string]any{
		"name":     "Outpost",
		"tick":     status.Tick,
		"time":     status.MarsTime,
		"season":   status.Season,
		"speed":    s.Eng.Speed(),
		"outposts": status.Settlements,
		"missions": status.Missions,
		"stats":    status.Stats,
	}
	if s.Uptime != nil {
		body["uptime"] = s.Uptime.Report(status.Tick)
	}
	writeJSON(w, body)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	missions := s.Sim.MissionList()
	if r.URL.Query().Get("active") == "true" {
		active := missions[:0]
		for _, m := range missions {
			if !m.Done {
				active = append(active, m)
			}
		}
		missions = active
	}
	writeJSON(w, missions)
}

func (s *Server) handleMissionDetail(w http.ResponseWriter, r *http.Request) {
	d, ok := s.Sim.MissionDetail(r.PathValue("id"))
	if !ok {
		http.Error(w, "mission not found", http.StatusNotFound)
		return
	}
	writeJSON(w, d)
}

func (s *Server) handleMissionEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.DB != nil {
		events, err := s.DB.MissionEvents(id)
		if err != nil {
			slog.Error("mission events query", "mission", id, "error", err)
			http.Error(w, "journal unavailable", http.StatusInternalServerError)
			return
		}
		// The journal lags by up to a sol; append what is not saved yet.
		var last uint64
		if len(events) > 0 {
			last = events[len(events)-1].Tick
		}
		for _, e := range s.Sim.MissionEvents(id) {
			if e.Tick > last {
				events = append(events, e)
			}
		}
		writeJSON(w, events)
		return
	}
	writeJSON(w, s.Sim.MissionEvents(id))
}

func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.SettlementList())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > maxEventLimit {
			http.Error(w, fmt.Sprintf("limit must be 1-%d", maxEventLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	events := s.Sim.RecentEvents(limit)
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := events[:0]
		for _, e := range events {
			if e.Category == cat {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	writeJSON(w, events)
}

// handleHistory lists every mission the journal has recorded, including
// those from earlier runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal not available", http.StatusServiceUnavailable)
		return
	}
	recs, err := s.DB.Missions()
	if err != nil {
		slog.Error("mission history query", "error", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, recs)
}

func (s *Server) handleGetSpeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSetSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > maxSpeed {
		http.Error(w, fmt.Sprintf("speed must be 0-%d", maxSpeed), http.StatusBadRequest)
		return
	}
	set := s.Eng.SetSpeed
	if s.Uptime != nil {
		set = func(v float64) error { return s.Uptime.SetSpeedTracked(s.Eng, v) }
	}
	if err := set(req.Speed); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string `json:"kind"`
		AgentID uint64 `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	kind, err := mission.ParseKind(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.Sim.LaunchMission(kind, agents.AgentID(req.AgentID))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/mission/"+view.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, view)
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Sim.AbortMission(id); err != nil {
		writeError(w, err)
		return
	}
	d, _ := s.Sim.MissionDetail(id)
	writeJSON(w, d)
}

func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settlement string  `json:"settlement"`
		Resource   string  `json:"resource"`
		Quantity   float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Settlement == "" || req.Resource == "" {
		http.Error(w, "settlement and resource required", http.StatusBadRequest)
		return
	}

	desc, err := s.Sim.ProvisionSettlement(req.Settlement, req.Resource, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "details": desc})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	snap := s.Sim.TakeSnapshot()
	if err := s.DB.SaveSnapshot(snap); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"tick":    snap.Tick,
		"message": "snapshot saved",
	})
}

// writeError maps simulation errors to HTTP statuses. Mission refusals
// carry their status code.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if code := mission.CodeOf(err); code != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": err.Error(), "status": code})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
