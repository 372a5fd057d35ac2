// Package api provides the HTTP command boundary for one game session.
// GET endpoints are public (read-only observation).
// POST and DELETE endpoints require a bearer token when one is configured.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/narivia/internal/economy"
	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/persistence"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/store"
	"github.com/talgya/narivia/internal/world"
)

const (
	maxBodyBytes = 1 << 20
	writeWait    = 5 * time.Second
	pingPeriod   = 30 * time.Second
)

var (
	errNoGame         = errors.New("no game in progress")
	errNoPersistence  = errors.New("persistence disabled")
	errBadRequest     = errors.New("malformed request")
	errStreamDisabled = errors.New("streaming disabled")
)

// WorldCatalog loads and enumerates world definitions.
type WorldCatalog interface {
	engine.WorldSource
	List(ctx context.Context) ([]world.Meta, error)
}

// Server serves one game session over HTTP. Commands are serialised
// through a single mutex because engine.Game is not safe for concurrent use.
type Server struct {
	Worlds      WorldCatalog
	DB          *persistence.DB // nil disables save and restore
	SnapshotDir string          // empty disables snapshot export
	Engine      engine.Config
	Port        int
	AuthToken   string       // Bearer token for POST endpoints. Empty = open.
	Limiter     *RateLimiter // nil disables rate limiting
	Hub         *Hub         // nil disables the stream

	mu   sync.Mutex
	game *engine.Game
}

// Game returns the current session, or nil.
func (s *Server) Game() *engine.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// SetGame replaces the current session.
func (s *Server) SetGame(g *engine.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = g
}

// Handler builds the API's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Observation.
	mux.HandleFunc("GET /api/v1/worlds", s.handleWorlds)
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/factions", s.handleFactions)
	mux.HandleFunc("GET /api/v1/factions/{id}", s.handleFactionDetail)
	mux.HandleFunc("GET /api/v1/regions", s.handleRegions)
	mux.HandleFunc("GET /api/v1/regions/{id}", s.handleRegionDetail)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/notifications", s.handleNotifications)
	mux.HandleFunc("GET /api/v1/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}/events", s.handleSessionEvents)
	mux.HandleFunc("GET /api/v1/snapshots", s.handleSnapshots)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Commands.
	mux.HandleFunc("POST /api/v1/games", s.command(s.handleNewGame))
	mux.HandleFunc("POST /api/v1/turn", s.command(s.handleTurn))
	mux.HandleFunc("POST /api/v1/attack", s.command(s.handleAttack))
	mux.HandleFunc("POST /api/v1/recruit", s.command(s.handleRecruit))
	mux.HandleFunc("POST /api/v1/build", s.command(s.handleBuild))
	mux.HandleFunc("POST /api/v1/relations", s.command(s.handleRelations))
	mux.HandleFunc("POST /api/v1/save", s.command(s.handleSave))
	mux.HandleFunc("POST /api/v1/restore", s.command(s.handleRestore))
	mux.HandleFunc("POST /api/v1/snapshot", s.command(s.handleSnapshot))
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.command(s.handleDeleteSession))

	return mux
}

// Start begins serving the HTTP API in a goroutine. The returned server
// is used for shutdown.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "auth", s.AuthToken != "", "rate_limited", s.Limiter != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// ── Middleware ──────────────────────────────────────────────────────────

// checkBearerToken returns true if the request carries the configured token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AuthToken
}

// command wraps a POST handler with bearer auth and rate limiting.
func (s *Server) command(next http.HandlerFunc) http.HandlerFunc {
	h := func(w http.ResponseWriter, r *http.Request) {
		if s.AuthToken != "" && !s.checkBearerToken(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
	if s.Limiter != nil {
		return RateLimitMiddleware(s.Limiter, h)
	}
	return h
}

// withGame runs fn with the session lock held.
func (s *Server) withGame(w http.ResponseWriter, fn func(g *engine.Game) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		writeErr(w, errNoGame)
		return
	}
	out, err := fn(s.game)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, out)
}

// ── Observation ─────────────────────────────────────────────────────────

func (s *Server) handleWorlds(w http.ResponseWriter, r *http.Request) {
	metas, err := s.Worlds.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, metas)
}

type statusResponse struct {
	SessionID       string   `json:"session_id"`
	WorldID         string   `json:"world_id"`
	PlayerFactionID string   `json:"player_faction_id"`
	Turn            int      `json:"turn"`
	PlayerAlive     bool     `json:"player_alive"`
	PlayerWealth    int      `json:"player_wealth"`
	AliveFactions   []string `json:"alive_factions"`
	Pending         int      `json:"pending_notifications"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, func(g *engine.Game) (any, error) {
		player, err := g.Store.Faction(g.PlayerFactionID)
		if err != nil {
			return nil, err
		}
		return statusResponse{
			SessionID:       g.SessionID,
			WorldID:         g.WorldID,
			PlayerFactionID: g.PlayerFactionID,
			Turn:            g.Turn,
			PlayerAlive:     player.Alive,
			PlayerWealth:    player.Wealth,
			AliveFactions:   g.AliveFactions(),
			Pending:         len(g.PendingNotifications()),
		}, nil
	})
}

type factionSummary struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Colour  world.Colour `json:"colour"`
	Wealth  int          `json:"wealth"`
	Alive   bool         `json:"alive"`
	Regions int          `json:"regions"`
	Troops  int          `json:"troops"`
	Power   int          `json:"power"`
}

func summarizeFaction(st *store.Store, f *social.Faction) factionSummary {
	return factionSummary{
		ID:      f.ID,
		Name:    f.Name,
		Colour:  f.Colour,
		Wealth:  f.Wealth,
		Alive:   f.Alive,
		Regions: st.RegionCount(f.ID),
		Troops:  st.FactionTroops(f.ID),
		Power:   st.FactionPower(f.ID),
	}
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, func(g *engine.Game) (any, error) {
		out := make([]factionSummary, 0, len(g.Store.Factions()))
		for _, f := range g.Store.Factions() {
			out = append(out, summarizeFaction(g.Store, f))
		}
		return out, nil
	})
}

type factionDetail struct {
	factionSummary
	Description string            `json:"description,omitempty"`
	CultureID   string            `json:"culture_id"`
	Phase       string            `json:"phase"`
	Capital     string            `json:"capital,omitempty"`
	Income      int               `json:"income"`
	Outcome     int               `json:"outcome"`
	Recruitment int               `json:"recruitment"`
	Balance     int               `json:"balance"`
	RegionIDs   []string          `json:"region_ids"`
	Holdings    []*social.Holding `json:"holdings"`
	Armies      []military.Army   `json:"armies"`
	Relations   map[string]int    `json:"relations"`
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.withGame(w, func(g *engine.Game) (any, error) {
		st := g.Store
		f, err := st.Faction(id)
		if err != nil {
			return nil, err
		}

		d := factionDetail{
			factionSummary: summarizeFaction(st, f),
			Description:    f.Description,
			CultureID:      f.CultureID,
			Phase:          g.FactionPhase(f.ID),
			Income:         economy.Income(st, f.ID),
			Outcome:        economy.Outcome(st, f.ID),
			Recruitment:    economy.Recruitment(st, f.ID),
			Balance:        economy.Balance(st, f.ID),
			RegionIDs:      []string{},
			Holdings:       st.FactionHoldings(f.ID),
			Armies:         st.FactionArmies(f.ID),
			Relations:      make(map[string]int),
		}
		if capital, ok := st.FactionCapital(f.ID); ok {
			d.Capital = capital
		}
		for _, reg := range st.FactionRegions(f.ID) {
			d.RegionIDs = append(d.RegionIDs, reg.ID)
		}
		for _, other := range st.Factions() {
			if other.ID == f.ID {
				continue
			}
			if v, err := st.Relation(f.ID, other.ID); err == nil {
				d.Relations[other.ID] = v
			}
		}
		return d, nil
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, func(g *engine.Game) (any, error) {
		return g.Store.Regions(), nil
	})
}

type regionDetail struct {
	*world.Region
	Holdings   []*social.Holding `json:"holdings"`
	Neighbours []string          `json:"neighbours"`
}

func (s *Server) handleRegionDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.withGame(w, func(g *engine.Game) (any, error) {
		reg, err := g.Store.Region(id)
		if err != nil {
			return nil, err
		}
		return regionDetail{
			Region:     reg,
			Holdings:   g.Store.RegionSlots(id),
			Neighbours: g.Store.Borders().Neighbours(id),
		}, nil
	})
}

// eventLimit reads the optional limit query parameter.
func eventLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 50, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", errBadRequest)
	}
	return n, nil
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := eventLimit(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		return g.RecentEvents(limit), nil
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, func(g *engine.Game) (any, error) {
		notes := g.DrainNotifications()
		if notes == nil {
			notes = []engine.PlayerRegionAttacked{}
		}
		return notes, nil
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeErr(w, errNoPersistence)
		return
	}
	sessions, err := s.DB.Sessions()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, sessions)
}

// handleSessionEvents serves a saved session's event log, newest first.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeErr(w, errNoPersistence)
		return
	}
	limit, err := eventLimit(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id := r.PathValue("id")
	if _, err := s.DB.Session(id); err != nil {
		writeErr(w, err)
		return
	}
	events, err := s.DB.RecentEvents(id, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if events == nil {
		events = []engine.Event{}
	}
	writeJSON(w, events)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.SnapshotDir == "" {
		writeErr(w, errNoPersistence)
		return
	}
	headers, err := persistence.ListSnapshots(s.SnapshotDir)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, headers)
}

// ── Commands ────────────────────────────────────────────────────────────

type newGameRequest struct {
	WorldID         string `json:"world_id"`
	PlayerFactionID string `json:"player_faction_id"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.WorldID == "" || req.PlayerFactionID == "" {
		writeErr(w, fmt.Errorf("%w: world_id and player_faction_id are required", errBadRequest))
		return
	}

	// World loading runs outside the session lock.
	g, err := engine.NewGame(r.Context(), s.Worlds, req.WorldID, req.PlayerFactionID, s.Engine)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.SetGame(g)
	s.withGame(w, func(g *engine.Game) (any, error) {
		return statusResponse{
			SessionID:       g.SessionID,
			WorldID:         g.WorldID,
			PlayerFactionID: g.PlayerFactionID,
			Turn:            g.Turn,
			PlayerAlive:     true,
			AliveFactions:   g.AliveFactions(),
		}, nil
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, func(g *engine.Game) (any, error) {
		report, err := g.NextTurn()
		if err != nil {
			return nil, err
		}
		s.publish(report)
		return report, nil
	})
}

type attackRequest struct {
	RegionID string `json:"region_id"`
}

type attackResponse struct {
	Result engine.BattleResult `json:"result"`
	Report engine.TurnReport   `json:"report"`
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		result, report, err := g.PlayerAttackRegion(req.RegionID)
		if err != nil {
			return nil, err
		}
		s.publish(report)
		return attackResponse{Result: result, Report: report}, nil
	})
}

type recruitRequest struct {
	UnitID string `json:"unit_id"`
	Amount int    `json:"amount"`
}

func (s *Server) handleRecruit(w http.ResponseWriter, r *http.Request) {
	var req recruitRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		unit := req.UnitID
		if unit == "" {
			unit = g.RecruitUnitID()
		}
		n, err := g.RecruitUnits(unit, req.Amount)
		if err != nil {
			return nil, err
		}
		return map[string]any{"unit_id": unit, "recruited": n}, nil
	})
}

type buildRequest struct {
	HoldingID string `json:"holding_id"`
	Type      string `json:"type"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	t, err := social.ParseHoldingType(req.Type)
	if err != nil {
		writeErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		if err := g.BuildHolding(req.HoldingID, t); err != nil {
			return nil, err
		}
		return g.Store.Holding(req.HoldingID)
	})
}

// relationsRequest sets or shifts a relation. Exactly one of Delta and
// Value must be given.
type relationsRequest struct {
	SourceID string `json:"source_faction_id"`
	TargetID string `json:"target_faction_id"`
	Delta    *int   `json:"delta,omitempty"`
	Value    *int   `json:"value,omitempty"`
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	var req relationsRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if (req.Delta == nil) == (req.Value == nil) {
		writeErr(w, fmt.Errorf("%w: exactly one of delta and value is required", errBadRequest))
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		var err error
		if req.Delta != nil {
			err = g.ChangeRelations(req.SourceID, req.TargetID, *req.Delta)
		} else {
			err = g.SetRelations(req.SourceID, req.TargetID, *req.Value)
		}
		if err != nil {
			return nil, err
		}
		v, err := g.Store.Relation(req.SourceID, req.TargetID)
		if err != nil {
			return nil, err
		}
		return social.Relation{SourceID: req.SourceID, TargetID: req.TargetID, Value: v}, nil
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeErr(w, errNoPersistence)
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		if err := s.DB.SaveGame(g); err != nil {
			return nil, err
		}
		return map[string]any{"session_id": g.SessionID, "turn": g.Turn}, nil
	})
}

// restoreRequest names either a saved session or a snapshot file, by the
// session id it was exported from.
type restoreRequest struct {
	SessionID string `json:"session_id"`
	Snapshot  string `json:"snapshot"`
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if (req.SessionID == "") == (req.Snapshot == "") {
		writeErr(w, fmt.Errorf("%w: exactly one of session_id and snapshot is required", errBadRequest))
		return
	}

	state, err := s.loadState(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	g, err := engine.Restore(r.Context(), s.Worlds, state, s.Engine)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.SetGame(g)
	writeJSON(w, map[string]any{"session_id": g.SessionID, "world_id": g.WorldID, "turn": g.Turn})
}

// loadState reads the state a restore request names.
func (s *Server) loadState(req restoreRequest) (engine.State, error) {
	if req.SessionID != "" {
		if s.DB == nil {
			return engine.State{}, errNoPersistence
		}
		return s.DB.LoadState(req.SessionID)
	}

	if s.SnapshotDir == "" {
		return engine.State{}, errNoPersistence
	}
	if !validSnapshotName(req.Snapshot) {
		return engine.State{}, fmt.Errorf("%w: invalid snapshot name %q", errBadRequest, req.Snapshot)
	}
	hdr, state, err := persistence.ReadSnapshot(s.snapshotPath(req.Snapshot))
	if err != nil {
		return engine.State{}, err
	}
	slog.Info("snapshot read", "session", hdr.SessionID, "turn", hdr.Turn, "written_at", hdr.WrittenAt)
	return state, nil
}

func (s *Server) snapshotPath(sessionID string) string {
	return filepath.Join(s.SnapshotDir, sessionID+persistence.SnapshotExt)
}

// validSnapshotName rejects anything that could leave the snapshot directory.
func validSnapshotName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.SnapshotDir == "" {
		writeErr(w, errNoPersistence)
		return
	}
	s.withGame(w, func(g *engine.Game) (any, error) {
		path := s.snapshotPath(g.SessionID)
		if err := persistence.WriteSnapshot(path, g.State()); err != nil {
			return nil, err
		}
		slog.Info("snapshot written", "session", g.SessionID, "turn", g.Turn, "path", path)
		return map[string]any{"session_id": g.SessionID, "turn": g.Turn, "path": path}, nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeErr(w, errNoPersistence)
		return
	}
	id := r.PathValue("id")
	if err := s.DB.DeleteSession(id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"session_id": id, "deleted": true})
}

// publish forwards a turn report and its player notifications to the stream.
func (s *Server) publish(report engine.TurnReport) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(StreamMessage{Type: "turn", Data: report})
	for _, n := range report.Notifications {
		s.Hub.Publish(StreamMessage{Type: "region_attacked", Data: n})
	}
}

// ── Stream ──────────────────────────────────────────────────────────────

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream pushes turn reports and player notifications over a
// websocket until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		writeErr(w, errStreamDisabled)
		return
	}

	// Subscribe before the upgrade so nothing published after the
	// handshake completes is missed.
	subID, ch := s.Hub.Subscribe()
	defer s.Hub.Unsubscribe(subID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	slog.Info("stream client connected", "sub_id", subID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: processes control frames and notices the client leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			slog.Info("stream client disconnected", "sub_id", subID)
			return
		}
	}
}

// ── Encoding ────────────────────────────────────────────────────────────

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps a kernel error onto an HTTP status.
func statusFor(err error) int {
	var invalid *engine.InvalidTargetRegionError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, persistence.ErrSessionNotFound),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.As(err, &invalid),
		errors.Is(err, errNoGame),
		errors.Is(err, engine.ErrNoTarget),
		errors.Is(err, engine.ErrPlayerEliminated),
		errors.Is(err, engine.ErrHoldingOccupied),
		errors.Is(err, engine.ErrNotOwner),
		errors.Is(err, engine.ErrInsufficientWealth),
		errors.Is(err, engine.ErrNoHoldingSlots),
		errors.Is(err, engine.ErrInvalidHoldingType),
		errors.Is(err, engine.ErrUnknownPhase),
		errors.Is(err, persistence.ErrSnapshotVersion),
		errors.Is(err, store.ErrSelfRelation):
		return http.StatusConflict
	case errors.Is(err, errNoPersistence), errors.Is(err, errStreamDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeError(w, code, err.Error())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
