// Package persistence provides SQLite-backed session storage and zstd
// snapshot files.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/military"
	"github.com/talgya/narivia/internal/social"
)

// ErrSessionNotFound is returned when no session has the requested id.
var ErrSessionNotFound = errors.New("session not found")

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		world_id TEXT NOT NULL,
		player_faction_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faction_state (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		faction_id TEXT NOT NULL,
		wealth INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		phase TEXT NOT NULL,
		PRIMARY KEY (session_id, faction_id)
	);

	CREATE TABLE IF NOT EXISTS region_state (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		region_id TEXT NOT NULL,
		faction_id TEXT NOT NULL,
		PRIMARY KEY (session_id, region_id)
	);

	CREATE TABLE IF NOT EXISTS holding_state (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		holding_id TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (session_id, holding_id)
	);

	CREATE TABLE IF NOT EXISTS armies (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		faction_id TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		size INTEGER NOT NULL,
		PRIMARY KEY (session_id, faction_id, unit_id)
	);

	CREATE TABLE IF NOT EXISTS relations (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		source_faction_id TEXT NOT NULL,
		target_faction_id TEXT NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (session_id, source_faction_id, target_faction_id)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		region_id TEXT NOT NULL,
		attacker_faction_id TEXT NOT NULL,
		result TEXT NOT NULL,
		turn INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// sessionTables hold per-session rows replaced on every save.
var sessionTables = []string{
	"faction_state", "region_state", "holding_state", "armies", "relations", "notifications", "events",
}

// Session describes one saved game.
type Session struct {
	ID              string    `db:"id" json:"id"`
	WorldID         string    `db:"world_id" json:"world_id"`
	PlayerFactionID string    `db:"player_faction_id" json:"player_faction_id"`
	Turn            int       `db:"turn" json:"turn"`
	SavedAt         time.Time `db:"-" json:"saved_at"`
	SavedAtText     string    `db:"saved_at" json:"-"`
}

// SaveGame writes the game's full state and event log and marks it as the
// last session, all in one transaction. Any earlier save of the same
// session is replaced.
func (db *DB) SaveGame(g *engine.Game) error {
	s := g.State()
	slog.Info("saving game", "session", s.SessionID, "turn", s.Turn, "events", len(s.Events))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeState(tx, s); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", "last_session", s.SessionID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("game saved", "session", s.SessionID)
	return nil
}

// SaveState writes a session's state and event log in one transaction
// (full replace).
func (db *DB) SaveState(s engine.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeState(tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

func writeState(tx *sqlx.Tx, s engine.State) error {
	for _, table := range sessionTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE session_id = ?", s.SessionID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err := tx.Exec(`INSERT OR REPLACE INTO sessions
		(id, world_id, player_faction_id, turn, saved_at) VALUES (?, ?, ?, ?, ?)`,
		s.SessionID, s.WorldID, s.PlayerFactionID, s.Turn, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, f := range s.Factions {
		_, err := tx.Exec(`INSERT INTO faction_state (session_id, seq, faction_id, wealth, alive, phase)
			VALUES (?, ?, ?, ?, ?, ?)`, s.SessionID, i, f.ID, f.Wealth, f.Alive, f.Phase)
		if err != nil {
			return fmt.Errorf("insert faction %s: %w", f.ID, err)
		}
	}
	for i, r := range s.Regions {
		_, err := tx.Exec(`INSERT INTO region_state (session_id, seq, region_id, faction_id)
			VALUES (?, ?, ?, ?)`, s.SessionID, i, r.ID, r.FactionID)
		if err != nil {
			return fmt.Errorf("insert region %s: %w", r.ID, err)
		}
	}
	for i, h := range s.Holdings {
		_, err := tx.Exec(`INSERT INTO holding_state (session_id, seq, holding_id, type)
			VALUES (?, ?, ?, ?)`, s.SessionID, i, h.ID, h.Type.String())
		if err != nil {
			return fmt.Errorf("insert holding %s: %w", h.ID, err)
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO armies (session_id, seq, faction_id, unit_id, size)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, a := range s.Armies {
		if _, err := stmt.Exec(s.SessionID, i, a.FactionID, a.UnitID, a.Size); err != nil {
			return fmt.Errorf("insert army %s/%s: %w", a.FactionID, a.UnitID, err)
		}
	}

	for i, r := range s.Relations {
		_, err := tx.Exec(`INSERT INTO relations (session_id, seq, source_faction_id, target_faction_id, value)
			VALUES (?, ?, ?, ?, ?)`, s.SessionID, i, r.SourceID, r.TargetID, r.Value)
		if err != nil {
			return fmt.Errorf("insert relation %s/%s: %w", r.SourceID, r.TargetID, err)
		}
	}
	for i, n := range s.Notifications {
		_, err := tx.Exec(`INSERT INTO notifications (session_id, seq, region_id, attacker_faction_id, result, turn)
			VALUES (?, ?, ?, ?, ?, ?)`, s.SessionID, i, n.RegionID, n.AttackerID, n.Result.String(), n.Turn)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	for _, e := range s.Events {
		_, err := tx.Exec("INSERT INTO events (session_id, turn, description, category) VALUES (?, ?, ?, ?)",
			s.SessionID, e.Turn, e.Description, e.Category)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return nil
}

type factionRow struct {
	ID     string `db:"faction_id"`
	Wealth int    `db:"wealth"`
	Alive  bool   `db:"alive"`
	Phase  string `db:"phase"`
}

type regionRow struct {
	ID        string `db:"region_id"`
	FactionID string `db:"faction_id"`
}

type holdingRow struct {
	ID   string `db:"holding_id"`
	Type string `db:"type"`
}

type armyRow struct {
	FactionID string `db:"faction_id"`
	UnitID    string `db:"unit_id"`
	Size      int    `db:"size"`
}

type relationRow struct {
	SourceID string `db:"source_faction_id"`
	TargetID string `db:"target_faction_id"`
	Value    int    `db:"value"`
}

type notificationRow struct {
	RegionID   string `db:"region_id"`
	AttackerID string `db:"attacker_faction_id"`
	Result     string `db:"result"`
	Turn       int    `db:"turn"`
}

// Session returns a saved session's summary.
func (db *DB) Session(sessionID string) (Session, error) {
	var sess Session
	err := db.conn.Get(&sess, "SELECT id, world_id, player_faction_id, turn, saved_at FROM sessions WHERE id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	sess.SavedAt, _ = time.Parse(time.RFC3339, sess.SavedAtText)
	return sess, nil
}

// LoadState reads a saved session.
func (db *DB) LoadState(sessionID string) (engine.State, error) {
	sess, err := db.Session(sessionID)
	if err != nil {
		return engine.State{}, err
	}

	s := engine.State{
		SessionID:       sess.ID,
		WorldID:         sess.WorldID,
		PlayerFactionID: sess.PlayerFactionID,
		Turn:            sess.Turn,
	}

	var factions []factionRow
	if err := db.conn.Select(&factions, "SELECT faction_id, wealth, alive, phase FROM faction_state WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load factions: %w", err)
	}
	for _, f := range factions {
		s.Factions = append(s.Factions, engine.FactionState{ID: f.ID, Wealth: f.Wealth, Alive: f.Alive, Phase: f.Phase})
	}

	var regions []regionRow
	if err := db.conn.Select(&regions, "SELECT region_id, faction_id FROM region_state WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load regions: %w", err)
	}
	for _, r := range regions {
		s.Regions = append(s.Regions, engine.RegionState{ID: r.ID, FactionID: r.FactionID})
	}

	var holdings []holdingRow
	if err := db.conn.Select(&holdings, "SELECT holding_id, type FROM holding_state WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load holdings: %w", err)
	}
	for _, h := range holdings {
		t, err := social.ParseHoldingType(h.Type)
		if err != nil {
			return engine.State{}, fmt.Errorf("load holding %s: %w", h.ID, err)
		}
		s.Holdings = append(s.Holdings, engine.HoldingState{ID: h.ID, Type: t})
	}

	var armies []armyRow
	if err := db.conn.Select(&armies, "SELECT faction_id, unit_id, size FROM armies WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load armies: %w", err)
	}
	s.Armies = make([]military.Army, 0, len(armies))
	for _, a := range armies {
		s.Armies = append(s.Armies, military.Army{FactionID: a.FactionID, UnitID: a.UnitID, Size: a.Size})
	}

	var relations []relationRow
	if err := db.conn.Select(&relations, "SELECT source_faction_id, target_faction_id, value FROM relations WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load relations: %w", err)
	}
	for _, r := range relations {
		s.Relations = append(s.Relations, social.Relation{SourceID: r.SourceID, TargetID: r.TargetID, Value: r.Value})
	}

	var notes []notificationRow
	if err := db.conn.Select(&notes, "SELECT region_id, attacker_faction_id, result, turn FROM notifications WHERE session_id = ? ORDER BY seq", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load notifications: %w", err)
	}
	for _, n := range notes {
		var result engine.BattleResult
		if err := result.UnmarshalText([]byte(n.Result)); err != nil {
			return engine.State{}, fmt.Errorf("load notification: %w", err)
		}
		s.Notifications = append(s.Notifications, engine.PlayerRegionAttacked{
			RegionID:   n.RegionID,
			AttackerID: n.AttackerID,
			Result:     result,
			Turn:       n.Turn,
		})
	}

	if err := db.conn.Select(&s.Events, "SELECT turn, description, category FROM events WHERE session_id = ? ORDER BY id", sessionID); err != nil {
		return engine.State{}, fmt.Errorf("load events: %w", err)
	}
	if len(s.Events) == 0 {
		s.Events = nil
	}

	slog.Info("session loaded", "session", sessionID, "world", s.WorldID, "turn", s.Turn, "events", len(s.Events))
	return s, nil
}

// Sessions lists saved sessions, most recently saved first.
func (db *DB) Sessions() ([]Session, error) {
	var out []Session
	err := db.conn.Select(&out, "SELECT id, world_id, player_faction_id, turn, saved_at FROM sessions ORDER BY saved_at DESC, id")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].SavedAt, _ = time.Parse(time.RFC3339, out[i].SavedAtText)
	}
	return out, nil
}

// DeleteSession removes a saved session and all of its rows. It clears
// the last_session marker when it names the deleted session.
func (db *DB) DeleteSession(sessionID string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range sessionTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	if _, err := tx.Exec("DELETE FROM world_meta WHERE key = ? AND value = ?", "last_session", sessionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("session deleted", "session", sessionID)
	return nil
}

// RecentEvents returns a session's most recent events, newest first.
func (db *DB) RecentEvents(sessionID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit,
	)
	return events, err
}

// GetMeta retrieves a stored value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
