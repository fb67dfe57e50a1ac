// Package persistence keeps the outpost journal in SQLite: mission records
// with their phase history, the event log, the trade profit cache and the
// world metadata needed to regenerate the surface.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/mission"
)

// DB wraps a SQLite connection for the journal.
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
	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		phase TEXT NOT NULL,
		home INTEGER NOT NULL,
		rover TEXT NOT NULL,
		started REAL NOT NULL,
		outbound INTEGER NOT NULL,
		emergency INTEGER NOT NULL,
		done INTEGER NOT NULL,
		study_id TEXT NOT NULL DEFAULT '',
		remaining_msol REAL NOT NULL,
		members_json TEXT NOT NULL,
		statuses_json TEXT NOT NULL,
		trade_json TEXT,
		updated_tick INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mission_phases (
		mission_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		phase TEXT NOT NULL,
		started REAL NOT NULL,
		PRIMARY KEY (mission_id, seq)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		mission_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS profit_cache (
		home INTEGER NOT NULL,
		remote INTEGER NOT NULL,
		profit REAL NOT NULL,
		computed_at REAL NOT NULL,
		PRIMARY KEY (home, remote)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_mission ON events(mission_id);
	CREATE INDEX IF NOT EXISTS idx_missions_done ON missions(done);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// MissionRecord is one journaled mission.
type MissionRecord struct {
	ID            string  `json:"id" db:"id"`
	Kind          string  `json:"kind" db:"kind"`
	Phase         string  `json:"phase" db:"phase"`
	Home          uint64  `json:"home" db:"home"`
	Rover         string  `json:"rover" db:"rover"`
	Started       float64 `json:"started" db:"started"`
	Outbound      bool    `json:"outbound" db:"outbound"`
	Emergency     bool    `json:"emergency" db:"emergency"`
	Done          bool    `json:"done" db:"done"`
	StudyID       string  `json:"study_id,omitempty" db:"study_id"`
	RemainingMsol float64 `json:"estimated_remaining_msol" db:"remaining_msol"`
	MembersJSON   string  `json:"-" db:"members_json"`
	StatusesJSON  string  `json:"-" db:"statuses_json"`
	UpdatedTick   uint64  `json:"updated_tick" db:"updated_tick"`
}

// Members decodes the member list.
func (r MissionRecord) Members() ([]agents.AgentID, error) {
	var out []agents.AgentID
	if err := json.Unmarshal([]byte(r.MembersJSON), &out); err != nil {
		return nil, fmt.Errorf("mission %s members: %w", r.ID, err)
	}
	return out, nil
}

// Statuses decodes the status codes.
func (r MissionRecord) Statuses() ([]mission.StatusCode, error) {
	var out []mission.StatusCode
	if err := json.Unmarshal([]byte(r.StatusesJSON), &out); err != nil {
		return nil, fmt.Errorf("mission %s statuses: %w", r.ID, err)
	}
	return out, nil
}

// SaveMissions upserts the missions and replaces their phase history.
func (db *DB) SaveMissions(missions []engine.MissionDetail, tick uint64) error {
	if len(missions) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO missions
		(id, kind, phase, home, rover, started, outbound, emergency, done,
		 study_id, remaining_msol, members_json, statuses_json, trade_json, updated_tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	phases, err := tx.Preparex("INSERT INTO mission_phases (mission_id, seq, phase, started) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer phases.Close()

	for _, m := range missions {
		membersJSON, _ := json.Marshal(m.Members)
		statusesJSON, _ := json.Marshal(m.Statuses)
		var tradeJSON any
		if m.Trade != nil {
			raw, _ := json.Marshal(m.Trade)
			tradeJSON = string(raw)
		}

		_, err := stmt.Exec(
			m.ID, m.Kind.String(), m.Phase.String(), m.Home, m.Rover, m.Started,
			boolInt(m.Outbound), boolInt(m.Emergency), boolInt(m.Done),
			m.StudyID, m.RemainingMsol, string(membersJSON), string(statusesJSON), tradeJSON, tick,
		)
		if err != nil {
			return fmt.Errorf("mission %s: %w", m.ID, err)
		}

		if _, err := tx.Exec("DELETE FROM mission_phases WHERE mission_id = ?", m.ID); err != nil {
			return err
		}
		for i, p := range m.History {
			if _, err := phases.Exec(m.ID, i, p.Phase.String(), p.Started); err != nil {
				return fmt.Errorf("mission %s phase %d: %w", m.ID, i, err)
			}
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category, mission_id) VALUES (?, ?, ?, ?)",
			e.Tick, e.Description, e.Category, e.MissionID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveProfits replaces the stored profit cache.
func (db *DB) SaveProfits(entries []economy.ProfitEntry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profit_cache"); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := tx.NamedExec(
			"INSERT INTO profit_cache (home, remote, profit, computed_at) VALUES (:home, :remote, :profit, :computed_at)",
			profitRow(e),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type profitRow struct {
	Home       uint64  `db:"home"`
	Remote     uint64  `db:"remote"`
	Profit     float64 `db:"profit"`
	ComputedAt float64 `db:"computed_at"`
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasJournal reports whether a previous run saved anything.
func (db *DB) HasJournal() bool {
	_, err := db.GetMeta("last_tick")
	return err == nil
}

// Resume returns the seed and tick of the last saved snapshot.
func (db *DB) Resume() (seed int64, tick uint64, err error) {
	raw, err := db.GetMeta("seed")
	if err != nil {
		return 0, 0, fmt.Errorf("read seed: %w", err)
	}
	if seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("parse seed: %w", err)
	}
	raw, err = db.GetMeta("last_tick")
	if err != nil {
		return 0, 0, fmt.Errorf("read last tick: %w", err)
	}
	if tick, err = strconv.ParseUint(raw, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("parse last tick: %w", err)
	}
	return seed, tick, nil
}

// SaveSnapshot journals one sol's worth of state.
func (db *DB) SaveSnapshot(snap engine.Snapshot) error {
	if err := db.SaveMissions(snap.Missions, snap.Tick); err != nil {
		return fmt.Errorf("save missions: %w", err)
	}
	if err := db.SaveEvents(snap.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveProfits(snap.Profits); err != nil {
		return fmt.Errorf("save profits: %w", err)
	}
	meta := map[string]string{
		"seed":      strconv.FormatInt(snap.Seed, 10),
		"last_tick": strconv.FormatUint(snap.Tick, 10),
		"season":    strconv.FormatUint(uint64(snap.Season), 10),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	slog.Debug("snapshot saved", "tick", snap.Tick, "missions", len(snap.Missions), "events", len(snap.Events))
	return nil
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category, mission_id FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// MissionEvents returns a mission's events in order.
func (db *DB) MissionEvents(id string) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category, mission_id FROM events WHERE mission_id = ? ORDER BY id",
		id,
	)
	return events, err
}

// Missions returns every journaled mission in start order.
func (db *DB) Missions() ([]MissionRecord, error) {
	var out []MissionRecord
	err := db.conn.Select(&out, `SELECT id, kind, phase, home, rover, started, outbound, emergency, done,
		study_id, remaining_msol, members_json, statuses_json, updated_tick
		FROM missions ORDER BY started, id`)
	return out, err
}

// MissionHistory returns the phases a mission went through.
func (db *DB) MissionHistory(id string) ([]mission.PhaseRecord, error) {
	var rows []struct {
		Phase   string  `db:"phase"`
		Started float64 `db:"started"`
	}
	err := db.conn.Select(&rows, "SELECT phase, started FROM mission_phases WHERE mission_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, err
	}
	out := make([]mission.PhaseRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, mission.PhaseRecord{Phase: mission.Phase(r.Phase), Started: r.Started})
	}
	return out, nil
}

// Profits returns the stored profit cache.
func (db *DB) Profits() ([]economy.ProfitEntry, error) {
	var rows []profitRow
	if err := db.conn.Select(&rows, "SELECT home, remote, profit, computed_at FROM profit_cache ORDER BY home, remote"); err != nil {
		return nil, err
	}
	out := make([]economy.ProfitEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, economy.ProfitEntry(r))
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
