package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

// The singleton row id. The table's CHECK constraint keeps it the only row.
const worldRowID = 1

var _ repository.WorldRepository = (*WorldStore)(nil)

// WorldStore is the world-state singleton.
type WorldStore struct {
	db *DB
}

// World returns the world-state singleton backed by this database.
func (db *DB) World() *WorldStore {
	return &WorldStore{db: db}
}

// Get returns the world state singleton. The row is seeded by the startup
// migration; if it is somehow missing (fresh replica, manual surgery),
// defaults are synthesized instead of failing the read.
func (s *WorldStore) Get(ctx context.Context) (*model.WorldState, error) {
	state, _, err := s.getWorldWithVersion(ctx)
	return state, err
}

func (s *WorldStore) getWorldWithVersion(ctx context.Context) (*model.WorldState, int64, error) {
	var (
		state       model.WorldState
		version     int64
		markers     string
		log         string
		graffiti    string
		eventActive int
	)
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT markers, log, graffiti, last_treasure_reset, event_active,
			lesson_cycle_start, version
		 FROM world_state WHERE id = ?`, worldRowID,
	).Scan(&markers, &log, &graffiti, &state.LastTreasureReset, &eventActive,
		&state.LessonCycleStart, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return defaultWorldState(), 0, nil
		}
		return nil, 0, fmt.Errorf("sqlite: getting world state: %w", err)
	}

	state.EventActive = eventActive != 0
	state.Markers = []model.Marker{}
	state.Log = []string{}
	state.Graffiti = []model.GraffitiEntry{}
	for _, dec := range []struct {
		raw string
		out any
	}{
		{markers, &state.Markers},
		{log, &state.Log},
		{graffiti, &state.Graffiti},
	} {
		if err := decodeJSON(dec.raw, dec.out); err != nil {
			return nil, 0, err
		}
	}
	return &state, version, nil
}

func defaultWorldState() *model.WorldState {
	return &model.WorldState{
		Markers:          []model.Marker{},
		Log:              []string{},
		Graffiti:         []model.GraffitiEntry{},
		LessonCycleStart: time.Now().UnixMilli(),
	}
}

// Replace overwrites every field of the singleton. Last writer wins by
// design; the boolean flag is stored as 0/1.
func (s *WorldStore) Replace(ctx context.Context, state *model.WorldState) error {
	markers, err := encodeJSON(orEmptyMarkers(state.Markers))
	if err != nil {
		return err
	}
	log, err := encodeJSON(orEmptyStrings(state.Log))
	if err != nil {
		return err
	}
	graffiti, err := encodeJSON(orEmptyGraffiti(state.Graffiti))
	if err != nil {
		return err
	}

	eventActive := 0
	if state.EventActive {
		eventActive = 1
	}

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO world_state (id, markers, log, graffiti, last_treasure_reset,
			event_active, lesson_cycle_start, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT (id) DO UPDATE SET
			markers = excluded.markers,
			log = excluded.log,
			graffiti = excluded.graffiti,
			last_treasure_reset = excluded.last_treasure_reset,
			event_active = excluded.event_active,
			lesson_cycle_start = excluded.lesson_cycle_start,
			version = world_state.version + 1`,
		worldRowID, markers, log, graffiti, state.LastTreasureReset,
		eventActive, state.LessonCycleStart,
	)
	if err != nil {
		return fmt.Errorf("sqlite: replacing world state: %w", err)
	}
	return nil
}

// AppendGraffiti appends one wall entry without touching the other fields.
// A version check guards the read-modify-write so two concurrent
// submissions never drop each other's entry.
func (s *WorldStore) AppendGraffiti(ctx context.Context, entry *model.GraffitiEntry) error {
	const maxAttempts = 25

	for attempt := 0; attempt < maxAttempts; attempt++ {
		state, version, err := s.getWorldWithVersion(ctx)
		if err != nil {
			return err
		}
		wall := append(state.Graffiti, *entry)

		graffiti, err := encodeJSON(wall)
		if err != nil {
			return err
		}
		res, err := s.db.conn.ExecContext(ctx,
			`UPDATE world_state SET graffiti = ?, version = version + 1
			 WHERE id = ? AND version = ?`,
			graffiti, worldRowID, version,
		)
		if err != nil {
			return fmt.Errorf("sqlite: appending graffiti: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: appending graffiti: %w", err)
		}
		if n == 1 {
			return nil
		}
	}
	return fmt.Errorf("sqlite: appending graffiti: too many concurrent updates")
}

func orEmptyMarkers(v []model.Marker) []model.Marker {
	if v == nil {
		return []model.Marker{}
	}
	return v
}

func orEmptyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func orEmptyGraffiti(v []model.GraffitiEntry) []model.GraffitiEntry {
	if v == nil {
		return []model.GraffitiEntry{}
	}
	return v
}
