package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

var _ repository.PlayerRepository = (*PlayerStore)(nil)

// PlayerStore is the players collection.
type PlayerStore struct {
	db *DB
}

// Players returns the players collection backed by this database.
func (db *DB) Players() *PlayerStore {
	return &PlayerStore{db: db}
}

// Save fully replaces the player document. The store stamps LastActive with
// the current time. A client-supplied value is always overridden, which is
// what makes "last seen" trustworthy.
func (s *PlayerStore) Save(ctx context.Context, player *model.Player) error {
	if player.ID == "" {
		return apperror.ValidationFailed("id", "player id is required")
	}
	player.ApplyDefaults()
	player.LastActive = time.Now().UnixMilli()

	inventory, err := encodeJSON(player.Inventory)
	if err != nil {
		return err
	}
	stats, err := encodeJSON(player.Stats)
	if err != nil {
		return err
	}

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO players (
			id, name, level, xp, coins, fatigue, fatigue_immunity_till,
			backpack_capacity, backpack_level, inventory, rename_cost, cosmetic,
			school_id, cooldown_until, last_daily_treasure, last_active,
			last_lesson_reward, stats)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, player.Level, player.XP, player.Coins,
		player.Fatigue, player.FatigueImmunityTill,
		player.BackpackCapacity, player.BackpackLevel, inventory,
		player.RenameCost, player.Cosmetic, player.SchoolID,
		player.CooldownUntil, player.LastDailyTreasure, player.LastActive,
		player.LastLessonReward, stats,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving player %s: %w", player.ID, err)
	}
	return nil
}

// Get retrieves a player document with inventory and stats decoded.
func (s *PlayerStore) Get(ctx context.Context, id string) (*model.Player, error) {
	var (
		p         model.Player
		inventory string
		stats     string
	)
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, level, xp, coins, fatigue, fatigue_immunity_till,
			backpack_capacity, backpack_level, inventory, rename_cost, cosmetic,
			school_id, cooldown_until, last_daily_treasure, last_active,
			last_lesson_reward, stats
		 FROM players WHERE id = ?`,
		id,
	).Scan(
		&p.ID, &p.Name, &p.Level, &p.XP, &p.Coins, &p.Fatigue, &p.FatigueImmunityTill,
		&p.BackpackCapacity, &p.BackpackLevel, &inventory, &p.RenameCost, &p.Cosmetic,
		&p.SchoolID, &p.CooldownUntil, &p.LastDailyTreasure, &p.LastActive,
		&p.LastLessonReward, &stats,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("player", id)
		}
		return nil, fmt.Errorf("sqlite: getting player %s: %w", id, err)
	}

	p.Inventory = []model.InventoryItem{}
	if err := decodeJSON(inventory, &p.Inventory); err != nil {
		return nil, err
	}
	if err := decodeJSON(stats, &p.Stats); err != nil {
		return nil, err
	}
	return &p, nil
}
