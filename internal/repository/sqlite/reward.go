package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

var _ repository.RewardRepository = (*RewardStore)(nil)

// RewardStore is the pending-rewards mailbox.
type RewardStore struct {
	db *DB
}

// Rewards returns the reward mailbox backed by this database.
func (db *DB) Rewards() *RewardStore {
	return &RewardStore{db: db}
}

// Enqueue inserts one pending reward. There is no deduplication: a retried
// or concurrent submission of the same gameplay event creates a second row,
// and both rows get claimed.
func (s *RewardStore) Enqueue(ctx context.Context, reward *model.PendingReward) error {
	if reward.PlayerID == "" {
		return apperror.ValidationFailed("playerId", "player id is required")
	}
	reward.ID = xid.New().String()
	reward.CreatedAt = time.Now()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO pending_rewards (id, player_id, xp, coins, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reward.ID, reward.PlayerID, reward.XP, reward.Coins, reward.Reason, reward.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: enqueueing reward for %s: %w", reward.PlayerID, err)
	}
	return nil
}

// ClaimAll reads every pending reward for the player, sums xp and coins,
// deletes exactly the rows summed and returns the aggregate.
//
// The read-sum-delete sequence runs in one transaction, and the delete is
// scoped to the ids that were summed. If the deleted row count differs from
// the summed row count (another claim raced us), the transaction rolls back
// and the whole claim retries, so a reward enqueued mid-claim is either
// fully included or left intact for the next claim.
func (s *RewardStore) ClaimAll(ctx context.Context, playerID string) (model.ClaimResult, error) {
	if playerID == "" {
		return model.ClaimResult{}, apperror.ValidationFailed("playerId", "player id is required")
	}

	const maxAttempts = 5
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, done, err := s.claimOnce(ctx, playerID)
		if err != nil {
			lastErr = err
			continue
		}
		if done {
			return result, nil
		}
		lastErr = fmt.Errorf("sqlite: claim raced another claim for %s", playerID)
	}
	return model.ClaimResult{}, fmt.Errorf("sqlite: claiming rewards for %s: %w", playerID, lastErr)
}

// claimOnce performs a single transactional claim attempt. done=false with a
// nil error means a concurrent claim consumed some of the summed rows and
// the attempt was rolled back.
func (s *RewardStore) claimOnce(ctx context.Context, playerID string) (model.ClaimResult, bool, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, xp, coins FROM pending_rewards WHERE player_id = ?`, playerID)
	if err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("selecting rewards: %w", err)
	}

	var (
		result model.ClaimResult
		ids    []string
	)
	for rows.Next() {
		var (
			id        string
			xp, coins int
		)
		if err := rows.Scan(&id, &xp, &coins); err != nil {
			rows.Close()
			return model.ClaimResult{}, false, fmt.Errorf("scanning reward: %w", err)
		}
		result.XP += xp
		result.Coins += coins
		result.Count++
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("reading rewards: %w", err)
	}

	if len(ids) == 0 {
		if err := tx.Commit(); err != nil {
			return model.ClaimResult{}, false, fmt.Errorf("commit: %w", err)
		}
		return model.ClaimResult{}, true, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, 0, len(ids)+1)
	args = append(args, playerID)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM pending_rewards WHERE player_id = ? AND id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("deleting rewards: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("deleting rewards: %w", err)
	}
	if deleted != int64(len(ids)) {
		// Another claim got part of the set; roll back so nothing is lost.
		return model.ClaimResult{}, false, nil
	}

	if err := tx.Commit(); err != nil {
		return model.ClaimResult{}, false, fmt.Errorf("commit: %w", err)
	}
	return result, true, nil
}
