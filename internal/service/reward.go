package service

import (
	"context"
	"log/slog"
	"strings"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

// RewardService fronts the asynchronous cross-player mailbox.
type RewardService struct {
	rewards repository.RewardRepository
	logger  *slog.Logger
}

func NewRewardService(rewards repository.RewardRepository, logger *slog.Logger) *RewardService {
	return &RewardService{rewards: rewards, logger: logger}
}

// Enqueue records one pending reward for playerID. Retried submissions
// insert twice and pay out twice; only a missing player id is rejected.
func (s *RewardService) Enqueue(ctx context.Context, playerID string, xp, coins int, reason string) (*model.PendingReward, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, apperror.ValidationFailed("playerId", "player id is required")
	}

	reward := &model.PendingReward{
		PlayerID: playerID,
		XP:       xp,
		Coins:    coins,
		Reason:   reason,
	}
	if err := s.rewards.Enqueue(ctx, reward); err != nil {
		return nil, err
	}
	s.logger.Info("reward enqueued",
		slog.String("playerId", playerID),
		slog.Int("xp", xp),
		slog.Int("coins", coins),
	)
	return reward, nil
}

// Claim drains the player's mailbox and returns the summed rewards.
func (s *RewardService) Claim(ctx context.Context, playerID string) (model.ClaimResult, error) {
	result, err := s.rewards.ClaimAll(ctx, playerID)
	if err != nil {
		return model.ClaimResult{}, err
	}
	if result.Count > 0 {
		s.logger.Info("rewards claimed",
			slog.String("playerId", playerID),
			slog.Int("count", result.Count),
			slog.Int("xp", result.XP),
			slog.Int("coins", result.Coins),
		)
	}
	return result, nil
}
