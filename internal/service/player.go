package service

import (
	"context"
	"log/slog"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

// PlayerService handles the per-account progress documents. Saves replace
// wholesale; the client owns the simulation, the server just persists it.
type PlayerService struct {
	players repository.PlayerRepository
	logger  *slog.Logger
}

func NewPlayerService(players repository.PlayerRepository, logger *slog.Logger) *PlayerService {
	return &PlayerService{players: players, logger: logger}
}

// Save stores the document under id, overriding whatever id the body
// carried. The store stamps lastActive and fills defaults.
func (s *PlayerService) Save(ctx context.Context, id string, player *model.Player) error {
	if id == "" {
		return apperror.ValidationFailed("id", "player id is required")
	}
	player.ID = id
	if err := s.players.Save(ctx, player); err != nil {
		return err
	}
	s.logger.Debug("player saved", slog.String("playerId", id))
	return nil
}

// Load returns the stored document for id.
func (s *PlayerService) Load(ctx context.Context, id string) (*model.Player, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "player id is required")
	}
	return s.players.Get(ctx, id)
}
