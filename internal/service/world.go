package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"schoolyard/internal/apperror"
	"schoolyard/internal/catalog"
	"schoolyard/internal/model"
	"schoolyard/internal/moderation"
	"schoolyard/internal/repository"
)

const graffitiMaxRunes = 20

// WorldService fronts the world-state singleton and the graffiti wall.
type WorldService struct {
	world   repository.WorldRepository
	filter  *moderation.Filter
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewWorldService(
	world repository.WorldRepository,
	filter *moderation.Filter,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *WorldService {
	return &WorldService{
		world:   world,
		filter:  filter,
		catalog: cat,
		logger:  logger,
	}
}

// Get returns the shared world state.
func (s *WorldService) Get(ctx context.Context) (*model.WorldState, error) {
	return s.world.Get(ctx)
}

// Replace overwrites the whole singleton. Last writer wins.
func (s *WorldService) Replace(ctx context.Context, state *model.WorldState) error {
	if err := s.world.Replace(ctx, state); err != nil {
		return err
	}
	s.logger.Debug("world state replaced",
		slog.Int("markers", len(state.Markers)),
		slog.Int("graffiti", len(state.Graffiti)),
	)
	return nil
}

// AddGraffiti validates and moderates the text, synthesizes placement and
// appends the entry to the wall. The trimmed text must be 1 to 20 runes; a
// blank author becomes the anonymous label.
func (s *WorldService) AddGraffiti(ctx context.Context, author, text string) (*model.GraffitiEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if utf8.RuneCountInString(text) > graffitiMaxRunes {
		return nil, apperror.ValidationFailed("text", "text must be 20 characters or fewer")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = s.catalog.AnonymousAuthor
	}

	now := time.Now()
	entry := &model.GraffitiEntry{
		ID:        fmt.Sprintf("%d-%04d", now.UnixMilli(), rand.IntN(10000)),
		Author:    author,
		Text:      s.filter.Apply(text),
		X:         10 + rand.Float64()*70,
		Y:         10 + rand.Float64()*60,
		Rotation:  graffitiRotation(),
		Color:     s.catalog.RandomGraffitiColor(),
		CreatedAt: now.UnixMilli(),
	}
	if err := s.world.AppendGraffiti(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("graffiti added",
		slog.String("id", entry.ID),
		slog.String("author", entry.Author),
	)
	return entry, nil
}

// graffitiRotation draws a magnitude in [5,20) degrees with a random sign,
// so accepted entries never sit near-horizontal.
func graffitiRotation() float64 {
	m := 5 + rand.Float64()*15
	if rand.IntN(2) == 0 {
		return -m
	}
	return m
}
