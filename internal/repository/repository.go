// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; tests substitute fakes.
package repository

import (
	"context"

	"schoolyard/internal/model"
)

type AccountRepository interface {
	// Create inserts a new account. Returns apperror.ErrConflict when the
	// contact key is already registered (case-insensitively).
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	// GetByContact looks the account up by its contact key, case-insensitively.
	GetByContact(ctx context.Context, contact string) (*model.Account, error)
	UpdateCosmetic(ctx context.Context, id, cosmetic string) error
	// Delete removes the account row only; schools and players referencing
	// the id are left untouched.
	Delete(ctx context.Context, id string) error
	// FilterExisting returns the subset of ids that have an account row,
	// keyed by id. Used by principal succession.
	FilterExisting(ctx context.Context, ids []string) (map[string]*model.Account, error)
	// List returns every account. Used by the reconciliation pass.
	List(ctx context.Context) ([]model.Account, error)
}

type SchoolRepository interface {
	Get(ctx context.Context, id string) (*model.School, error)
	// Put fully replaces the stored document with the given one, creating it
	// if absent. Last writer wins; no concurrency check.
	Put(ctx context.Context, school *model.School) error
	// PutAll applies Put to every school in the batch.
	PutAll(ctx context.Context, schools []model.School) error
	List(ctx context.Context) ([]model.School, error)
	Delete(ctx context.Context, id string) error
	// Mutate runs fn against the decoded document inside one transaction and
	// writes the result back only when fn returns true. This is the
	// read-then-write path for succession: concurrent mutators cannot lose
	// each other's updates.
	Mutate(ctx context.Context, id string, fn func(*model.School) (bool, error)) error
}

type PlayerRepository interface {
	// Save fully replaces the player document and stamps LastActive with the
	// current time, overriding any submitted value.
	Save(ctx context.Context, player *model.Player) error
	Get(ctx context.Context, id string) (*model.Player, error)
}

type RewardRepository interface {
	// Enqueue inserts one pending reward. Never deduplicates.
	Enqueue(ctx context.Context, reward *model.PendingReward) error
	// ClaimAll atomically sums and deletes every pending reward for the
	// player. A reward inserted during a claim is either fully included or
	// left for the next claim, never dropped or double-counted.
	ClaimAll(ctx context.Context, playerID string) (model.ClaimResult, error)
}

type WorldRepository interface {
	// Get returns the singleton, synthesizing defaults if the row is absent.
	Get(ctx context.Context) (*model.WorldState, error)
	// Replace overwrites every field of the singleton.
	Replace(ctx context.Context, state *model.WorldState) error
	// AppendGraffiti appends one entry to the stored wall inside a
	// transaction, so concurrent submissions never clobber each other.
	AppendGraffiti(ctx context.Context, entry *model.GraffitiEntry) error
}
