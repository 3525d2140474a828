package service

import (
	"context"
	"errors"
	"testing"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
)

func TestPlayerSave_PathIDWins(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepo(), testLogger())
	ctx := context.Background()

	// The body claims another id; the path id is authoritative.
	doc := &model.Player{ID: "spoofed", Name: "Kiyo", Coins: 50}
	if err := svc.Save(ctx, "p1", doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := svc.Load(ctx, "p1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found.Name != "Kiyo" || found.Coins != 50 {
		t.Errorf("document not stored under path id: %+v", found)
	}
	if _, err := svc.Load(ctx, "spoofed"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Load(spoofed) error = %v, want ErrNotFound", err)
	}
}

func TestPlayerSave_RequiresID(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepo(), testLogger())

	err := svc.Save(context.Background(), "", &model.Player{Name: "Kiyo"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Save() without id error = %v, want ErrValidation", err)
	}
}

func TestPlayerLoad_NotFound(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepo(), testLogger())

	_, err := svc.Load(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
