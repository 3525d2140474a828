package sqlite

import (
	"context"
	"errors"
	"testing"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
)

// newTestDB creates a fresh in-memory database for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestAccount(t *testing.T, db *AccountStore, name, contact string) *model.Account {
	t.Helper()
	account := &model.Account{
		Name:       name,
		Contact:    contact,
		SecretHash: "$2a$04$fakehashfortesting",
		Cosmetic:   "avatar_007",
	}
	if err := db.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

func TestAccountCreate(t *testing.T) {
	db := newTestDB(t).Accounts()

	account := createTestAccount(t, db, "Kiyo", "kiyo@example.com")
	if account.ID == "" {
		t.Error("Create() did not set account.ID")
	}
	if account.CreatedAt.IsZero() {
		t.Error("Create() did not set account.CreatedAt")
	}

	found, err := db.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Contact != "kiyo@example.com" {
		t.Errorf("Contact = %q, want %q", found.Contact, "kiyo@example.com")
	}
}

func TestAccountCreate_DuplicateContact(t *testing.T) {
	db := newTestDB(t).Accounts()
	createTestAccount(t, db, "First", "same@example.com")

	dup := &model.Account{Name: "Second", Contact: "same@example.com", SecretHash: "h"}
	err := db.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() duplicate contact error = %v, want ErrConflict", err)
	}
}

func TestAccountCreate_DuplicateContactCaseInsensitive(t *testing.T) {
	db := newTestDB(t).Accounts()
	createTestAccount(t, db, "First", "Same@Example.com")

	dup := &model.Account{Name: "Second", Contact: "same@example.COM", SecretHash: "h"}
	err := db.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() case-variant contact error = %v, want ErrConflict", err)
	}
}

func TestAccountGetByContact_CaseInsensitive(t *testing.T) {
	db := newTestDB(t).Accounts()
	created := createTestAccount(t, db, "Kiyo", "Kiyo@Example.com")

	found, err := db.GetByContact(context.Background(), "kiyo@example.COM")
	if err != nil {
		t.Fatalf("GetByContact() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestAccountGetByID_NotFound(t *testing.T) {
	db := newTestDB(t).Accounts()

	_, err := db.GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAccountUpdateCosmetic(t *testing.T) {
	db := newTestDB(t).Accounts()
	account := createTestAccount(t, db, "Kiyo", "kiyo@example.com")

	if err := db.UpdateCosmetic(context.Background(), account.ID, "avatar_123"); err != nil {
		t.Fatalf("UpdateCosmetic() error = %v", err)
	}
	found, err := db.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Cosmetic != "avatar_123" {
		t.Errorf("Cosmetic = %q, want %q", found.Cosmetic, "avatar_123")
	}
}

func TestAccountUpdateCosmetic_NotFound(t *testing.T) {
	db := newTestDB(t).Accounts()

	err := db.UpdateCosmetic(context.Background(), "nope", "avatar_001")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateCosmetic() error = %v, want ErrNotFound", err)
	}
}

func TestAccountDelete(t *testing.T) {
	db := newTestDB(t).Accounts()
	account := createTestAccount(t, db, "Gone", "gone@example.com")

	if err := db.Delete(context.Background(), account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err := db.GetByID(context.Background(), account.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestAccountDelete_NotFound(t *testing.T) {
	db := newTestDB(t).Accounts()

	err := db.Delete(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFilterExisting(t *testing.T) {
	db := newTestDB(t).Accounts()
	a := createTestAccount(t, db, "A", "a@example.com")
	b := createTestAccount(t, db, "B", "b@example.com")

	found, err := db.FilterExisting(context.Background(),
		[]string{a.ID, "npc-whatever", b.ID, "missing"})
	if err != nil {
		t.Fatalf("FilterExisting() error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("FilterExisting() returned %d accounts, want 2", len(found))
	}
	if found[a.ID] == nil || found[a.ID].Name != "A" {
		t.Errorf("account %s missing or wrong from result", a.ID)
	}
	if found[b.ID] == nil || found[b.ID].Name != "B" {
		t.Errorf("account %s missing or wrong from result", b.ID)
	}
}

func TestFilterExisting_EmptyInput(t *testing.T) {
	db := newTestDB(t).Accounts()

	found, err := db.FilterExisting(context.Background(), nil)
	if err != nil {
		t.Fatalf("FilterExisting() error = %v", err)
	}
	if len(found) != 0 {
		t.Errorf("FilterExisting(nil) returned %d accounts, want 0", len(found))
	}
}
