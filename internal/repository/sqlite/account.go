package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

// compile-time check that *AccountStore implements repository.AccountRepository
var _ repository.AccountRepository = (*AccountStore)(nil)

// AccountStore is the accounts collection.
type AccountStore struct {
	db *DB
}

// Accounts returns the accounts collection backed by this database.
func (db *DB) Accounts() *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts a new account, assigning the id and timestamps.
// The UNIQUE COLLATE NOCASE constraint on contact makes the store the
// authority on contact uniqueness; a violation surfaces as a conflict error.
func (s *AccountStore) Create(ctx context.Context, account *model.Account) error {
	now := time.Now()
	account.ID = xid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO accounts (id, name, contact, secret_hash, cosmetic, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Name,
		account.Contact,
		account.SecretHash,
		account.Cosmetic,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("contact", account.Contact)
		}
		return fmt.Errorf("sqlite: inserting account (contact=%s): %w", account.Contact, err)
	}
	return nil
}

// GetByID retrieves an account by its internal id.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return s.getAccount(ctx, `id = ?`, id)
}

// GetByContact retrieves an account by contact key. The NOCASE collation on
// the column makes the comparison case-insensitive.
func (s *AccountStore) GetByContact(ctx context.Context, contact string) (*model.Account, error) {
	return s.getAccount(ctx, `contact = ?`, contact)
}

func (s *AccountStore) getAccount(ctx context.Context, where string, arg any) (*model.Account, error) {
	var a model.Account
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, contact, secret_hash, cosmetic, created_at, updated_at
		 FROM accounts WHERE `+where,
		arg,
	).Scan(&a.ID, &a.Name, &a.Contact, &a.SecretHash, &a.Cosmetic, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting account: %w", err)
	}
	return &a, nil
}

// UpdateCosmetic replaces the account's cosmetic reference.
func (s *AccountStore) UpdateCosmetic(ctx context.Context, id, cosmetic string) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE accounts SET cosmetic = ?, updated_at = ? WHERE id = ?`,
		cosmetic, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating account cosmetic %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating account cosmetic %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("account", id)
	}
	return nil
}

// Delete removes the account row. Schools and players referencing the id are
// deliberately left untouched; reconciliation repairs principals later.
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("account", id)
	}
	return nil
}

// FilterExisting returns the accounts that exist among ids, keyed by id.
func (s *AccountStore) FilterExisting(ctx context.Context, ids []string) (map[string]*model.Account, error) {
	found := make(map[string]*model.Account, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, contact, secret_hash, cosmetic, created_at, updated_at
		 FROM accounts WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: filtering accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Contact, &a.SecretHash, &a.Cosmetic, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning account: %w", err)
		}
		found[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: filtering accounts: %w", err)
	}
	return found, nil
}

// List returns every account in creation order.
func (s *AccountStore) List(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, contact, secret_hash, cosmetic, created_at, updated_at
		 FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Contact, &a.SecretHash, &a.Cosmetic, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	return accounts, nil
}
