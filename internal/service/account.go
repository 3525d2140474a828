// Package service holds the business rules between the HTTP handlers and
// the repositories. Services validate input, orchestrate the stores and log
// notable events; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"schoolyard/internal/apperror"
	"schoolyard/internal/auth"
	"schoolyard/internal/avatar"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

// AccountService handles registration, login and account maintenance.
type AccountService struct {
	accounts  repository.AccountRepository
	schools   *SchoolService
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	schools *SchoolService,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		schools:   schools,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult bundles what registration and login both return: the account,
// its provisioned school snapshot and a session token.
type AuthResult struct {
	Account *model.Account
	School  *model.School
	Token   string
}

// Create registers a new account and provisions its school. A missing
// cosmetic gets a uniformly random avatar, not a deterministic one; only
// synthetic actors derive their avatar from their id.
func (s *AccountService) Create(ctx context.Context, name, contact, secret, cosmetic string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if contact == "" {
		return nil, apperror.ValidationFailed("contact", "contact is required")
	}
	if secret == "" {
		return nil, apperror.ValidationFailed("secret", "secret is required")
	}
	if len(secret) > 72 {
		return nil, apperror.ValidationFailed("secret", "secret must be 72 bytes or fewer")
	}
	if cosmetic == "" {
		cosmetic = avatar.Random()
	}

	hash, err := s.passwords.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing secret: %w", err)
	}

	account := &model.Account{
		Name:       name,
		Contact:    contact,
		SecretHash: hash,
		Cosmetic:   cosmetic,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	school, err := s.schools.ProvisionForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for %s: %w", account.ID, err)
	}

	s.logger.Info("account created",
		slog.String("accountId", account.ID),
		slog.String("schoolId", school.ID),
	)
	return &AuthResult{Account: account, School: school, Token: token}, nil
}

// Login verifies the credentials and returns the account with its school
// snapshot and a fresh session token. Both failure halves (unknown contact,
// wrong secret) collapse into the same unauthorized error.
func (s *AccountService) Login(ctx context.Context, contact, secret string) (*AuthResult, error) {
	account, err := s.accounts.GetByContact(ctx, strings.TrimSpace(contact))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid contact or secret")
		}
		return nil, err
	}
	if err := s.passwords.Verify(account.SecretHash, secret); err != nil {
		return nil, apperror.Unauthorized("invalid contact or secret")
	}

	// Provisioning here repairs accounts whose school went missing.
	school, err := s.schools.ProvisionForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing token for %s: %w", account.ID, err)
	}

	s.logger.Info("account authenticated", slog.String("accountId", account.ID))
	return &AuthResult{Account: account, School: school, Token: token}, nil
}

// Get returns the account for the given id.
func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Delete removes the account row only. The school and player document stay
// behind; reconciliation repairs principals and clients clear dangling
// references.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", slog.String("accountId", id))
	return nil
}

// SetCosmetic replaces the account's cosmetic reference.
func (s *AccountService) SetCosmetic(ctx context.Context, id, cosmetic string) error {
	cosmetic = strings.TrimSpace(cosmetic)
	if cosmetic == "" {
		return apperror.ValidationFailed("cosmetic", "cosmetic is required")
	}
	return s.accounts.UpdateCosmetic(ctx, id, cosmetic)
}
