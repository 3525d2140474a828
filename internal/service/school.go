package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"schoolyard/internal/apperror"
	"schoolyard/internal/catalog"
	"schoolyard/internal/model"
	"schoolyard/internal/repository"
)

const schoolIDPrefix = "sch-"

// SchoolIDForAccount derives the one school id an account can own. The
// deterministic id is what makes provisioning idempotent: retries and
// reconciliation both land on the same row.
func SchoolIDForAccount(accountID string) string {
	return schoolIDPrefix + accountID
}

// SchoolService owns the school registry rules: provisioning, principal
// succession and the wholesale replace contract clients use.
type SchoolService struct {
	schools  repository.SchoolRepository
	accounts repository.AccountRepository
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

func NewSchoolService(
	schools repository.SchoolRepository,
	accounts repository.AccountRepository,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *SchoolService {
	return &SchoolService{
		schools:  schools,
		accounts: accounts,
		catalog:  cat,
		logger:   logger,
	}
}

// ProvisionForAccount ensures the account has its school and returns it.
// An existing school is reused; succession is re-evaluated on it when the
// account is a member, so a synthetic principal hands over the seat as soon
// as a real member shows up. A missing school is created with the account as
// sole member and principal, one default class of empty desks and a randomly
// drawn display name.
func (s *SchoolService) ProvisionForAccount(ctx context.Context, account *model.Account) (*model.School, error) {
	if account == nil || account.ID == "" {
		return nil, apperror.ValidationFailed("accountId", "account id is required")
	}

	id := SchoolIDForAccount(account.ID)
	school, err := s.schools.Get(ctx, id)
	if err == nil {
		if school.HasMember(account.ID) {
			if _, err := s.PromoteEligible(ctx, id); err != nil {
				return nil, err
			}
			return s.schools.Get(ctx, id)
		}
		return school, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	school = s.newSchoolFor(account)
	if err := s.schools.Put(ctx, school); err != nil {
		return nil, fmt.Errorf("service/school: provisioning school for account %s: %w", account.ID, err)
	}
	s.logger.Info("school provisioned",
		slog.String("schoolId", school.ID),
		slog.String("accountId", account.ID),
		slog.String("name", school.Name),
	)
	return school, nil
}

func (s *SchoolService) newSchoolFor(account *model.Account) *model.School {
	desks := make([]model.Desk, model.DesksPerClass)
	for i := range desks {
		desks[i] = model.Desk{ID: i}
	}
	return &model.School{
		ID:            SchoolIDForAccount(account.ID),
		Name:          s.catalog.RandomSchoolName(),
		Level:         model.DefaultSchoolLevel,
		PrincipalID:   account.ID,
		PrincipalName: account.Name,
		MemberIDs:     []string{account.ID},
		Members: []model.SchoolMember{{
			ID:         account.ID,
			Name:       account.Name,
			Level:      model.DefaultPlayerLevel,
			Cosmetic:   account.Cosmetic,
			LastActive: time.Now().UnixMilli(),
		}},
		JoinRequests: []model.JoinRequest{},
		Classes: []model.Class{{
			ID:         xid.New().String(),
			Name:       "1-A",
			Desks:      desks,
			Blackboard: []string{},
		}},
		RenameCost: model.DefaultSchoolRenameCost,
	}
}

// PromoteEligible re-evaluates principal succession for one school inside an
// atomic record update. Reports whether a promotion was written.
func (s *SchoolService) PromoteEligible(ctx context.Context, schoolID string) (bool, error) {
	promoted := false
	err := s.schools.Mutate(ctx, schoolID, func(school *model.School) (bool, error) {
		ids := make([]string, 0, len(school.MemberIDs)+1)
		ids = append(ids, school.MemberIDs...)
		if school.PrincipalID != "" {
			ids = append(ids, school.PrincipalID)
		}
		existing, err := s.accounts.FilterExisting(ctx, ids)
		if err != nil {
			return false, err
		}
		promoted = promotePrincipal(school, existing)
		return promoted, nil
	})
	if err != nil {
		return false, fmt.Errorf("service/school: promoting principal for %s: %w", schoolID, err)
	}
	if promoted {
		s.logger.Info("principal promoted", slog.String("schoolId", schoolID))
	}
	return promoted, nil
}

// promotePrincipal applies the succession rule. The seat changes hands only
// when the current principal is a synthetic actor or no longer has an
// account; the successor is the first member in join order that is both
// non-synthetic and backed by a live account. With no eligible member the
// principal stays, synthetic or not.
func promotePrincipal(school *model.School, accounts map[string]*model.Account) bool {
	if !model.IsSyntheticID(school.PrincipalID) && accounts[school.PrincipalID] != nil {
		return false
	}
	for _, id := range school.MemberIDs {
		if model.IsSyntheticID(id) {
			continue
		}
		account := accounts[id]
		if account == nil {
			continue
		}
		school.PrincipalID = account.ID
		school.PrincipalName = account.Name
		return true
	}
	return false
}

// BatchReplace overwrites each stored school with the matching input
// document. Last writer wins; the caller is the authority for membership
// consistency and counters, the store only normalizes defaults.
func (s *SchoolService) BatchReplace(ctx context.Context, schools []model.School) error {
	if err := s.schools.PutAll(ctx, schools); err != nil {
		return fmt.Errorf("service/school: batch replacing %d schools: %w", len(schools), err)
	}
	s.logger.Info("schools batch replaced", slog.Int("count", len(schools)))
	return nil
}

// List returns every school with nested lists decoded.
func (s *SchoolService) List(ctx context.Context) ([]model.School, error) {
	return s.schools.List(ctx)
}

// Delete removes the school. Players still referencing it keep a dangling
// schoolId; clearing that is the clients' job.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if err := s.schools.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("school deleted", slog.String("schoolId", id))
	return nil
}

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	AccountsChecked    int `json:"accountsChecked"`
	SchoolsProvisioned int `json:"schoolsProvisioned"`
	SchoolsChecked     int `json:"schoolsChecked"`
	PrincipalsPromoted int `json:"principalsPromoted"`
}

// Reconcile is the idempotent maintenance pass: every account ends up owning
// exactly one school, and succession is re-evaluated for every school.
// Running it twice in a row changes nothing the second time.
func (s *SchoolService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return report, fmt.Errorf("service/school: reconcile: listing accounts: %w", err)
	}
	report.AccountsChecked = len(accounts)

	for i := range accounts {
		account := &accounts[i]
		_, err := s.schools.Get(ctx, SchoolIDForAccount(account.ID))
		if err == nil {
			continue
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return report, fmt.Errorf("service/school: reconcile: checking school for %s: %w", account.ID, err)
		}
		if err := s.schools.Put(ctx, s.newSchoolFor(account)); err != nil {
			return report, fmt.Errorf("service/school: reconcile: provisioning school for %s: %w", account.ID, err)
		}
		report.SchoolsProvisioned++
	}

	schools, err := s.schools.List(ctx)
	if err != nil {
		return report, fmt.Errorf("service/school: reconcile: listing schools: %w", err)
	}
	report.SchoolsChecked = len(schools)

	for i := range schools {
		promoted, err := s.PromoteEligible(ctx, schools[i].ID)
		if err != nil {
			return report, err
		}
		if promoted {
			report.PrincipalsPromoted++
		}
	}

	s.logger.Info("reconcile finished",
		slog.Int("accountsChecked", report.AccountsChecked),
		slog.Int("schoolsProvisioned", report.SchoolsProvisioned),
		slog.Int("schoolsChecked", report.SchoolsChecked),
		slog.Int("principalsPromoted", report.PrincipalsPromoted),
	)
	return report, nil
}
