package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAccountRepo is an in-memory AccountRepository.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*model.Account{}}
}

// seed inserts an account with a fixed id, bypassing Create's id assignment.
func (f *fakeAccountRepo) seed(id, name string) *model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &model.Account{ID: id, Name: name, Contact: id + "@example.com"}
	f.accounts[id] = a
	return a
}

func (f *fakeAccountRepo) Create(_ context.Context, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.Contact, account.Contact) {
			return apperror.Conflict("contact", account.Contact)
		}
	}
	f.nextID++
	account.ID = fmt.Sprintf("acc-%d", f.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, apperror.NotFound("account", id)
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByContact(_ context.Context, contact string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.Contact, contact) {
			return a, nil
		}
	}
	return nil, apperror.NotFound("account", contact)
}

func (f *fakeAccountRepo) UpdateCosmetic(_ context.Context, id, cosmetic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return apperror.NotFound("account", id)
	}
	a.Cosmetic = cosmetic
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return apperror.NotFound("account", id)
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) FilterExisting(_ context.Context, ids []string) (map[string]*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := map[string]*model.Account{}
	for _, id := range ids {
		if a, ok := f.accounts[id]; ok {
			found[id] = a
		}
	}
	return found, nil
}

func (f *fakeAccountRepo) List(_ context.Context) ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []model.Account{}
	for _, a := range f.accounts {
		all = append(all, *a)
	}
	return all, nil
}

// fakeSchoolRepo is an in-memory SchoolRepository. Mutate applies fn under
// the lock, so the fake gives the same no-lost-update guarantee as sqlite.
type fakeSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*model.School
	order   []string
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: map[string]*model.School{}}
}

func (f *fakeSchoolRepo) put(school *model.School) {
	school.ApplyDefaults()
	if _, ok := f.schools[school.ID]; !ok {
		f.order = append(f.order, school.ID)
	}
	copied := *school
	f.schools[school.ID] = &copied
}

func (f *fakeSchoolRepo) Get(_ context.Context, id string) (*model.School, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schools[id]
	if !ok {
		return nil, apperror.NotFound("school", id)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSchoolRepo) Put(_ context.Context, school *model.School) error {
	if school.ID == "" {
		return apperror.ValidationFailed("id", "school id is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(school)
	return nil
}

func (f *fakeSchoolRepo) PutAll(_ context.Context, schools []model.School) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range schools {
		if schools[i].ID == "" {
			return apperror.ValidationFailed("id", "school id is required")
		}
		f.put(&schools[i])
	}
	return nil
}

func (f *fakeSchoolRepo) List(_ context.Context) ([]model.School, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]model.School, 0, len(f.order))
	for _, id := range f.order {
		if s, ok := f.schools[id]; ok {
			all = append(all, *s)
		}
	}
	return all, nil
}

func (f *fakeSchoolRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schools[id]; !ok {
		return apperror.NotFound("school", id)
	}
	delete(f.schools, id)
	return nil
}

func (f *fakeSchoolRepo) Mutate(_ context.Context, id string, fn func(*model.School) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schools[id]
	if !ok {
		return apperror.NotFound("school", id)
	}
	copied := *s
	changed, err := fn(&copied)
	if err != nil {
		return err
	}
	if changed {
		f.put(&copied)
	}
	return nil
}

// fakePlayerRepo is an in-memory PlayerRepository.
type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]*model.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: map[string]*model.Player{}}
}

func (f *fakePlayerRepo) Save(_ context.Context, player *model.Player) error {
	if player.ID == "" {
		return apperror.ValidationFailed("id", "player id is required")
	}
	player.ApplyDefaults()
	player.LastActive = time.Now().UnixMilli()
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *player
	f.players[player.ID] = &copied
	return nil
}

func (f *fakePlayerRepo) Get(_ context.Context, id string) (*model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return nil, apperror.NotFound("player", id)
	}
	copied := *p
	return &copied, nil
}

// fakeRewardRepo is an in-memory RewardRepository.
type fakeRewardRepo struct {
	mu      sync.Mutex
	pending []model.PendingReward
	nextID  int
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{}
}

func (f *fakeRewardRepo) Enqueue(_ context.Context, reward *model.PendingReward) error {
	if reward.PlayerID == "" {
		return apperror.ValidationFailed("playerId", "player id is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	reward.ID = fmt.Sprintf("rw-%d", f.nextID)
	reward.CreatedAt = time.Now()
	f.pending = append(f.pending, *reward)
	return nil
}

func (f *fakeRewardRepo) ClaimAll(_ context.Context, playerID string) (model.ClaimResult, error) {
	if playerID == "" {
		return model.ClaimResult{}, apperror.ValidationFailed("playerId", "player id is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var result model.ClaimResult
	kept := f.pending[:0]
	for _, r := range f.pending {
		if r.PlayerID == playerID {
			result.XP += r.XP
			result.Coins += r.Coins
			result.Count++
			continue
		}
		kept = append(kept, r)
	}
	f.pending = kept
	return result, nil
}

// fakeWorldRepo is an in-memory WorldRepository.
type fakeWorldRepo struct {
	mu    sync.Mutex
	state *model.WorldState
}

func newFakeWorldRepo() *fakeWorldRepo {
	return &fakeWorldRepo{state: &model.WorldState{
		Markers:          []model.Marker{},
		Log:              []string{},
		Graffiti:         []model.GraffitiEntry{},
		LessonCycleStart: time.Now().UnixMilli(),
	}}
}

func (f *fakeWorldRepo) Get(_ context.Context) (*model.WorldState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *f.state
	return &copied, nil
}

func (f *fakeWorldRepo) Replace(_ context.Context, state *model.WorldState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *state
	f.state = &copied
	return nil
}

func (f *fakeWorldRepo) AppendGraffiti(_ context.Context, entry *model.GraffitiEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Graffiti = append(f.state.Graffiti, *entry)
	return nil
}
