package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// fakeUserRepo is an in-memory UserRepository mirroring the transactional
// semantics of the Postgres implementation.
type fakeUserRepo struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*entity.User // by id
	budgets *fakeBudgetRepo         // register also creates a budget
	now     func() time.Time

	failCreate error // injected fault
}

func newFakeUserRepo(b *fakeBudgetRepo) *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[string]*entity.User{},
		budgets: b,
		now:     time.Now,
	}
}

func (f *fakeUserRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("user-%d", f.seq)
}

func (f *fakeUserRepo) CreateWithDefaultBudget(ctx context.Context, u *entity.User, budgetName string) (*entity.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID()
	u.CreatedAt = f.now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp

	b := &entity.Budget{
		UserID:    u.ID,
		Name:      budgetName,
		Currency:  entity.DefaultCurrency,
		IsDefault: true,
	}
	if f.budgets != nil {
		f.budgets.insert(b)
	}
	return b, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id, token string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExp = &exp
	return nil
}

func (f *fakeUserRepo) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.ResetToken == nil || *u.ResetToken != token ||
		u.ResetTokenExp == nil || !u.ResetTokenExp.After(f.now()) {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExp = nil
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeBudgetRepo is an in-memory BudgetRepository mirroring the invariants the
// Postgres implementation enforces transactionally.
type fakeBudgetRepo struct {
	mu      sync.Mutex
	seq     int
	rows    []*entity.Budget
	clock   time.Time
	failAll error // injected fault for every method
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// tick keeps created_at strictly increasing so recency ordering is stable.
func (f *fakeBudgetRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeBudgetRepo) insert(b *entity.Budget) {
	f.seq++
	b.ID = fmt.Sprintf("budget-%d", f.seq)
	b.CreatedAt = f.tick()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.rows = append(f.rows, &cp)
}

func (f *fakeBudgetRepo) ListByUser(ctx context.Context, userID string) ([]entity.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]entity.Budget, 0)
	for _, b := range f.rows {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBudgetRepo) GetByID(ctx context.Context, userID, id string) (*entity.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, b := range f.rows {
		if b.ID == id && b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBudgetRepo) GetDefault(ctx context.Context, userID string) (*entity.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, b := range f.rows {
		if b.UserID == userID && b.IsDefault {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBudgetRepo) GetLatest(ctx context.Context, userID string) (*entity.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	var latest *entity.Budget
	for _, b := range f.rows {
		if b.UserID != userID {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeBudgetRepo) Create(ctx context.Context, b *entity.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	if b.Currency == "" {
		b.Currency = entity.DefaultCurrency
	}
	if b.IsDefault {
		f.clearDefaultLocked(b.UserID, "")
	}
	f.insert(b)
	return nil
}

func (f *fakeBudgetRepo) Update(ctx context.Context, b *entity.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	for _, row := range f.rows {
		if row.ID == b.ID && row.UserID == b.UserID {
			if b.IsDefault {
				f.clearDefaultLocked(b.UserID, b.ID)
			}
			row.Name = b.Name
			row.Currency = b.Currency
			row.IsDefault = b.IsDefault
			row.UpdatedAt = f.tick()
			b.UpdatedAt = row.UpdatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBudgetRepo) DeleteAndPromote(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	idx := -1
	count := 0
	for i, b := range f.rows {
		if b.UserID == userID {
			count++
			if b.ID == id {
				idx = i
			}
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}
	if count <= 1 {
		return repository.ErrLastBudget
	}
	wasDefault := f.rows[idx].IsDefault
	f.rows = append(f.rows[:idx], f.rows[idx+1:]...)
	if wasDefault {
		var latest *entity.Budget
		for _, b := range f.rows {
			if b.UserID != userID {
				continue
			}
			if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
				latest = b
			}
		}
		if latest != nil {
			latest.IsDefault = true
		}
	}
	return nil
}

func (f *fakeBudgetRepo) clearDefaultLocked(userID, excludeID string) {
	for _, b := range f.rows {
		if b.UserID == userID && b.IsDefault && b.ID != excludeID {
			b.IsDefault = false
		}
	}
}

func (f *fakeBudgetRepo) defaultCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.rows {
		if b.UserID == userID && b.IsDefault {
			n++
		}
	}
	return n
}

var _ repository.BudgetRepository = (*fakeBudgetRepo)(nil)
