package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ecoscope/siagatani/internal/domain/account"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]account.User
	emailIndex map[string]int64
	phoneIndex map[string]int64
	seq        int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]account.User),
		emailIndex: make(map[string]int64),
		phoneIndex: make(map[string]int64),
	}
}

// Create stores the user record.
func (r *MemoryRepository) Create(_ context.Context, user account.User) (account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.emailIndex[user.Email]; exists {
		return account.User{}, account.ErrEmailExists
	}
	if _, exists := r.phoneIndex[user.Phone]; user.Phone != "" && exists {
		return account.User{}, account.ErrPhoneExists
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user.ID
	if user.Phone != "" {
		r.phoneIndex[user.Phone] = user.ID
	}
	return user, nil
}

// GetByEmail returns a user by email.
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (account.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.emailIndex[email]; ok {
		return r.users[id], true, nil
	}
	return account.User{}, false, nil
}

// GetByPhone returns a user by normalized phone number.
func (r *MemoryRepository) GetByPhone(_ context.Context, phone string) (account.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.phoneIndex[phone]; ok && phone != "" {
		return r.users[id], true, nil
	}
	return account.User{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (account.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

// Update replaces the mutable fields of an existing user.
func (r *MemoryRepository) Update(_ context.Context, user account.User) (account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[user.ID]
	if !ok {
		return account.User{}, errUserNotFound
	}
	if user.Phone != "" && user.Phone != current.Phone {
		if owner, exists := r.phoneIndex[user.Phone]; exists && owner != user.ID {
			return account.User{}, account.ErrPhoneExists
		}
	}
	if current.Phone != "" {
		delete(r.phoneIndex, current.Phone)
	}
	if user.Phone != "" {
		r.phoneIndex[user.Phone] = user.ID
	}
	current.Name = user.Name
	current.Phone = user.Phone
	current.Village = user.Village
	current.District = user.District
	current.Status = user.Status
	current.PasswordHash = user.PasswordHash
	r.users[user.ID] = current
	return current, nil
}

// TouchLogin records the last successful login.
func (r *MemoryRepository) TouchLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errUserNotFound
	}
	at = at.UTC()
	user.LastLoginAt = &at
	r.users[id] = user
	return nil
}

// List returns users matching the filter ordered by ID.
func (r *MemoryRepository) List(_ context.Context, filter account.UserFilter) ([]account.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]account.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.Name), search) && !strings.Contains(user.Email, search) {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ account.Repository = (*MemoryRepository)(nil)
