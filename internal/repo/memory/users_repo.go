package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aadeshp/coursehub/internal/domain/user"
)

// UsersRepo is the in-memory counterpart of the mongo users repo, used
// by unit tests and store-free local runs.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = user.NormalizeEmail(u.Email)

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.User{}, user.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()

	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	email = user.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Phone == phone {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// Count reports the number of stored users. Test helper.
func (r *UsersRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
