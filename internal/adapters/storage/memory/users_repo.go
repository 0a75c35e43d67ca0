package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"medical-office/internal/domain/identity"
)

var (
	ErrNotFound = errors.New("not found")
)

type usersRepo struct {
	mu      sync.RWMutex
	byID    map[string]identity.User
	byEmail map[string]string // email -> id
}

func NewUsersRepo() *usersRepo {
	return &usersRepo{
		byID:    make(map[string]identity.User),
		byEmail: make(map[string]string),
	}
}

func (r *usersRepo) Create(ctx context.Context, u identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	email := strings.ToLower(u.Email)
	if _, exists := r.byEmail[email]; exists {
		return errors.New("email already registered")
	}

	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return identity.User{}, ErrNotFound
	}
	return r.byID[id], nil
}

// CountDoctors cuenta identidades con rol admin o doctor (global, sin scope).
func (r *usersRepo) CountDoctors(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.byID {
		if u.Role == identity.RoleAdmin || u.Role == identity.RoleDoctor {
			n++
		}
	}
	return n, nil
}
