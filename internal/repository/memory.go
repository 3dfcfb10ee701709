package repository

import (
	"context"
	"sync"

	"go-auth-service/internal/model"
)

// MemoryUserRepository keeps users in a map. It backs the service and
// handler tests and mirrors the behavior of UserRepository, including the
// duplicate-email error on insert.
type MemoryUserRepository struct {
	mu           sync.RWMutex
	usersByID    map[string]model.User
	usersByEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		usersByID:    map[string]model.User{},
		usersByEmail: map[string]string{},
	}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByEmail[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return r.usersByID[id], nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByEmail[u.Email]; exists {
		return model.ErrEmailAlreadyRegistered
	}

	r.usersByID[u.ID] = u
	r.usersByEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) UpdateRefreshToken(_ context.Context, userID string, refreshToken *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.usersByID[userID]
	if !ok {
		return model.ErrUserNotFound
	}

	if refreshToken == nil {
		user.RefreshToken = nil
	} else {
		value := *refreshToken
		user.RefreshToken = &value
	}

	r.usersByID[userID] = user
	return nil
}
