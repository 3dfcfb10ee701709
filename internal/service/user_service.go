package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-auth-service/internal/model"
)

type UserService struct {
	store  UserStore
	hasher PasswordHasher
}

func NewUserService(store UserStore, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher}
}

// Create registers a new account. The email is stored case-folded so lookups
// are case-insensitive; duplicates surface as ErrEmailAlreadyRegistered.
func (s *UserService) Create(ctx context.Context, name string, email string, password string) (model.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          foldEmail(email),
		PasswordDigest: digest,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (model.User, error) {
	return s.store.FindByID(ctx, userID)
}
