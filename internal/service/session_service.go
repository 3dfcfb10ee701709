package service

import (
	"context"
	"strings"

	"go-auth-service/internal/model"
	"go-auth-service/internal/token"
)

// UserStore is the durable record of accounts. The refresh token column is
// owned by the session layer: overwritten on every login/refresh, nulled on
// logout.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.User) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshToken *string) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
}

// Session is one issued access/refresh pair together with the user it
// belongs to. The refresh token is meant for the HttpOnly cookie only.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         model.User
}

type SessionService struct {
	store  UserStore
	hasher PasswordHasher
	issuer *token.Issuer
}

func NewSessionService(store UserStore, hasher PasswordHasher, issuer *token.Issuer) *SessionService {
	return &SessionService{store: store, hasher: hasher, issuer: issuer}
}

// Login checks the credentials and issues a fresh token pair, overwriting
// any refresh token stored from an earlier session.
func (s *SessionService) Login(ctx context.Context, email string, password string) (Session, error) {
	user, err := s.store.FindByEmail(ctx, foldEmail(email))
	if err != nil {
		return Session{}, err
	}

	if !s.hasher.Verify(password, user.PasswordDigest) {
		return Session{}, model.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Refresh rotates the token pair for a user whose refresh cookie already
// passed signature verification upstream. The presented value is not
// compared against the stored one; a rotated-but-unexpired token therefore
// keeps working until the next rotation overwrites it.
func (s *SessionService) Refresh(ctx context.Context, userID string) (Session, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}

	if user.RefreshToken == nil {
		return Session{}, model.ErrNoActiveSession
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the stored refresh token. Calling it for an already
// logged-out user is not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	return s.store.UpdateRefreshToken(ctx, userID, nil)
}

func (s *SessionService) issueSession(ctx context.Context, user model.User) (Session, error) {
	accessToken, err := s.issuer.SignAccess(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}

	refreshToken, err := s.issuer.SignRefresh(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}

	// The store write must land before the session is returned so a client
	// retrying in parallel observes the rotated value.
	if err := s.store.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return Session{}, err
	}

	user.RefreshToken = &refreshToken
	return Session{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
