package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/telemetry"
)

var (
	// ErrForbidden is returned when the acting user is not the target user.
	ErrForbidden = errors.New("operation not permitted for this user")
	// ErrInvalidCredentials is returned on login with a wrong username or
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrNoFields is returned when an update carries nothing to change.
	ErrNoFields = errors.New("no data to update")
)

// ResumePurger removes all resumes owned by a user. The Postgres schema
// cascades via FK; the in-memory repositories rely on this hook.
type ResumePurger interface {
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// Service contains business logic for user accounts and login.
type Service struct {
	Repo   Repo
	Tokens *auth.Tokens
	Purger ResumePurger
}

// NewService constructs a Service.
func NewService(repo Repo, tokens *auth.Tokens) *Service {
	return &Service{Repo: repo, Tokens: tokens}
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	user.UpdatedAt = user.CreatedAt
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": user.ID})
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(user.ID, 0)
	if err != nil {
		return "", err
	}
	telemetry.Info("user.login", map[string]any{"user_id": user.ID})
	return token, nil
}

// Get returns the user with the given id, owner-only.
func (s *Service) Get(ctx context.Context, actingUserID, id string) (User, error) {
	if actingUserID != id {
		return User{}, ErrForbidden
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all users. The documented API leaves this unauthenticated and
// unfiltered.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Update applies a partial update, owner-only.
func (s *Service) Update(ctx context.Context, actingUserID, id string, upd Update) (User, error) {
	if actingUserID != id {
		return User{}, ErrForbidden
	}
	if upd.Username == nil && upd.Email == nil {
		return User{}, ErrNoFields
	}
	return s.Repo.Update(ctx, id, upd)
}

// Delete removes the user and their resumes, owner-only.
func (s *Service) Delete(ctx context.Context, actingUserID, id string) error {
	if actingUserID != id {
		return ErrForbidden
	}
	if s.Purger != nil {
		if err := s.Purger.DeleteByOwner(ctx, id); err != nil {
			return err
		}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("user.deleted", map[string]any{"user_id": id})
	return nil
}
