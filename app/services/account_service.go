package services

import (
	"context"
	"errors"
	"fmt"

	"blog/app/models"
	"blog/app/repositories"
	"blog/app/security"
)

// AccountService registers users and checks their credentials
type AccountService struct {
	users  repositories.UserRepository
	hasher security.Hasher
}

// NewAccountService creates a new AccountService
func NewAccountService(users repositories.UserRepository, hasher security.Hasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// Register creates an account. The email is stored trimmed and lower-cased and
// the password only as a salted hash.
func (s *AccountService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Normalize()
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, models.ErrDuplicateEmail
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: in.Email, Password: hash, Name: in.Name}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user owning in.Email if the password matches.
// Incomplete input, unknown emails and wrong passwords all yield
// models.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, in models.LoginInput) (*models.User, error) {
	in.Normalize()
	if err := models.Validate(in); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// CountUsers reports how many accounts exist.
func (s *AccountService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
