// Package service provides account and media business logic,
// delegating persistence to repositories.
package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/galleryhub/galleryhub/internal/models"
)

// Authentication failures reported to handlers.
var (
	// ErrEmailTaken means an account with the email already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials means the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound means no account matched.
	ErrNotFound = errors.New("user not found")
)

// AccountRepository defines the persistence operations required by the
// authentication service.
type AccountRepository interface {
	// CreateAccount stores a new account record.
	CreateAccount(ctx context.Context, acc models.Account) error
	// AccountByEmail returns the account with the given email, or
	// ErrNotFound.
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	// AccountByID returns the account with the given ID, or ErrNotFound.
	AccountByID(ctx context.Context, id string) (models.Account, error)
	// UpdateAccount replaces the stored record for acc.ID.
	UpdateAccount(ctx context.Context, acc models.Account) error
}

// AuthService implements registration, login, and profile operations.
type AuthService struct {
	repo AccountRepository
	ids  func() string
}

// NewAuthService constructs an AuthService using the provided repository
// and ID generator.
func NewAuthService(repo AccountRepository, ids func() string) *AuthService {
	return &AuthService{repo: repo, ids: ids}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns ErrEmailTaken when the email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.Account, error) {
	if _, err := s.repo.AccountByEmail(ctx, email); err == nil {
		return models.Account{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}

	acc := models.Account{
		ID:           s.ids(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// Authenticate checks the email/password pair and returns the matching
// account. Wrong email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.Account, error) {
	acc, err := s.repo.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Account{}, ErrInvalidCredentials
		}
		return models.Account{}, err
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// Profile returns the account for the given user ID.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.Account, error) {
	return s.repo.AccountByID(ctx, userID)
}

// UpdateProfile changes name and email, and the password when both the
// current and new passwords are supplied. The current password must
// verify against the stored hash.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, email, currentPassword, newPassword string) (models.Account, error) {
	acc, err := s.repo.AccountByID(ctx, userID)
	if err != nil {
		return models.Account{}, err
	}

	if name != "" {
		acc.Name = name
	}
	if email != "" {
		acc.Email = email
	}
	if newPassword != "" {
		if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(currentPassword)) != nil {
			return models.Account{}, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.Account{}, err
		}
		acc.PasswordHash = hash
	}

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// SetProfilePicture records the stored avatar filename on the account.
func (s *AuthService) SetProfilePicture(ctx context.Context, userID, filename string) (models.Account, error) {
	acc, err := s.repo.AccountByID(ctx, userID)
	if err != nil {
		return models.Account{}, err
	}
	acc.ProfilePicture = filename
	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}
