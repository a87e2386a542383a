package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering-api/apperr"
	"restaurant-ordering-api/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

type AuthService struct {
	users UserStore
	cost  int
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

var errBadCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, apperr.Invalid("username, email and password are required")
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email %w", apperr.ErrDuplicate)
	}
	if taken, err = s.users.UsernameTaken(ctx, username); err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username %w", apperr.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks the credentials. Unknown email and wrong password
// produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
