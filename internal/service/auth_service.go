package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/auth"
	"github.com/remservice/motor-backoffice/internal/model"
)

type UserRepo interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type AuthService struct {
	users  UserRepo
	issuer *auth.Issuer
}

func NewAuthService(users UserRepo, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

type AuthResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
	})
	if err != nil {
		return nil, err
	}
	return s.result(*user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrPermissionDenied
	}
	return s.result(*user)
}

func (s *AuthService) Refresh(ctx context.Context, principal model.Principal) (*AuthResult, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	return s.result(*user)
}

func (s *AuthService) result(user model.User) (*AuthResult, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Email: user.Email, Name: user.FullName}, nil
}
