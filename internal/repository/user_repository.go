package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remservice/motor-backoffice/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	var saved model.User
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO users (email, password_hash, full_name)
		VALUES (?, ?, ?)
		RETURNING id, email, password_hash, full_name, created_at
	`, strings.ToLower(user.Email), user.PasswordHash, user.FullName).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, email, password_hash, full_name, created_at
		FROM users
		WHERE LOWER(email) = LOWER(?)
		LIMIT 1
	`, email).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, email, password_hash, full_name, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}
