// Package user handles accounts: registration, login and the profile
// settings that feed the memory system.
package user

import (
	"context"
	"errors"
	"fmt"

	"Aria_AI/internal/models"

	"gorm.io/gorm"
)

// Store abstracts user persistence so the service can be tested
// without a live MySQL.
type Store interface {
	Create(ctx context.Context, user *models.User) error

	// GetByEmail returns (nil, nil) when no account uses the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns (nil, nil) when the account does not exist.
	GetByID(ctx context.Context, id uint) (*models.User, error)

	Update(ctx context.Context, user *models.User) error
}

// GormStore is the MySQL implementation of Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore and migrates the users table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Create inserts the account.
func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail looks an account up by email.
func (s *GormStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetByID looks an account up by primary key.
func (s *GormStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Update saves the full account record.
func (s *GormStore) Update(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

var _ Store = (*GormStore)(nil)
