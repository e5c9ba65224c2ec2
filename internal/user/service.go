package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the email or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken rejects a registration with an already used email.
var ErrEmailTaken = errors.New("email is already registered")

// CoreFactSyncer mirrors profile fields into the fact store. An empty
// content clears the mirrored fact.
type CoreFactSyncer interface {
	SyncCoreFact(ctx context.Context, userID, field, content string) error
}

// Service implements registration, login and profile settings.
type Service struct {
	store     Store
	memory    CoreFactSyncer
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *logger.Logger
}

// NewService creates a Service.
func NewService(store Store, memory CoreFactSyncer, cfg *config.AuthConfig, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		memory:    memory,
		jwtSecret: []byte(cfg.JwtSecret),
		tokenTTL:  time.Duration(cfg.TokenTTL) * time.Second,
		log:       log,
	}
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Get returns the account, or (nil, nil) when it does not exist.
func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.store.GetByID(ctx, id)
}

// Settings returns the user's AboutYou profile. A user without stored
// settings gets the zero profile.
func (s *Service) Settings(ctx context.Context, id uint) (*models.AboutYou, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	about := &models.AboutYou{}
	if len(user.Settings) > 0 {
		if err := json.Unmarshal(user.Settings, about); err != nil {
			s.log.Warn(fmt.Sprintf("corrupt settings for user %d: %v", id, err))
		}
	}
	return about, nil
}

// UpdateSettings stores the AboutYou profile and mirrors each field
// into the fact store so the profile reaches the prompt context. A
// sync failure does not fail the update.
func (s *Service) UpdateSettings(ctx context.Context, id uint, about *models.AboutYou) error {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	raw, err := json.Marshal(about)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	user.Settings = raw
	if err := s.store.Update(ctx, user); err != nil {
		return err
	}

	memoryID := strconv.FormatUint(uint64(id), 10)
	for _, sync := range []struct {
		field   string
		content string
	}{
		{"core_nickname", coreFactContent("User's name/nickname is %s", about.Nickname)},
		{"core_occupation", coreFactContent("User works as/is a %s", about.Occupation)},
		{"core_about", coreFactContent("About user: %s", about.About)},
	} {
		if err := s.memory.SyncCoreFact(ctx, memoryID, sync.field, sync.content); err != nil {
			s.log.Warn(fmt.Sprintf("failed to sync %s for user %d: %v", sync.field, id, err))
		}
	}
	return nil
}

func coreFactContent(format, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(format, value)
}

func (s *Service) generateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": "aria_user_service",
		"aud": "aria_clients",
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
