package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ncastellano/ecommerce_backend/internal/hash"
	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/models"
)

const AccessTokenTTL = 15 * time.Minute

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       uint   `json:"age"`
	Password  string `json:"password"`
}

type AuthService struct {
	Stores    StoreSet
	JWTSecret []byte
	Events    EventPublisher
}

// Register creates the account together with its cart; every user owns
// exactly one cart from registration on.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("service", "auth")

	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("first and last name required: %w", ErrValidation)
	}

	existing, err := s.Stores.Users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s already exists: %w", in.Email, ErrConflict)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %v: %w", err, ErrExternalDependency)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Age:          in.Age,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and returns a signed access token plus its expiry.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	l := logging.FromContext(ctx).With("service", "auth")

	if email == "" || password == "" {
		return nil, "", time.Time{}, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Stores.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", time.Time{}, fmt.Errorf("invalid email or password: %w", ErrForbidden)
		}
		return nil, "", time.Time{}, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "bad_credentials")
		return nil, "", time.Time{}, fmt.Errorf("invalid email or password: %w", ErrForbidden)
	}

	exp := time.Now().Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	l.Info("login_success", "user_id", user.ID)
	return user, token, exp, nil
}

func (s *AuthService) publish(ctx context.Context, userID uint, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, "user_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", "user_events", "error", err)
	}
}
