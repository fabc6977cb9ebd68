package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ncastellano/ecommerce_backend/internal/hash"
	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/mail"
	"github.com/ncastellano/ecommerce_backend/internal/models"
)

const recoveryTokenTTL = time.Hour

const recoveryEmailBody = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Recovery</h2>
  <p>Hi %s,</p>
  <p>You asked to reset your password. Follow the link below:</p>
  <p><a href="%s">%s</a></p>
  <p><strong>This link expires in 1 hour.</strong></p>
  <p>If you did not request this change you can ignore this email.</p>
</div>`

type RecoveryService struct {
	Stores  StoreSet
	Tx      TxRunner
	Mailer  mail.Mailer
	BaseURL string

	// Now is swappable in tests; zero value means time.Now.
	Now func() time.Time
}

func (s *RecoveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Request issues a fresh recovery token for the account, superseding any
// prior ones, and mails the reset link. Lookups for unknown emails report
// NotFound; callers surface that to the requester.
func (s *RecoveryService) Request(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("service", "recovery")

	if email == "" {
		return fmt.Errorf("email required: %w", ErrValidation)
	}

	user, err := s.Stores.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := &models.RecoveryToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(recoveryTokenTTL),
	}
	if err := s.Stores.Tokens.Issue(ctx, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.BaseURL, token.Token)
	body := fmt.Sprintf(recoveryEmailBody, user.FirstName, link, link)
	if err := s.Mailer.Send(ctx, user.Email, "Password Recovery", body); err != nil {
		l.Error("recovery_email_failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("send recovery email: %v: %w", err, ErrExternalDependency)
	}

	l.Info("recovery_requested", "user_id", user.ID)
	return nil
}

// Reset consumes a token and updates the password. The password update and
// the used-marking commit together, so a crash cannot leave a still-valid
// token behind an already-changed password.
func (s *RecoveryService) Reset(ctx context.Context, token, newPassword string) error {
	l := logging.FromContext(ctx).With("service", "recovery")

	if token == "" || newPassword == "" {
		return fmt.Errorf("token and new password required: %w", ErrValidation)
	}

	rt, err := s.Stores.Tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if !rt.Valid(s.now()) {
		return ErrTokenExpiredOrUsed
	}

	user, err := s.Stores.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		return err
	}
	if hash.CheckPassword(user.PasswordHash, newPassword) {
		return ErrSamePassword
	}

	newHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %v: %w", err, ErrExternalDependency)
	}

	err = s.Tx.WithinTx(ctx, func(tx StoreSet) error {
		if err := tx.Users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			return err
		}
		return tx.Tokens.MarkUsed(ctx, rt.ID)
	})
	if err != nil {
		return err
	}

	l.Info("password_reset", "user_id", user.ID)
	return nil
}
