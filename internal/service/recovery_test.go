package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellano/ecommerce_backend/internal/hash"
	"github.com/ncastellano/ecommerce_backend/internal/models"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newRecovery(env *testEnv, mailer *fakeMailer) *service.RecoveryService {
	return &service.RecoveryService{
		Stores:  env.Stores,
		Tx:      env.Tx,
		Mailer:  mailer,
		BaseURL: "http://localhost:8080",
	}
}

func (env *testEnv) latestToken(t *testing.T, userID uint) *models.RecoveryToken {
	t.Helper()

	var tok models.RecoveryToken
	require.NoError(t, env.DB.Where("user_id = ?", userID).Order("id DESC").First(&tok).Error)
	return &tok
}

func TestRecoveryRequestUnknownEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})

	err := svc.Request(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecoveryRequestSendsLink(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mailer := &fakeMailer{}
	svc := newRecovery(env, mailer)
	ctx := context.Background()

	user := env.createUser(t, "rec1@example.com", "oldpass")

	require.NoError(t, svc.Request(ctx, user.Email))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, user.Email, mailer.sent[0].To)

	tok := env.latestToken(t, user.ID)
	assert.Contains(t, mailer.sent[0].Body, tok.Token)
	assert.False(t, tok.Used)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.ExpiresAt, 5*time.Second)
}

func TestRecoveryResetHappyPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mailer := &fakeMailer{}
	svc := newRecovery(env, mailer)
	ctx := context.Background()

	user := env.createUser(t, "rec2@example.com", "oldpass")
	require.NoError(t, svc.Request(ctx, user.Email))
	tok := env.latestToken(t, user.ID)

	require.NoError(t, svc.Reset(ctx, tok.Token, "newpass"))

	updated, err := env.Stores.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, hash.CheckPassword(updated.PasswordHash, "newpass"))
	assert.False(t, hash.CheckPassword(updated.PasswordHash, "oldpass"))

	used := env.latestToken(t, user.ID)
	assert.True(t, used.Used)
}

func TestRecoveryTokenSingleUse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})
	ctx := context.Background()

	user := env.createUser(t, "rec3@example.com", "oldpass")
	require.NoError(t, svc.Request(ctx, user.Email))
	tok := env.latestToken(t, user.ID)

	require.NoError(t, svc.Reset(ctx, tok.Token, "newpass"))

	err := svc.Reset(ctx, tok.Token, "anotherpass")
	assert.ErrorIs(t, err, service.ErrTokenExpiredOrUsed)
}

func TestRecoveryTokenExpiry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})
	ctx := context.Background()

	base := time.Now().UTC()
	svc.Now = func() time.Time { return base }

	user := env.createUser(t, "rec4@example.com", "oldpass")
	require.NoError(t, svc.Request(ctx, user.Email))
	tok := env.latestToken(t, user.ID)

	// move past the one-hour window without marking the token used
	svc.Now = func() time.Time { return base.Add(2 * time.Hour) }

	err := svc.Reset(ctx, tok.Token, "newpass")
	assert.ErrorIs(t, err, service.ErrTokenExpiredOrUsed)
}

func TestRecoveryNewRequestSupersedesOldToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})
	ctx := context.Background()

	user := env.createUser(t, "rec5@example.com", "oldpass")

	require.NoError(t, svc.Request(ctx, user.Email))
	first := env.latestToken(t, user.ID)

	require.NoError(t, svc.Request(ctx, user.Email))
	second := env.latestToken(t, user.ID)
	require.NotEqual(t, first.Token, second.Token)

	err := svc.Reset(ctx, first.Token, "newpass")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	require.NoError(t, svc.Reset(ctx, second.Token, "newpass"))
}

func TestRecoveryResetSamePassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})
	ctx := context.Background()

	user := env.createUser(t, "rec6@example.com", "samepass")
	require.NoError(t, svc.Request(ctx, user.Email))
	tok := env.latestToken(t, user.ID)

	err := svc.Reset(ctx, tok.Token, "samepass")
	assert.ErrorIs(t, err, service.ErrSamePassword)

	// the token stays unused after the rejected reset
	kept := env.latestToken(t, user.ID)
	assert.False(t, kept.Used)
}

func TestRecoveryResetInvalidToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{})

	err := svc.Reset(context.Background(), "no-such-token", "newpass")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRecoveryMailFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newRecovery(env, &fakeMailer{fail: true})
	ctx := context.Background()

	user := env.createUser(t, "rec7@example.com", "oldpass")

	err := svc.Request(ctx, user.Email)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrExternalDependency)
}
