package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/natal-chart/pkg/errors"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newTestLogger())
	require.True(t, svc.Enabled())

	token, err := svc.IssueToken(context.Background(), "  alice ")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(context.Background(), token.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	require.False(t, svc.Enabled())
	_, err := svc.IssueToken(context.Background(), "alice")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthError))
	require.ErrorIs(t, err, ErrDisabled)
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newTestLogger())
	other := NewService(Config{Secret: "other-secret", TokenTTL: time.Hour}, newTestLogger())

	foreign, err := other.IssueToken(context.Background(), "mallory")
	require.NoError(t, err)

	expired := signed(t, "test-secret", jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	noExpiry := signed(t, "test-secret", jwt.RegisteredClaims{Subject: "alice"})
	noSubject := signed(t, "test-secret", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	for name, token := range map[string]string{
		"empty":      " ",
		"garbage":    "not-a-token",
		"foreign":    foreign.Token,
		"expired":    expired,
		"no expiry":  noExpiry,
		"no subject": noSubject,
	} {
		_, err := svc.ValidateToken(context.Background(), token)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken), name)
	}
}

func TestService_EmptySubject(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newTestLogger())
	_, err := svc.IssueToken(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func signed(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
