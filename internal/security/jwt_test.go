package security

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour, "storefront-service")
	require.NoError(t, err)

	token, err := m.Generate("42", "demo", []string{"shop_admin"})
	require.NoError(t, err)

	principal, err := m.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", principal.UserID)
	assert.Equal(t, "demo", principal.Username)
	assert.True(t, m.HasRole(principal, "shop_admin"))
	assert.False(t, m.HasRole(principal, "other"))
}

func TestJWTManager_Expired(t *testing.T) {
	m, err := NewJWTManager("secret", time.Minute, "storefront-service")
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Generate("42", "demo", nil)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	a, _ := NewJWTManager("a", time.Hour, "storefront-service")
	b, _ := NewJWTManager("b", time.Hour, "storefront-service")

	token, err := a.Generate("1", "x", nil)
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_AdminIsSuperuser(t *testing.T) {
	m, _ := NewJWTManager("secret", time.Hour, "s")

	assert.True(t, m.HasAnyRole(&interfaces.Principal{Roles: []string{"admin"}}, "shop_admin"))
	assert.False(t, m.HasAnyRole(nil, "shop_admin"))
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour, "s")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
