package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/models"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := &models.User{ID: 42, Role: models.RoleAdmin}

	token, exp, err := m.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenRejectsForeignAndExpired(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleUser}

	token, _, err := NewTokenManager("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewTokenManager("secret", -time.Minute).Issue(user)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
