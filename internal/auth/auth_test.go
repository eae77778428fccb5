package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogicum/config"
	"blogicum/internal/auth"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("not a hash", "anything"))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(config.Auth{SigningKey: "test-key", TokenTTL: time.Hour})

	token, err := tm.Issue(42, "alice")
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestTokenWrongKey(t *testing.T) {
	issuer := auth.NewTokenManager(config.Auth{SigningKey: "key-one", TokenTTL: time.Hour})
	verifier := auth.NewTokenManager(config.Auth{SigningKey: "key-two", TokenTTL: time.Hour})

	token, err := issuer.Issue(1, "alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := auth.NewTokenManager(config.Auth{SigningKey: "test-key", TokenTTL: -time.Minute})

	token, err := tm.Issue(1, "alice")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := auth.NewTokenManager(config.Auth{SigningKey: "test-key", TokenTTL: time.Hour})

	_, err := tm.Verify("not.a.token")
	assert.Error(t, err)
}
