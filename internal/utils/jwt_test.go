package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careslot/careslot-api/internal/models"
)

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("")
	assert.Error(t, err)

	tokens, err := NewTokenManager("secret")
	require.NoError(t, err)
	assert.NotNil(t, tokens)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	token, err := tokens.Generate("64f000000000000000000042", models.RoleDoctor)
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000042", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)
	assert.NotEmpty(t, claims.ID)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a")
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b")
	require.NoError(t, err)

	token, err := issuer.Generate("64f000000000000000000042", models.RolePatient)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	tokens, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	_, err = tokens.Validate("not.a.token")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	tokens, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	a, err := tokens.Generate("64f000000000000000000042", models.RolePatient)
	require.NoError(t, err)
	b, err := tokens.Generate("64f000000000000000000042", models.RolePatient)
	require.NoError(t, err)

	claimsA, err := tokens.Validate(a)
	require.NoError(t, err)
	claimsB, err := tokens.Validate(b)
	require.NoError(t, err)
	assert.NotEqual(t, claimsA.ID, claimsB.ID)
}
