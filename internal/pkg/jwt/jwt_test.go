package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	t.Parallel()

	signer := New("s3cret")
	token, err := signer.Sign("user-1", "owner", time.Hour)
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := New("s3cret").Sign("user-1", "owner", time.Hour)
	require.NoError(t, err)

	_, err = New("other").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	signer := New("s3cret")
	token, err := signer.Sign("user-1", "owner", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := New("s3cret").Parse("not.a.token")
	assert.Error(t, err)
}
