// realtime/token_test.go
package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := MintToken("user-123", secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := MintToken("user-123", []byte("secret-a"))
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", []byte("secret"))
	assert.Error(t, err)
}
