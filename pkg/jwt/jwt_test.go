package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTripDeClaims(t *testing.T) {
	token, err := Generate("secreto", "user-1", "store-1", "bodeguero", "marketplace-api", 5)
	require.NoError(t, err)

	userID, storeID, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "store-1", storeID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", "user-1", "store-1", "admin", "", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate("secreto", "user-1", "store-1", "admin", "", -1)
	require.NoError(t, err)

	_, _, _, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestParse_SinTienda(t *testing.T) {
	token, err := Generate("secreto", "user-1", "", "admin", "", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("secreto", token)
	assert.Error(t, err, "un token sin tienda no debe aceptarse")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "store-1", "admin", "", 5)
	assert.Error(t, err)
}
