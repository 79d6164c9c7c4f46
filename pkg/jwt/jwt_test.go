package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Produccion-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RoleSupervisor, "produccion-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, pkgjwt.RoleSupervisor, role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RolePlanner, "produccion-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", pkgjwt.RolePlanner, "produccion-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", pkgjwt.RolePlanner, "x", 60)
	assert.Error(t, err)
}
