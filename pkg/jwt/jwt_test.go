package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/alnatural-api/pkg/jwt"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testClientID = "00000000-0000-0000-0000-000000000002"
	testIssuer   = "alnatural-test"
)

func TestGenerateUser_ParseDevuelveClaims(t *testing.T) {
	tok, err := pkgjwt.GenerateUser(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.KindUser, claims.Kind)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Empty(t, claims.ClientID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestGenerateAccess_ParseDevuelveCliente(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess(testSecret, testClientID, testIssuer, 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.KindAccess, claims.Kind)
	assert.Equal(t, testClientID, claims.ClientID)
	assert.Equal(t, "client:"+testClientID, claims.Subject)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.GenerateUser(testSecret, testUserID, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.GenerateUser(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.GenerateUser("", testUserID, testIssuer, 60)
	assert.Error(t, err)
	_, err = pkgjwt.GenerateAccess(testSecret, "", testIssuer, 60)
	assert.Error(t, err)
}
