package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/storefront/session"
)

// fakeValidator acepta los códigos de valid; err simula la API caída.
type fakeValidator struct {
	valid map[string]session.Client
	err   error
	calls int
}

func (f *fakeValidator) ValidateAccessCode(_ context.Context, code string) (*session.Validation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.valid[strings.ToUpper(code)]
	if !ok {
		return &session.Validation{Valid: false, Message: "Código de acceso inválido"}, nil
	}
	return &session.Validation{Valid: true, Client: c, Token: "tok-" + c.ID}, nil
}

var ana = session.Client{ID: "c-ana", Name: "Ana", Email: "ana@example.com", Company: "Bodega Ana"}

func newSession(v *fakeValidator, st session.Storage) *session.Session {
	return session.New(v, st, zerolog.Nop())
}

func TestLogin_CodigoValido_PersisteYAutentica(t *testing.T) {
	v := &fakeValidator{valid: map[string]session.Client{"ABCD2345": ana}}
	st := session.NewMemoryStorage()
	s := newSession(v, st)
	var changes []bool
	s.OnChange(func(a bool) { changes = append(changes, a) })

	require.True(t, s.Login(context.Background(), " abcd2345 "))
	assert.True(t, s.IsAuthenticated())
	c, ok := s.Client()
	require.True(t, ok)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "tok-c-ana", s.Token())
	assert.Equal(t, []bool{true}, changes)

	code, ok, err := st.Get(session.KeyAccessCode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abcd2345", code)
	raw, ok, err := st.Get(session.KeyClient)
	require.NoError(t, err)
	require.True(t, ok)
	var stored session.Client
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, ana, stored)
}

func TestLogin_Rechazos_DevuelvenFalse(t *testing.T) {
	v := &fakeValidator{valid: map[string]session.Client{}}
	s := newSession(v, session.NewMemoryStorage())

	assert.False(t, s.Login(context.Background(), "NOEXISTE"))
	assert.False(t, s.Login(context.Background(), "   "))
	assert.Equal(t, 1, v.calls, "un código vacío no llega a la API")

	v.err = errors.New("dial tcp: connection refused")
	assert.False(t, s.ValidateAccessCode(context.Background(), "ABCD2345"))
	assert.False(t, s.IsAuthenticated())
}

func TestLogout_BorraMemoriaYAlmacenamiento(t *testing.T) {
	v := &fakeValidator{valid: map[string]session.Client{"ABCD2345": ana}}
	st := session.NewMemoryStorage()
	s := newSession(v, st)
	var changes []bool
	s.OnChange(func(a bool) { changes = append(changes, a) })
	require.True(t, s.Login(context.Background(), "ABCD2345"))

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	for _, k := range []string{session.KeyClient, session.KeyAccessCode, session.KeySessionToken} {
		_, ok, _ := st.Get(k)
		assert.False(t, ok, k)
	}
	assert.Equal(t, []bool{true, false}, changes)

	s.Logout()
	assert.Equal(t, []bool{true, false}, changes, "logout anónimo no notifica")
}

func TestRehydrate_CodigoAceptado(t *testing.T) {
	v := &fakeValidator{valid: map[string]session.Client{"ABCD2345": ana}}
	st := session.NewMemoryStorage()
	require.NoError(t, st.Set(session.KeyAccessCode, "ABCD2345"))

	s := newSession(v, st)
	assert.True(t, s.Rehydrate(context.Background()))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, 1, v.calls, "la sesión guardada se revalida")
}

func TestRehydrate_CodigoRevocado_BorraAlmacenamiento(t *testing.T) {
	v := &fakeValidator{valid: map[string]session.Client{}}
	st := session.NewMemoryStorage()
	require.NoError(t, st.Set(session.KeyAccessCode, "ABCD2345"))
	require.NoError(t, st.Set(session.KeyClient, `{"id":"c-ana","name":"Ana"}`))

	s := newSession(v, st)
	assert.False(t, s.Rehydrate(context.Background()))
	_, ok, _ := st.Get(session.KeyAccessCode)
	assert.False(t, ok)
	_, ok, _ = st.Get(session.KeyClient)
	assert.False(t, ok)
}

func TestRehydrate_APICaida_ConservaAlmacenamiento(t *testing.T) {
	v := &fakeValidator{err: errors.New("timeout")}
	st := session.NewMemoryStorage()
	require.NoError(t, st.Set(session.KeyAccessCode, "ABCD2345"))

	s := newSession(v, st)
	assert.False(t, s.Rehydrate(context.Background()))
	assert.False(t, s.IsAuthenticated())
	code, ok, _ := st.Get(session.KeyAccessCode)
	assert.True(t, ok)
	assert.Equal(t, "ABCD2345", code)
}

func TestRehydrate_SinSesionGuardada(t *testing.T) {
	v := &fakeValidator{}
	s := newSession(v, session.NewMemoryStorage())
	assert.False(t, s.Rehydrate(context.Background()))
	assert.Zero(t, v.calls)
}

func TestBadgerStorage_PersisteEntreAperturas(t *testing.T) {
	dir := t.TempDir()
	st, err := session.OpenBadgerStorage(dir)
	require.NoError(t, err)
	require.NoError(t, st.Set(session.KeyAccessCode, "ABCD2345"))
	require.NoError(t, st.Close())

	st, err = session.OpenBadgerStorage(dir)
	require.NoError(t, err)
	defer st.Close()
	v, ok, err := st.Get(session.KeyAccessCode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ABCD2345", v)

	require.NoError(t, st.Delete(session.KeyAccessCode, session.KeyClient))
	_, ok, err = st.Get(session.KeyAccessCode)
	require.NoError(t, err)
	assert.False(t, ok)
}
