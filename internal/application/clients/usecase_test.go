package clients_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/application/clients"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/testutil"
)

func newUseCase(mailer *testutil.Mailer) (*clients.ClientsUseCase, *testutil.Store) {
	store := testutil.NewStore()
	if mailer == nil {
		return clients.NewClientsUseCase(store, store, nil, zerolog.Nop()), store
	}
	return clients.NewClientsUseCase(store, store, mailer, zerolog.Nop()), store
}

func strPtr(s string) *string { return &s }

func TestCreate_ClienteConCodigoActivo(t *testing.T) {
	uc, store := newUseCase(nil)

	res, err := uc.Create(context.Background(), dto.CreateClientRequest{
		Name: "Ana", Email: "ana@example.com", Company: "Bodega Ana",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, clients.MsgCreatedManual, res.Message)
	require.NotEmpty(t, res.AccessCode)
	assert.True(t, res.Client.IsActive)

	codes := store.CodesForClient(res.Client.ID)
	require.Len(t, codes, 1)
	assert.Equal(t, res.AccessCode, codes[0].Code)
	assert.True(t, codes[0].IsActive)
	assert.Nil(t, codes[0].ExpiresAt)
}

func TestCreate_EnviaCodigoPorEmail(t *testing.T) {
	mailer := &testutil.Mailer{}
	uc, _ := newUseCase(mailer)

	res, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, clients.MsgCreatedMailed, res.Message)
	require.Len(t, mailer.Sent, 1)
	assert.Contains(t, mailer.Sent[0].TextBody, res.AccessCode)
}

func TestCreate_EmailFallidoNoRevierte(t *testing.T) {
	mailer := &testutil.Mailer{Err: errors.New("smtp caído")}
	uc, store := newUseCase(mailer)

	res, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, clients.MsgCreatedManual, res.Message)
	assert.Len(t, res.Warnings, 1)
	assert.Len(t, store.CodesForClient(res.Client.ID), 1)
}

func TestCreate_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase(nil)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "Otra", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestList_OrdenYCodigos(t *testing.T) {
	uc, store := newUseCase(nil)
	old := store.AddClient(entity.Client{ID: "c-old", Name: "Viejo", IsActive: true, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)})
	recent := store.AddClient(entity.Client{ID: "c-new", Name: "Nuevo", IsActive: true, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
	store.AddCode(entity.AccessCode{ID: "a1", Code: "OLD1", ClientID: old.ID, IsActive: true, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)})
	store.AddCode(entity.AccessCode{ID: "a2", Code: "OLD2", ClientID: old.ID, IsActive: false, CreatedAt: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)})

	res, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Clients, 2)
	assert.Equal(t, recent.ID, res.Clients[0].ID)
	assert.Empty(t, res.Clients[0].AccessCodes)
	require.Len(t, res.Clients[1].AccessCodes, 2)
	assert.Equal(t, "OLD2", res.Clients[1].AccessCodes[0].Code, "códigos más recientes primero")
}

func TestUpdate_Parcial(t *testing.T) {
	uc, store := newUseCase(nil)
	store.AddClient(entity.Client{ID: "c1", Name: "Ana", Email: "ana@example.com", City: "Caracas", IsActive: true})

	in := dto.UpdateClientRequest{ClientID: "c1", Name: strPtr(" Ana María "), Email: strPtr("")}
	in.Normalize()
	res, err := uc.Update(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, clients.MsgUpdated, res.Message)
	assert.Equal(t, "Ana María", res.Client.Name)
	assert.Empty(t, res.Client.Email, "email vacío se borra")
	assert.Equal(t, "Caracas", res.Client.City, "campos ausentes no cambian")
}

func TestUpdate_EmailDuplicadoYNoEncontrado(t *testing.T) {
	uc, store := newUseCase(nil)
	store.AddClient(entity.Client{ID: "c1", Name: "Ana", Email: "ana@example.com"})
	store.AddClient(entity.Client{ID: "c2", Name: "Luis", Email: "luis@example.com"})

	_, err := uc.Update(context.Background(), dto.UpdateClientRequest{ClientID: "c2", Email: strPtr("ana@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Update(context.Background(), dto.UpdateClientRequest{ClientID: "nadie", Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(context.Background(), dto.UpdateClientRequest{ClientID: "nadie"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	uc, store := newUseCase(nil)
	store.AddClient(entity.Client{ID: "c1", Name: "Ana", IsActive: true})

	res, err := uc.UpdateStatus(context.Background(), "c1", false)
	require.NoError(t, err)
	assert.False(t, res.Client.IsActive)
	assert.Equal(t, clients.MsgDeactivated, res.Message)

	res, err = uc.UpdateStatus(context.Background(), "c1", true)
	require.NoError(t, err)
	assert.Equal(t, clients.MsgActivated, res.Message)

	_, err = uc.UpdateStatus(context.Background(), "nadie", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
