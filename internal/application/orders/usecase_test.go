package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/application/access"
	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/application/orders"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/testutil"
	pkgjwt "github.com/jhoicas/alnatural-api/pkg/jwt"
)

const (
	clientID = "11111111-1111-1111-1111-111111111111"
	otherID  = "22222222-2222-2222-2222-222222222222"
	userID   = "33333333-3333-3333-3333-333333333333"
)

type fixture struct {
	uc        *orders.OrdersUseCase
	store     *testutil.Store
	forwarder *testutil.Forwarder
	messenger *testutil.Messenger
	mailer    *testutil.Mailer
	observed  map[string]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	store.AddClient(entity.Client{
		ID: clientID, Name: "Ana", Email: "ana@example.com", Company: "Bodega Ana",
		Phone: "+58 412 0000000", IsActive: true,
	})
	store.AddClient(entity.Client{ID: otherID, Name: "Otro", IsActive: true})
	store.AddLink(entity.UserClient{ID: "l1", UserID: userID, ClientID: clientID})

	resolver := access.NewAccessUseCase(store.Codes(), store, store.Links(), store.Users(), auth.JWTConfig{Secret: "s"})
	f := &fixture{
		store:     store,
		forwarder: &testutil.Forwarder{},
		messenger: &testutil.Messenger{},
		mailer:    &testutil.Mailer{},
		observed:  map[string]int{},
	}
	f.uc = orders.NewOrdersUseCase(orders.Deps{
		Tx:        store,
		Orders:    store.Orders(),
		Resolver:  resolver,
		Forwarder: f.forwarder,
		Messenger: f.messenger,
		Mailer:    f.mailer,
		Receipts:  &testutil.Receipts{},
		Observer:  func(channel string, _ error) { f.observed[channel]++ },
		Log:       zerolog.Nop(),
	})
	return f
}

func rawItems(t *testing.T, items ...any) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := json.Marshal(it)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

var accessPrincipal = auth.Principal{Kind: pkgjwt.KindAccess, ClientID: clientID}

func TestPlaceOrder_RegistraYNotifica(t *testing.T) {
	f := newFixture(t)
	req := dto.PlaceOrderRequest{
		Items: rawItems(t,
			map[string]any{"product_id": "arepa-yuca", "product_name": "Arepa de yuca", "quantity": 2, "unit_price": 15.99},
			map[string]any{"product_id": "", "quantity": 1, "unit_price": 3},
			map[string]any{"product_id": "x", "quantity": "2", "unit_price": 3},
		),
		Notes: "  entregar en la mañana  ",
	}

	res, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, orders.MsgOrderCreated, res.Message)
	assert.Equal(t, res.OrderID, res.Order.ID)
	assert.Equal(t, entity.OrderStatusPending, res.Order.Status)
	assert.True(t, res.Order.Total.Equal(decimal.RequireFromString("31.98")), "total: %s", res.Order.Total)
	assert.Equal(t, 1, res.Order.Items)
	require.Len(t, res.Order.Lines, 1)
	assert.Equal(t, "31.98", res.Order.Lines[0].TotalPrice.StringFixed(2))
	assert.Empty(t, res.Warnings)

	assert.Equal(t, 1, f.store.OrderCount())
	saved, err := f.store.Orders().GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "entregar en la mañana", saved.Notes)
	assert.Equal(t, clientID, saved.ClientID)

	require.Len(t, f.forwarder.Orders, 1)
	fwd := f.forwarder.Orders[0]
	assert.True(t, fwd.SkipInventoryCheck)
	assert.Equal(t, "Ana", fwd.ClientName)
	assert.Equal(t, "Bodega Ana", fwd.ClientCompany)
	require.Len(t, fwd.Items, 1)
	assert.Equal(t, "arepa-yuca", fwd.Items[0].ProductID)

	require.Len(t, f.messenger.Sent, 1)
	assert.Equal(t, "+58 412 0000000", f.messenger.Sent[0].To)
	assert.Contains(t, f.messenger.Sent[0].Body, "Nuevo pedido de Ana")

	require.Len(t, f.mailer.Sent, 1)
	assert.Equal(t, "ana@example.com", f.mailer.Sent[0].To)
	require.Len(t, f.mailer.Sent[0].Attachments, 1)
	assert.Equal(t, "application/pdf", f.mailer.Sent[0].Attachments[0].ContentType)

	assert.Equal(t, 1, f.observed[orders.ChannelWhatsApp])
	assert.Equal(t, 1, f.observed[orders.ChannelEmail])
}

func TestPlaceOrder_SinItemsValidosNoTieneEfectos(t *testing.T) {
	f := newFixture(t)
	req := dto.PlaceOrderRequest{Items: rawItems(t,
		map[string]any{"product_id": "a", "quantity": 0, "unit_price": 1},
		map[string]any{"product_id": "a", "quantity": 101, "unit_price": 1},
		map[string]any{"product_id": "a", "quantity": 1.5, "unit_price": 1},
		map[string]any{"product_id": "a", "quantity": 1, "unit_price": 0},
		"no-es-un-objeto",
	)}

	_, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	assert.ErrorIs(t, err, domain.ErrNoValidItems)
	assert.Equal(t, 0, f.store.OrderCount())
	assert.Empty(t, f.forwarder.Orders)
	assert.Empty(t, f.messenger.Sent)
}

func TestPlaceOrder_ItemsAusentes(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, dto.PlaceOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlaceOrder_UsuarioSinCliente(t *testing.T) {
	f := newFixture(t)
	p := auth.Principal{Kind: pkgjwt.KindUser, UserID: "55555555-5555-5555-5555-555555555555"}
	req := dto.PlaceOrderRequest{Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 1, "unit_price": 2})}

	_, err := f.uc.PlaceOrder(context.Background(), p, req)
	assert.ErrorIs(t, err, domain.ErrNoLinkedClient)
	assert.Equal(t, 0, f.store.OrderCount())
}

func TestPlaceOrder_UsuarioVinculado(t *testing.T) {
	f := newFixture(t)
	p := auth.Principal{Kind: pkgjwt.KindUser, UserID: userID}
	req := dto.PlaceOrderRequest{Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 3, "unit_price": "1.10"})}

	res, err := f.uc.PlaceOrder(context.Background(), p, req)
	require.NoError(t, err)
	assert.Equal(t, "3.3", res.Order.Total.String())

	saved, err := f.store.Orders().GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, userID, saved.UserID)
}

func TestPlaceOrder_DashboardCaidoRevierte(t *testing.T) {
	f := newFixture(t)
	f.forwarder.Err = errors.New("502 bad gateway")
	req := dto.PlaceOrderRequest{Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 1, "unit_price": 2})}

	_, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	assert.ErrorIs(t, err, domain.ErrDependency)
	assert.Equal(t, 0, f.store.OrderCount(), "el pedido no debe quedar guardado")
	assert.Empty(t, f.messenger.Sent, "sin pedido no hay notificaciones")
	assert.Empty(t, f.mailer.Sent)
}

func TestPlaceOrder_NotificacionFallidaEsAviso(t *testing.T) {
	f := newFixture(t)
	f.messenger.Err = errors.New("token vencido")
	req := dto.PlaceOrderRequest{Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 1, "unit_price": 2})}

	res, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], orders.ChannelWhatsApp)
	assert.Equal(t, 1, f.store.OrderCount())
	assert.Len(t, f.mailer.Sent, 1, "el correo se envía aunque falle WhatsApp")
}

func TestPlaceOrder_NotasTruncadas(t *testing.T) {
	f := newFixture(t)
	req := dto.PlaceOrderRequest{
		Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 1, "unit_price": 2}),
		Notes: strings.Repeat("ñ", 600),
	}
	res, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	require.NoError(t, err)

	saved, err := f.store.Orders().GetByID(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxNotesLength, len([]rune(saved.Notes)))
}

func TestReceiptPDF(t *testing.T) {
	f := newFixture(t)
	req := dto.PlaceOrderRequest{Items: rawItems(t, map[string]any{"product_id": "a", "quantity": 1, "unit_price": 2})}
	res, err := f.uc.PlaceOrder(context.Background(), accessPrincipal, req)
	require.NoError(t, err)

	pdf, name, err := f.uc.ReceiptPDF(context.Background(), accessPrincipal, res.OrderID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "pedido-"+res.OrderID[:8]+".pdf", name)

	other := auth.Principal{Kind: pkgjwt.KindAccess, ClientID: otherID}
	_, _, err = f.uc.ReceiptPDF(context.Background(), other, res.OrderID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = f.uc.ReceiptPDF(context.Background(), accessPrincipal, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
