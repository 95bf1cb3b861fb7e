package checkout_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/storefront/cart"
	"github.com/jhoicas/alnatural-api/internal/storefront/checkout"
	"github.com/jhoicas/alnatural-api/internal/storefront/session"
)

const companyPhone = "+58 412-456.63.18"

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuth struct {
	client *session.Client
}

func (a fakeAuth) IsAuthenticated() bool { return a.client != nil }
func (a fakeAuth) Client() (session.Client, bool) {
	if a.client == nil {
		return session.Client{}, false
	}
	return *a.client, true
}
func (a fakeAuth) Token() string {
	if a.client == nil {
		return ""
	}
	return "tok-" + a.client.ID
}

// fakePlacer registra las llamadas y suma el total como lo haría la API.
// Al ser llamado comprueba que el carrito aún no se vació.
type fakePlacer struct {
	cart  *cart.Cart
	err   error
	calls int
	token string
	items []checkout.OrderLine
	notes string
}

func (p *fakePlacer) PlaceOrder(_ context.Context, token string, items []checkout.OrderLine, notes string) (*checkout.Placement, error) {
	p.calls++
	p.token, p.items, p.notes = token, items, notes
	if p.cart != nil && p.cart.IsEmpty() {
		return nil, errors.New("el carrito se vació antes del acuse")
	}
	if p.err != nil {
		return nil, p.err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return &checkout.Placement{OrderID: "9f3c2a1b-0000-4000-8000-000000000001", Total: total.Round(2)}, nil
}

// fakeCatalog catálogo con precios que devuelve la API a una sesión válida.
type fakeCatalog struct {
	entries map[string]checkout.CatalogEntry
	err     error
	tokens  []string
}

func (c *fakeCatalog) PricedCatalog(_ context.Context, token string) (map[string]checkout.CatalogEntry, error) {
	c.tokens = append(c.tokens, token)
	if c.err != nil {
		return nil, c.err
	}
	return c.entries, nil
}

func pricedCatalog() *fakeCatalog {
	return &fakeCatalog{entries: map[string]checkout.CatalogEntry{
		"arepa-yuca": {Price: decimal.RequireFromString("15.99"), DashboardID: "bca9391c-f0e2-4675-852b-729bc6c1220e"},
	}}
}

var ana = &session.Client{ID: "c-ana", Name: "Ana", Email: "ana@example.com", Company: "Bodega Ana"}

func cartWithArepas(n int) *cart.Cart {
	c := cart.New()
	for i := 0; i < n; i++ {
		c.Add(cart.Item{ID: "arepa-yuca", Name: "Arepa de yuca", Price: decimal.RequireFromString("15.99")})
	}
	c.SetShowDropdown(true)
	return c
}

func newFlow(c *cart.Cart, auth checkout.Auth, placer *fakePlacer) *checkout.Flow {
	return newFlowWithCatalog(c, auth, placer, pricedCatalog())
}

func newFlowWithCatalog(c *cart.Cart, auth checkout.Auth, placer *fakePlacer, catalog *fakeCatalog) *checkout.Flow {
	return checkout.NewFlow(c, auth, placer, catalog, checkout.Config{CompanyPhone: companyPhone}, zerolog.Nop())
}

func decodedText(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("text")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CarritoVacio(t *testing.T) {
	placer := &fakePlacer{}
	res, err := newFlow(cart.New(), fakeAuth{client: ana}, placer).Submit(context.Background(), "")

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, "Carrito vacío", res.Notice.Title)
	assert.Zero(t, placer.calls, "sin llamadas de red")
}

func TestSubmit_Autenticado_RegistraYVaciaCarrito(t *testing.T) {
	c := cartWithArepas(2)
	placer := &fakePlacer{cart: c}
	res, err := newFlow(c, fakeAuth{client: ana}, placer).Submit(context.Background(), "Entregar temprano")
	require.NoError(t, err)

	assert.Equal(t, checkout.KindOrder, res.Kind)
	assert.Equal(t, "31.98", res.Total.StringFixed(2))
	assert.True(t, c.IsEmpty(), "el carrito se vacía tras el acuse")
	assert.False(t, c.ShowDropdown())
	assert.Equal(t, "¡Pedido registrado!", res.Notice.Title)
	assert.Equal(t, "Pedido #9f3c2a1b creado exitosamente", res.Notice.Description)

	assert.Contains(t, res.Message, "31.98")
	assert.Contains(t, res.Message, "Ana")
	assert.Contains(t, res.Message, "💳 *TOTAL DEL PEDIDO: $31.98*")
	assert.Contains(t, res.Message, "💰 Precio unitario: $15.99")
	assert.Contains(t, res.Message, "🏢 Empresa: Bodega Ana")

	assert.True(t, strings.HasPrefix(res.Link, "https://wa.me/584124566318?text="))
	assert.Equal(t, res.Message, decodedText(t, res.Link))

	require.Len(t, placer.items, 1)
	assert.Equal(t, "tok-c-ana", placer.token)
	assert.Equal(t, "Entregar temprano", placer.notes)
	assert.Equal(t, "bca9391c-f0e2-4675-852b-729bc6c1220e", placer.items[0].ProductID, "id del catálogo mapeado al del dashboard")
	assert.Equal(t, "Arepa de yuca", placer.items[0].ProductName)
	assert.Equal(t, 2, placer.items[0].Quantity)
}

func TestSubmit_Anonimo_CotizacionSinPrecios(t *testing.T) {
	c := cartWithArepas(2)
	placer := &fakePlacer{}
	res, err := newFlow(c, fakeAuth{}, placer).Submit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, checkout.KindQuote, res.Kind)
	assert.Zero(t, placer.calls, "sin llamada a la API")
	assert.Contains(t, res.Message, "cotización")
	assert.Contains(t, res.Message, "Arepa de yuca")
	assert.Contains(t, res.Message, "📦 Cantidad: 2")
	for _, s := range []string{"$", "15.99", "31.98", "TOTAL", "Precio", "unit_price"} {
		assert.NotContains(t, res.Message, s)
	}
	assert.Equal(t, 2, c.TotalItems(), "la cotización no vacía el carrito")
	assert.False(t, c.ShowDropdown())
	assert.Equal(t, res.Message, decodedText(t, res.Link))
}

func TestSubmit_FalloDeAPI_ConservaCarrito(t *testing.T) {
	c := cartWithArepas(1)
	placer := &fakePlacer{cart: c, err: errors.New("502 Bad Gateway")}
	res, err := newFlow(c, fakeAuth{client: ana}, placer).Submit(context.Background(), "")

	assert.ErrorIs(t, err, checkout.ErrOrderFailed)
	assert.Equal(t, "Error al crear pedido", res.Notice.Title)
	assert.Empty(t, res.Link)
	assert.Equal(t, 1, c.TotalItems(), "el carrito no se toca si falla")
	assert.True(t, c.ShowDropdown())
}

func TestOrderMessage_VariantesYFecha(t *testing.T) {
	items := []cart.Item{
		{ID: "tequenos-yuca-queso", Name: "Tequeños de yuca", Variant: "x12", Price: decimal.RequireFromString("8.5"), Quantity: 3},
		{ID: "pan", Name: "Pan", Price: decimal.RequireFromString("0.333"), Quantity: 3},
	}
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	msg := checkout.OrderMessage(items, session.Client{Name: "Luis"}, now)

	assert.Contains(t, msg, "1. Tequeños de yuca\n   📝 Variante: x12\n   📦 Cantidad: 3\n")
	assert.Contains(t, msg, "   💸 Subtotal: $25.50\n")
	assert.Contains(t, msg, "💳 *TOTAL DEL PEDIDO: $26.50*")
	assert.Contains(t, msg, "📧 Email: No especificado")
	assert.NotContains(t, msg, "Empresa")
	assert.Contains(t, msg, "📅 Fecha: 5/3/2024\n🕐 Hora: 14:07:09\n")
}

func TestSubmit_ProductoSinIdDeDashboardSeEnviaIgual(t *testing.T) {
	c := cart.New()
	c.Add(cart.Item{ID: "producto-nuevo", Name: "Nuevo", Price: decimal.NewFromInt(1)})
	placer := &fakePlacer{cart: c}
	_, err := newFlow(c, fakeAuth{client: ana}, placer).Submit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "producto-nuevo", placer.items[0].ProductID)
	assert.Equal(t, "1", placer.items[0].UnitPrice.String(), "sin entrada en el catálogo conserva su precio")
}

func TestSubmit_AgregadoSinSesion_SeRegistraConPreciosDelCatalogo(t *testing.T) {
	// El catálogo anónimo no trae precios: las líneas entran al carrito en 0.
	c := cart.New()
	c.Add(cart.Item{ID: "arepa-yuca", Name: "Arepa de yuca"})
	c.Add(cart.Item{ID: "arepa-yuca", Name: "Arepa de yuca"})
	require.True(t, c.Total().IsZero())

	catalog := pricedCatalog()
	placer := &fakePlacer{cart: c}
	res, err := newFlowWithCatalog(c, fakeAuth{client: ana}, placer, catalog).Submit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-c-ana"}, catalog.tokens)
	require.Len(t, placer.items, 1)
	assert.Equal(t, "15.99", placer.items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "31.98", res.Total.StringFixed(2))
	assert.Contains(t, res.Message, "💳 *TOTAL DEL PEDIDO: $31.98*")
	assert.True(t, c.IsEmpty())
}

func TestSubmit_CatalogoNoDisponible_NoRegistraPedido(t *testing.T) {
	c := cartWithArepas(1)
	placer := &fakePlacer{cart: c}
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	res, err := newFlowWithCatalog(c, fakeAuth{client: ana}, placer, catalog).Submit(context.Background(), "")

	assert.ErrorIs(t, err, checkout.ErrOrderFailed)
	assert.Equal(t, "Error al crear pedido", res.Notice.Title)
	assert.Zero(t, placer.calls)
	assert.Equal(t, 1, c.TotalItems())
}

func TestSubmit_Anonimo_NoConsultaCatalogo(t *testing.T) {
	catalog := pricedCatalog()
	_, err := newFlowWithCatalog(cartWithArepas(1), fakeAuth{}, &fakePlacer{}, catalog).Submit(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, catalog.tokens)
}
