// Package checkout envío del carrito: pedido registrado en la API para sesiones
// autenticadas o solicitud de cotización por WhatsApp para visitantes.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/storefront/cart"
	"github.com/jhoicas/alnatural-api/internal/storefront/notice"
	"github.com/jhoicas/alnatural-api/internal/storefront/session"
	"github.com/jhoicas/alnatural-api/pkg/whatsapp"
)

var (
	ErrEmptyCart   = errors.New("carrito vacío")
	ErrOrderFailed = errors.New("no se pudo registrar el pedido")
)

// OrderLine ítem enviado a la API.
type OrderLine struct {
	ProductID   string
	ProductName string
	Variant     string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Placement acuse de un pedido registrado.
type Placement struct {
	OrderID  string
	Total    decimal.Decimal
	Warnings []string
}

// OrderPlacer registra pedidos con el token de la sesión.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, items []OrderLine, notes string) (*Placement, error)
}

// CatalogEntry datos de un producto del catálogo con precios.
type CatalogEntry struct {
	Price       decimal.Decimal
	DashboardID string
}

// Catalog catálogo visible para el token de la sesión, por id de producto.
type Catalog interface {
	PricedCatalog(ctx context.Context, token string) (map[string]CatalogEntry, error)
}

// Auth vista de la sesión que necesita el envío. La implementa *session.Session.
type Auth interface {
	IsAuthenticated() bool
	Client() (session.Client, bool)
	Token() string
}

// Kind tipo de resultado.
type Kind int

const (
	KindQuote Kind = iota + 1 // cotización por WhatsApp, sin pedido
	KindOrder                 // pedido registrado
)

// Result resultado del envío. Link es el enlace wa.me con Message; la UI lo
// ofrece para copiar o abrir.
type Result struct {
	Kind     Kind
	Notice   notice.Notice
	Message  string
	Link     string
	OrderID  string
	Total    decimal.Decimal
	Warnings []string
}

// Config parámetros del envío.
type Config struct {
	CompanyPhone string
}

// Flow envío del carrito.
type Flow struct {
	cart    *cart.Cart
	auth    Auth
	placer  OrderPlacer
	catalog Catalog
	cfg     Config
	log     zerolog.Logger
	now     func() time.Time
}

// NewFlow construye el flujo.
func NewFlow(c *cart.Cart, auth Auth, placer OrderPlacer, catalog Catalog, cfg Config, log zerolog.Logger) *Flow {
	return &Flow{cart: c, auth: auth, placer: placer, catalog: catalog, cfg: cfg, log: log, now: time.Now}
}

// Submit envía el carrito con notas opcionales.
//   - Carrito vacío: ErrEmptyCart, sin llamadas de red.
//   - Sesión anónima: cotización por WhatsApp; el carrito se conserva.
//   - Sesión autenticada: actualiza los precios del carrito con el catálogo de la
//     sesión (las líneas agregadas antes de ingresar no tienen precio), registra
//     el pedido y solo tras el acuse vacía el carrito.
//
// En los errores también se devuelve el Result con el aviso a mostrar.
func (f *Flow) Submit(ctx context.Context, notes string) (*Result, error) {
	items := f.cart.Items()
	if len(items) == 0 {
		return &Result{Notice: notice.EmptyCart}, ErrEmptyCart
	}
	client, ok := f.auth.Client()
	if !f.auth.IsAuthenticated() || !ok {
		return f.quote(items), nil
	}

	entries, err := f.catalog.PricedCatalog(ctx, f.auth.Token())
	if err != nil {
		return f.failed(err, len(items))
	}
	f.cart.Reprice(prices(entries))
	items = f.cart.Items()

	placement, err := f.placer.PlaceOrder(ctx, f.auth.Token(), orderLines(items, entries), notes)
	if err != nil {
		return f.failed(err, len(items))
	}

	msg := OrderMessage(items, client, f.now())
	f.cart.Clear()
	f.cart.SetShowDropdown(false)
	f.log.Info().Str("order_id", placement.OrderID).Msg("pedido registrado")

	return &Result{
		Kind:     KindOrder,
		Notice:   notice.OrderPlaced(placement.OrderID),
		Message:  msg,
		Link:     whatsapp.DeepLink(f.cfg.CompanyPhone, msg),
		OrderID:  placement.OrderID,
		Total:    placement.Total,
		Warnings: placement.Warnings,
	}, nil
}

func (f *Flow) quote(items []cart.Item) *Result {
	msg := QuoteMessage(items, f.now())
	f.cart.SetShowDropdown(false)
	return &Result{
		Kind:    KindQuote,
		Notice:  notice.QuoteReady,
		Message: msg,
		Link:    whatsapp.DeepLink(f.cfg.CompanyPhone, msg),
	}
}

func (f *Flow) failed(err error, lines int) (*Result, error) {
	f.log.Warn().Err(err).Int("items", lines).Msg("pedido no registrado")
	return &Result{Notice: notice.OrderFailed}, fmt.Errorf("%w: %w", ErrOrderFailed, err)
}

func prices(entries map[string]CatalogEntry) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(entries))
	for id, e := range entries {
		if e.Price.IsPositive() {
			out[id] = e.Price
		}
	}
	return out
}

// orderLines usa el id del dashboard cuando el catálogo lo trae.
func orderLines(items []cart.Item, entries map[string]CatalogEntry) []OrderLine {
	out := make([]OrderLine, 0, len(items))
	for _, it := range items {
		id := it.ID
		if e, ok := entries[id]; ok && e.DashboardID != "" {
			id = e.DashboardID
		}
		out = append(out, OrderLine{
			ProductID:   id,
			ProductName: it.Name,
			Variant:     it.Variant,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
		})
	}
	return out
}
