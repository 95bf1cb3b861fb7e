// Tienda de terminal para distribuidores: catálogo, carrito, código de acceso y pedidos.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/storefront/apiclient"
	"github.com/jhoicas/alnatural-api/internal/storefront/cart"
	"github.com/jhoicas/alnatural-api/internal/storefront/checkout"
	"github.com/jhoicas/alnatural-api/internal/storefront/inactivity"
	"github.com/jhoicas/alnatural-api/internal/storefront/notice"
	"github.com/jhoicas/alnatural-api/internal/storefront/session"
	"github.com/jhoicas/alnatural-api/pkg/config"
	"github.com/jhoicas/alnatural-api/pkg/logger"
)

const help = `Comandos:
  catalogo                     lista los productos
  login <código>               ingresar con código de acceso
  logout                       cerrar sesión
  agregar <producto> [variante]
  quitar <producto> [variante]
  eliminar <producto> [variante] quita la línea completa
  carrito                      ver el carrito
  vaciar                       vaciar el carrito
  enviar [notas]               enviar pedido (o cotización sin sesión)
  salir`

func main() {
	cfg, err := config.LoadStorefront()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.LogLevel, Out: os.Stderr})

	storage, closeStorage := openStorage(cfg.StateDir, log)
	defer closeStorage()

	api := apiclient.New(cfg.APIURL, nil)
	sess := session.New(api, storage, log.Component("session"))
	c := cart.New()
	flow := checkout.NewFlow(c, sess, api, api, checkout.Config{CompanyPhone: cfg.CompanyWhatsApp}, log.Component("checkout"))

	out := &syncWriter{w: os.Stdout}
	activity := &lineSource{}
	monitor := inactivity.New(inactivity.Config{
		Timeout:   time.Duration(cfg.InactivityMinutes) * time.Minute,
		Source:    activity,
		OnLogout:  sess.Logout,
		OnExpired: func(n notice.Notice) { out.println("\n⚠ " + n.String()) },
	})
	sess.OnChange(monitor.SetEnabled)

	ctx := context.Background()
	shop := &shop{api: api, sess: sess, cart: c, flow: flow, out: out}
	if sess.Rehydrate(ctx) {
		client, _ := sess.Client()
		out.println("Sesión restaurada: " + client.Name)
	}
	shop.loadCatalog(ctx)
	out.println(help)
	shop.run(ctx, os.Stdin, activity)
}

func openStorage(dir string, log *logger.Logger) (session.Storage, func()) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			log.Warn().Err(err).Msg("sin directorio de estado, la sesión no se guardará")
			return session.NewMemoryStorage(), func() {}
		}
		dir = filepath.Join(base, "alnatural", "tienda")
	}
	st, err := session.OpenBadgerStorage(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("almacenamiento no disponible, la sesión no se guardará")
		return session.NewMemoryStorage(), func() {}
	}
	return st, func() { _ = st.Close() }
}

// lineSource cada línea leída de la terminal cuenta como actividad.
type lineSource struct {
	mu sync.Mutex
	fn func()
}

func (s *lineSource) Subscribe(fn func()) { s.mu.Lock(); s.fn = fn; s.mu.Unlock() }
func (s *lineSource) Unsubscribe()        { s.mu.Lock(); s.fn = nil; s.mu.Unlock() }

func (s *lineSource) activity() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) print(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprint(w.w, s)
}

func (w *syncWriter) println(s string) { w.print(s + "\n") }

type shop struct {
	api      *apiclient.Client
	sess     *session.Session
	cart     *cart.Cart
	flow     *checkout.Flow
	out      *syncWriter
	products map[string]dto.ProductResponse
	order    []string
}

func (s *shop) loadCatalog(ctx context.Context) {
	list, err := s.api.Products(ctx, s.sess.Token())
	if err != nil {
		s.out.println("No se pudo cargar el catálogo: " + err.Error())
		return
	}
	s.products = make(map[string]dto.ProductResponse, len(list.Products))
	s.order = s.order[:0]
	for _, p := range list.Products {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

func (s *shop) run(ctx context.Context, in io.Reader, activity *lineSource) {
	scanner := bufio.NewScanner(in)
	for {
		s.out.print("> ")
		if !scanner.Scan() {
			return
		}
		activity.activity()
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]
		switch cmd {
		case "salir", "exit":
			return
		case "ayuda", "help":
			s.out.println(help)
		case "catalogo":
			s.showCatalog()
		case "login":
			s.login(ctx, strings.Join(args, ""))
		case "logout":
			s.sess.Logout()
			s.loadCatalog(ctx)
			s.out.println(notice.SessionClosed.String())
		case "agregar":
			s.add(args)
		case "quitar":
			if len(args) == 0 {
				s.out.println("uso: quitar <producto> [variante]")
				continue
			}
			s.cart.Remove(args[0], strings.Join(args[1:], " "))
			s.showCart()
		case "eliminar":
			if len(args) == 0 {
				s.out.println("uso: eliminar <producto> [variante]")
				continue
			}
			s.cart.RemoveLine(args[0], strings.Join(args[1:], " "))
			s.showCart()
		case "carrito":
			s.showCart()
		case "vaciar":
			s.cart.Clear()
			s.out.println("Carrito vacío")
		case "enviar":
			s.submit(ctx, strings.Join(args, " "))
		default:
			s.out.println("comando desconocido, escribe ayuda")
		}
	}
}

func (s *shop) login(ctx context.Context, code string) {
	if s.sess.Login(ctx, code) {
		s.out.println(notice.AccessGranted.String())
		s.loadCatalog(ctx)
		s.repriceCart()
		return
	}
	s.out.println(notice.InvalidCode.String())
}

// repriceCart pone a las líneas agregadas sin sesión el precio del catálogo actual.
func (s *shop) repriceCart() {
	prices := make(map[string]decimal.Decimal, len(s.products))
	for id, p := range s.products {
		if p.Price != nil {
			prices[id] = *p.Price
		}
	}
	if s.cart.Reprice(prices) > 0 {
		s.showCart()
	}
}

func (s *shop) showCatalog() {
	priced := s.sess.IsAuthenticated()
	for _, id := range s.order {
		p := s.products[id]
		line := fmt.Sprintf("%-34s %s", p.ID, p.Name)
		if priced && p.Price != nil {
			line += "  $" + p.Price.StringFixed(2)
		}
		if len(p.Variants) > 0 {
			line += "  [" + strings.Join(p.Variants, ", ") + "]"
		}
		s.out.println(line)
	}
	if !priced {
		s.out.println("Ingresa tu código de acceso para ver precios.")
	}
}

func (s *shop) add(args []string) {
	if len(args) == 0 {
		s.out.println("uso: agregar <producto> [variante]")
		return
	}
	p, ok := s.products[args[0]]
	if !ok {
		s.out.println("producto no encontrado: " + args[0])
		return
	}
	price := decimal.Zero
	if p.Price != nil {
		price = *p.Price
	}
	s.cart.Add(cart.Item{ID: p.ID, Name: p.Name, Price: price, Variant: strings.Join(args[1:], " ")})
	s.cart.SetShowDropdown(true)
	s.showCart()
}

func (s *shop) showCart() {
	items := s.cart.Items()
	if len(items) == 0 {
		s.out.println("Carrito vacío")
		return
	}
	priced := s.sess.IsAuthenticated()
	for _, it := range items {
		line := fmt.Sprintf("%3d x %s", it.Quantity, it.Name)
		if it.Variant != "" {
			line += " (" + it.Variant + ")"
		}
		if priced {
			line += "  $" + it.Subtotal().StringFixed(2)
		}
		s.out.println(line)
	}
	if priced {
		s.out.println("Total: $" + s.cart.Total().StringFixed(2))
	}
}

func (s *shop) submit(ctx context.Context, notes string) {
	res, err := s.flow.Submit(ctx, notes)
	if res != nil {
		s.out.println(res.Notice.String())
	}
	if err != nil {
		return
	}
	for _, w := range res.Warnings {
		s.out.println("aviso: " + w)
	}
	s.out.println("\n" + res.Message + "\n")
	s.out.println("Abre o copia este enlace para enviarlo por WhatsApp:\n" + res.Link)
}
