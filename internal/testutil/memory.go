// Package testutil repositorios en memoria para tests de casos de uso y handlers.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository     = (*Store)(nil)
	_ repository.AccessCodeRepository = (*CodeRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.UserClientRepository = (*LinkRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.OrderRepository      = (*OrderRepo)(nil)
)

// Store base de datos en memoria. Los repos comparten su mutex.
type Store struct {
	mu       sync.Mutex
	clients  map[string]*entity.Client
	codes    map[string]*entity.AccessCode
	users    map[string]*entity.User
	roles    map[string]map[string]bool
	links    []*entity.UserClient
	products map[string]*entity.Product
	orders   map[string]*entity.Order
	seq      int

	// FailWrites, si no es nil, hace fallar toda escritura con ese error.
	FailWrites error
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		clients:  map[string]*entity.Client{},
		codes:    map[string]*entity.AccessCode{},
		users:    map[string]*entity.User{},
		roles:    map[string]map[string]bool{},
		products: map[string]*entity.Product{},
		orders:   map[string]*entity.Order{},
	}
}

// Codes, Users, Links, Products y Orders devuelven los repos sobre el mismo Store.
func (s *Store) Codes() *CodeRepo       { return &CodeRepo{s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{s} }
func (s *Store) Links() *LinkRepo       { return &LinkRepo{s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s} }
func (s *Store) Orders() *OrderRepo     { return &OrderRepo{s} }

// ── Seeds ───────────────────────────────────────────────────────────────────

// AddClient inserta un cliente tal cual.
func (s *Store) AddClient(c entity.Client) *entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		s.seq++
		c.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Minute)
		c.UpdatedAt = c.CreatedAt
	}
	cp := c
	s.clients[c.ID] = &cp
	return &cp
}

// AddCode inserta un código de acceso.
func (s *Store) AddCode(a entity.AccessCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := a
	s.codes[a.Code] = &cp
}

// AddUser inserta un usuario con los roles indicados.
func (s *Store) AddUser(u entity.User, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.users[u.ID] = &cp
	for _, r := range roles {
		if s.roles[u.ID] == nil {
			s.roles[u.ID] = map[string]bool{}
		}
		s.roles[u.ID][r] = true
	}
}

// AddLink inserta un vínculo usuario ↔ cliente.
func (s *Store) AddLink(l entity.UserClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := l
	s.links = append(s.links, &cp)
}

// AddProduct inserta un producto.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[p.ID] = &cp
}

// OrderCount número de pedidos persistidos.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// LinkCount número de vínculos usuario ↔ cliente.
func (s *Store) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// CodesForClient códigos de un cliente.
func (s *Store) CodesForClient(clientID string) []entity.AccessCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.AccessCode
	for _, c := range s.codes {
		if c.ClientID == clientID {
			out = append(out, *c)
		}
	}
	return out
}

func (s *Store) failing() error {
	return s.FailWrites
}

// ── ClientRepository ────────────────────────────────────────────────────────

func (s *Store) Create(_ context.Context, c *entity.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing(); err != nil {
		return err
	}
	if c.Email != "" && s.emailTaken(c.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	cp := *c
	s.clients[c.ID] = &cp
	return nil
}

func (s *Store) emailTaken(email, exceptID string) bool {
	for _, other := range s.clients {
		if other.ID != exceptID && strings.EqualFold(other.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) GetByID(_ context.Context, id string) (*entity.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListWithCodes(_ context.Context) ([]*entity.ClientWithCodes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.ClientWithCodes, 0, len(s.clients))
	for _, c := range s.clients {
		item := &entity.ClientWithCodes{Client: *c}
		for _, code := range s.codes {
			if code.ClientID == c.ID {
				item.AccessCodes = append(item.AccessCodes, *code)
			}
		}
		sort.Slice(item.AccessCodes, func(i, j int) bool {
			return item.AccessCodes[i].CreatedAt.After(item.AccessCodes[j].CreatedAt)
		})
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Update(_ context.Context, id string, p entity.ClientPatch) (*entity.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing(); err != nil {
		return nil, err
	}
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	if p.Email != nil && s.emailTaken(*p.Email, id) {
		return nil, domain.ErrEmailAlreadyExists
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ClearEmail {
		c.Email = ""
	} else if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.City != nil {
		c.City = *p.City
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (s *Store) SetActive(_ context.Context, id string, active bool) (*entity.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing(); err != nil {
		return nil, err
	}
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	c.IsActive = active
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

// ── AccessCodeRepository ────────────────────────────────────────────────────

// CodeRepo códigos de acceso en memoria.
type CodeRepo struct{ s *Store }

func (r *CodeRepo) GenerateCode(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	return fmt.Sprintf("TEST%04d", r.s.seq), nil
}

func (r *CodeRepo) Create(_ context.Context, a *entity.AccessCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing(); err != nil {
		return err
	}
	if _, ok := r.s.codes[a.Code]; ok {
		return domain.ErrDuplicate
	}
	cp := *a
	r.s.codes[a.Code] = &cp
	return nil
}

func (r *CodeRepo) FindByCode(_ context.Context, code string) (*entity.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.codes[code]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *CodeRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.codes {
		if a.IsActive && a.ExpiresAt != nil && a.ExpiresAt.Before(now) {
			a.IsActive = false
			n++
		}
	}
	return n, nil
}

// ── UserRepository ──────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.roles[userID][role], nil
}

// ── UserClientRepository ────────────────────────────────────────────────────

// LinkRepo vínculos usuario ↔ cliente en memoria.
type LinkRepo struct{ s *Store }

func (r *LinkRepo) Find(_ context.Context, userID, clientID string) (*entity.UserClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.links {
		if l.UserID == userID && l.ClientID == clientID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *LinkRepo) Create(_ context.Context, l *entity.UserClient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.links {
		if other.UserID == l.UserID && other.ClientID == l.ClientID {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.s.links = append(r.s.links, &cp)
	return nil
}

func (r *LinkRepo) FirstByUser(_ context.Context, userID string) (*entity.UserClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.links {
		if l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

// ── ProductRepository ───────────────────────────────────────────────────────

// ProductRepo catálogo en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	p.Price = price
	return true, nil
}

// ── OrderRepository ─────────────────────────────────────────────────────────

// OrderRepo pedidos en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failing(); err != nil {
		return err
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

// ── Transacciones ───────────────────────────────────────────────────────────

// RunOrder ejecuta fn y, si falla, descarta los pedidos creados dentro.
func (s *Store) RunOrder(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	s.mu.Lock()
	before := make(map[string]*entity.Order, len(s.orders))
	for k, v := range s.orders {
		before[k] = v
	}
	s.mu.Unlock()

	if err := fn(s.Orders()); err != nil {
		s.mu.Lock()
		s.orders = before
		s.mu.Unlock()
		return err
	}
	return nil
}

// RunClient ejecuta fn y, si falla, descarta clientes y códigos creados dentro.
func (s *Store) RunClient(ctx context.Context, fn func(clients repository.ClientRepository, codes repository.AccessCodeRepository) error) error {
	s.mu.Lock()
	clients := make(map[string]*entity.Client, len(s.clients))
	for k, v := range s.clients {
		clients[k] = v
	}
	codes := make(map[string]*entity.AccessCode, len(s.codes))
	for k, v := range s.codes {
		codes[k] = v
	}
	s.mu.Unlock()

	if err := fn(s, s.Codes()); err != nil {
		s.mu.Lock()
		s.clients = clients
		s.codes = codes
		s.mu.Unlock()
		return err
	}
	return nil
}
