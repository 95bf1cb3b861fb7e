// Package cart carrito de compras de la tienda: líneas identificadas por
// (producto, variante) que acumulan cantidad. No se persiste.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Item línea del carrito.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Variant  string
}

// Subtotal precio × cantidad.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type key struct {
	id      string
	variant string
}

// Cart colección de líneas en orden de inserción. Seguro para uso concurrente.
type Cart struct {
	mu           sync.Mutex
	lines        []*Item
	index        map[key]*Item
	showDropdown bool
}

// New crea un carrito vacío.
func New() *Cart {
	return &Cart{index: make(map[key]*Item)}
}

// Add suma 1 a la línea (id, variante) o la crea con cantidad 1.
// Una línea existente conserva el nombre y precio con que se creó.
func (c *Cart) Add(it Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key{it.ID, it.Variant}
	if line, ok := c.index[k]; ok {
		line.Quantity++
		return
	}
	line := &Item{ID: it.ID, Name: it.Name, Price: it.Price, Variant: it.Variant, Quantity: 1}
	c.lines = append(c.lines, line)
	c.index[k] = line
}

// Remove resta 1 a la línea; al llegar a 0 la elimina. Sin la línea no hace nada.
func (c *Cart) Remove(id, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key{id, variant}
	line, ok := c.index[k]
	if !ok {
		return
	}
	line.Quantity--
	if line.Quantity <= 0 {
		c.deleteLocked(k)
	}
}

// Reprice actualiza el precio de las líneas cuyos productos figuran en prices
// (todas sus variantes) y devuelve cuántas cambiaron. Add nunca cambia precios;
// esto es para cuando la sesión pasa a ver el catálogo con precios.
func (c *Cart) Reprice(prices map[string]decimal.Decimal) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := 0
	for _, l := range c.lines {
		p, ok := prices[l.ID]
		if !ok || p.Equal(l.Price) {
			continue
		}
		l.Price = p
		changed++
	}
	return changed
}

// RemoveLine elimina la línea completa.
func (c *Cart) RemoveLine(id, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(key{id, variant})
}

func (c *Cart) deleteLocked(k key) {
	line, ok := c.index[k]
	if !ok {
		return
	}
	delete(c.index, k)
	for i, l := range c.lines {
		if l == line {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

// Quantity cantidad de la línea; 0 si no existe.
func (c *Cart) Quantity(id, variant string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.index[key{id, variant}]; ok {
		return line.Quantity
	}
	return 0
}

// TotalItems suma de cantidades.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total Σ precio × cantidad.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Items copia de las líneas en orden de inserción.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, *l)
	}
	return out
}

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.index = make(map[key]*Item)
}

// ShowDropdown visibilidad de la vista del carrito, compartida por todas las pantallas.
func (c *Cart) ShowDropdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showDropdown
}

func (c *Cart) SetShowDropdown(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showDropdown = show
}
