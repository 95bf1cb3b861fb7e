package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alnatural-api/internal/storefront/cart"
	"github.com/jhoicas/alnatural-api/internal/storefront/session"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// OrderMessage mensaje de WhatsApp de un pedido con precios, subtotales y total.
func OrderMessage(items []cart.Item, c session.Client, now time.Time) string {
	var b strings.Builder
	b.WriteString("¡Hola! Quisiera hacer el siguiente pedido desde Al Natural:\n\n")
	b.WriteString("📋 *DETALLES DEL PEDIDO:*\n")
	b.WriteString("👤 Cliente: " + nonEmpty(c.Name, "Cliente") + "\n")
	if c.Company != "" {
		b.WriteString("🏢 Empresa: " + c.Company + "\n")
	}
	b.WriteString("📧 Email: " + nonEmpty(c.Email, "No especificado") + "\n\n")

	b.WriteString("🛒 *PRODUCTOS:*\n")
	total := decimal.Zero
	for i, it := range items {
		writeLine(&b, i, it)
		b.WriteString("   💰 Precio unitario: " + money(it.Price) + "\n")
		b.WriteString("   💸 Subtotal: " + money(it.Subtotal()) + "\n\n")
		total = total.Add(it.Subtotal())
	}
	b.WriteString("💳 *TOTAL DEL PEDIDO: " + money(total.Round(2)) + "*\n\n")

	writeTimestamp(&b, now)
	b.WriteString("¡Gracias por su atención! 😊")
	return b.String()
}

// QuoteMessage solicitud de cotización: productos, variantes y cantidades, sin precios.
func QuoteMessage(items []cart.Item, now time.Time) string {
	var b strings.Builder
	b.WriteString("¡Hola! Me gustaría solicitar una cotización para los siguientes productos de Al Natural:\n\n")
	b.WriteString("🛒 *PRODUCTOS:*\n")
	for i, it := range items {
		writeLine(&b, i, it)
		b.WriteString("\n")
	}
	writeTimestamp(&b, now)
	b.WriteString("¿Podrían proporcionarme una cotización para estos productos? ¡Gracias! 😊")
	return b.String()
}

func writeLine(b *strings.Builder, i int, it cart.Item) {
	b.WriteString(strconv.Itoa(i+1) + ". " + nonEmpty(it.Name, it.ID) + "\n")
	if it.Variant != "" {
		b.WriteString("   📝 Variante: " + it.Variant + "\n")
	}
	b.WriteString("   📦 Cantidad: " + strconv.Itoa(it.Quantity) + "\n")
}

// Fecha d/m/aaaa y hora 24h.
func writeTimestamp(b *strings.Builder, now time.Time) {
	b.WriteString("📅 Fecha: " + now.Format("2/1/2006") + "\n")
	b.WriteString("🕐 Hora: " + now.Format("15:04:05") + "\n\n")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
