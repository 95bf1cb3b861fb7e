package orders

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

var printer = message.NewPrinter(language.Spanish)

// formatAmount formatea un importe con separadores locales y 2 decimales.
func formatAmount(d decimal.Decimal) string {
	return "$" + printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// BuildOrderNotification texto de WhatsApp que recibe el cliente al registrar su pedido.
func BuildOrderNotification(o *entity.Order, c *entity.Client) string {
	var b strings.Builder
	b.WriteString("Nuevo pedido de " + c.Name + ":\n\n")
	for _, it := range o.Items {
		name := it.DisplayName()
		if it.Variant != "" {
			name += " (" + it.Variant + ")"
		}
		b.WriteString("• " + name + " x")
		b.WriteString(printer.Sprint(it.Quantity))
		b.WriteString(" = " + formatAmount(it.TotalPrice) + "\n")
	}
	b.WriteString("\nTotal: " + formatAmount(o.TotalAmount) + "\n")
	if o.Notes != "" {
		b.WriteString("Notas: " + o.Notes + "\n")
	}
	b.WriteString("\nCliente: " + c.Name)
	if c.Company != "" {
		b.WriteString(" (" + c.Company + ")")
	}
	b.WriteString("\n")
	if c.Email != "" {
		b.WriteString("Email: " + c.Email + "\n")
	}
	if c.Phone != "" {
		b.WriteString("Teléfono: " + c.Phone + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// confirmationText cuerpo en texto plano del correo de confirmación.
func confirmationText(o *entity.Order, c *entity.Client) string {
	var b strings.Builder
	b.WriteString("Hola " + c.Name + ",\n\n")
	b.WriteString("Recibimos tu pedido #" + ShortID(o.ID) + ". Adjuntamos el comprobante.\n\n")
	for _, it := range o.Items {
		b.WriteString("- " + it.DisplayName())
		if it.Variant != "" {
			b.WriteString(" (" + it.Variant + ")")
		}
		b.WriteString(" x" + printer.Sprint(it.Quantity) + ": " + formatAmount(it.TotalPrice) + "\n")
	}
	b.WriteString("\nTotal: " + formatAmount(o.TotalAmount) + "\n\n¡Gracias por tu pedido!")
	return b.String()
}

// ShortID primeros 8 caracteres de un id de pedido.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
