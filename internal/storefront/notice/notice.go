// Package notice avisos breves que la tienda muestra al usuario.
package notice

// Notice título y descripción de un aviso.
type Notice struct {
	Title       string
	Description string
	Error       bool
}

func (n Notice) String() string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + ": " + n.Description
}

// Avisos.
var (
	AccessGranted = Notice{Title: "Acceso concedido", Description: "Ahora puedes ver precios y realizar pedidos"}
	InvalidCode   = Notice{Title: "Código inválido", Description: "El código ingresado no es válido. Contacta a tu asesor.", Error: true}
	SessionClosed = Notice{Title: "Sesión cerrada", Description: "Has cerrado sesión correctamente"}
	// SessionExpired se muestra al cerrar la sesión por inactividad.
	SessionExpired = Notice{Title: "Sesión expirada", Description: "Tu sesión ha expirado por inactividad. Por favor, vuelve a ingresar tu código de acceso.", Error: true}

	EmptyCart   = Notice{Title: "Carrito vacío", Description: "Agrega productos al carrito antes de enviar el pedido.", Error: true}
	OrderFailed = Notice{Title: "Error al crear pedido", Description: "No se pudo registrar el pedido. Por favor intenta nuevamente.", Error: true}
	QuoteReady  = Notice{Title: "Solicitud de cotización", Description: "Envía tu solicitud por WhatsApp para recibir precios"}
)

// OrderPlaced aviso de pedido registrado con los primeros 8 caracteres del id.
func OrderPlaced(orderID string) Notice {
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return Notice{Title: "¡Pedido registrado!", Description: "Pedido #" + short + " creado exitosamente"}
}
