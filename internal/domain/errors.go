package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Códigos de acceso y clientes.
	ErrInvalidAccessCode = errors.New("código de acceso inválido")
	ErrClientInactive    = errors.New("el cliente está inactivo")
	ErrNoLinkedClient    = errors.New("usuario no tiene un cliente asociado")

	// Catálogo.
	ErrPriceOutOfRange = errors.New("el precio debe estar entre $0 y $1,000,000")

	// Pedidos.
	ErrNoValidItems = errors.New("el pedido no contiene productos válidos")
	ErrDependency   = errors.New("fallo de un servicio requerido")
)
