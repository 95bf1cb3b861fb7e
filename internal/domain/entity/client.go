package entity

import "time"

// Client representa un distribuidor habilitado para pedir (perfil público + contacto).
// Email, Phone, Company y City son opcionales; vacío equivale a NULL en base de datos.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	City      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientWithCodes cliente con sus códigos de acceso (listado de administración).
type ClientWithCodes struct {
	Client
	AccessCodes []AccessCode
}

// ClientPatch cambios parciales a un cliente. Un puntero nil deja el campo intacto;
// ClearEmail fuerza email a NULL.
type ClientPatch struct {
	Name       *string
	Email      *string
	ClearEmail bool
	Phone      *string
	Company    *string
	City       *string
}

// Empty indica que el patch no modifica ningún campo.
func (p ClientPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && !p.ClearEmail && p.Phone == nil && p.Company == nil && p.City == nil
}
