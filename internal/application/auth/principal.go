package auth

import "github.com/jhoicas/alnatural-api/pkg/jwt"

// Principal identidad autenticada de una petición.
type Principal struct {
	Kind     string // jwt.KindUser | jwt.KindAccess
	UserID   string
	ClientID string
}

// PrincipalFromClaims construye el Principal a partir de los claims del token.
func PrincipalFromClaims(c *jwt.Claims) Principal {
	if c == nil {
		return Principal{}
	}
	return Principal{Kind: c.Kind, UserID: c.UserID, ClientID: c.ClientID}
}

// IsUser indica una sesión de cuenta de usuario.
func (p Principal) IsUser() bool { return p.Kind == jwt.KindUser && p.UserID != "" }

// IsAccess indica una sesión abierta con código de acceso.
func (p Principal) IsAccess() bool { return p.Kind == jwt.KindAccess && p.ClientID != "" }
