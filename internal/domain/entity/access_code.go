package entity

import "time"

// AccessCode código emitido a un cliente; quien lo presenta actúa como ese cliente.
type AccessCode struct {
	ID        string
	Code      string
	ClientID  string
	IsActive  bool
	ExpiresAt *time.Time // nil = no vence
	CreatedAt time.Time
}

// Usable indica si el código está activo y no ha vencido en el instante now.
func (a AccessCode) Usable(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
