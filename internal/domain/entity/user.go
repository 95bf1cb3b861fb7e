package entity

import "time"

// Roles conocidos en user_roles.
const (
	RoleAdmin = "admin"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User cuenta de la plataforma (administradores y usuarios vinculados a clientes).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserClient vínculo entre una cuenta y el cliente por el que puede pedir.
type UserClient struct {
	ID        string
	UserID    string
	ClientID  string
	CreatedAt time.Time
}
