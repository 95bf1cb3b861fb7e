package dto

import (
	"strings"
	"time"
)

// CreateClientRequest cuerpo de create-client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Company string `json:"company" validate:"omitempty,max=100"`
	City    string `json:"city" validate:"omitempty,max=50"`
}

// ClientResponse cliente serializado.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessCodeResponse código de acceso anidado en el listado de clientes.
type AccessCodeResponse struct {
	Code      string     `json:"code"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateClientResponse resultado de create-client.
type CreateClientResponse struct {
	Success    bool           `json:"success"`
	Client     ClientResponse `json:"client"`
	AccessCode string         `json:"accessCode"`
	Message    string         `json:"message"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// ClientWithCodesResponse cliente con sus códigos.
type ClientWithCodesResponse struct {
	ClientResponse
	AccessCodes []AccessCodeResponse `json:"access_codes"`
}

// ListClientsResponse resultado de list-clients.
type ListClientsResponse struct {
	Clients []ClientWithCodesResponse `json:"clients"`
}

// UpdateClientRequest cuerpo de update-client. Los campos ausentes no se modifican;
// email "" borra el email.
type UpdateClientRequest struct {
	ClientID string  `json:"clientId" validate:"required,uuid"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Company  *string `json:"company" validate:"omitempty,max=100"`
	City     *string `json:"city" validate:"omitempty,max=50"`

	ClearEmail bool `json:"-"`
}

// Normalize recorta los campos presentes y convierte email "" en ClearEmail.
func (r *UpdateClientRequest) Normalize() {
	r.ClientID = strings.TrimSpace(r.ClientID)
	for _, f := range []*string{r.Name, r.Email, r.Phone, r.Company, r.City} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.Email != nil && *r.Email == "" {
		r.Email = nil
		r.ClearEmail = true
	}
}

// Normalize recorta todos los campos.
func (r *CreateClientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.City = strings.TrimSpace(r.City)
}

// UpdateClientResponse resultado de update-client.
type UpdateClientResponse struct {
	Message string         `json:"message"`
	Client  ClientResponse `json:"client"`
}

// UpdateClientStatusRequest cuerpo de update-client-status.
type UpdateClientStatusRequest struct {
	ClientID string `json:"clientId" validate:"required,uuid"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// UpdateClientStatusResponse resultado de update-client-status.
type UpdateClientStatusResponse struct {
	Success bool           `json:"success"`
	Client  ClientResponse `json:"client"`
	Message string         `json:"message"`
}
