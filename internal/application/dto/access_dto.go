package dto

// ValidateAccessCodeRequest cuerpo de POST /api/access-codes/validate.
type ValidateAccessCodeRequest struct {
	Code string `json:"code"`
}

// ValidateAccessCodeResponse resultado de validar un código. Si Valid es false
// los campos del cliente y el token van vacíos.
type ValidateAccessCodeResponse struct {
	Valid         bool   `json:"valid"`
	ClientID      string `json:"client_id,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	ClientEmail   string `json:"client_email,omitempty"`
	ClientCompany string `json:"client_company,omitempty"`
	Message       string `json:"message"`
	Token         string `json:"token,omitempty"`
}

// LinkClientRequest vincula la cuenta autenticada a un cliente mediante su código.
type LinkClientRequest struct {
	AccessCode string `json:"accessCode" validate:"required,max=64"`
}

// ClientSummary datos públicos de un cliente.
type ClientSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// LinkClientResponse resultado de link-client.
type LinkClientResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Client  *ClientSummary `json:"client,omitempty"`
}

// LinkUserClientRequest vincula la cuenta autenticada a un cliente por id.
type LinkUserClientRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
}

// LinkUserClientResponse resultado de link-user-client.
type LinkUserClientResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LinkID  string `json:"link_id"`
}
