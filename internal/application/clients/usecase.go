package clients

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/application/ports"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

// Mensajes de respuesta.
const (
	MsgCreatedManual = "Cliente creado exitosamente. Código de acceso disponible para envío manual"
	MsgCreatedMailed = "Cliente creado exitosamente. Código de acceso enviado por email"
	MsgUpdated       = "Cliente actualizado exitosamente"
	MsgActivated     = "Cliente activado exitosamente"
	MsgDeactivated   = "Cliente desactivado exitosamente"
)

// ClientTxRunner ejecuta fn en una transacción con repos de clientes y códigos.
type ClientTxRunner interface {
	RunClient(ctx context.Context, fn func(
		clients repository.ClientRepository,
		codes repository.AccessCodeRepository,
	) error) error
}

// ClientsUseCase administración de clientes: alta, listado, edición y estado.
type ClientsUseCase struct {
	tx      ClientTxRunner
	clients repository.ClientRepository
	mailer  ports.Mailer // nil: sin correo de bienvenida
	log     zerolog.Logger
	now     func() time.Time
}

// NewClientsUseCase construye el caso de uso. mailer puede ser nil.
func NewClientsUseCase(tx ClientTxRunner, clients repository.ClientRepository, mailer ports.Mailer, log zerolog.Logger) *ClientsUseCase {
	return &ClientsUseCase{tx: tx, clients: clients, mailer: mailer, log: log, now: time.Now}
}

// Create inserta el cliente y su primer código de acceso en una sola transacción.
// El correo de bienvenida es opcional: si falla, el alta se mantiene y se informa como aviso.
func (uc *ClientsUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.CreateClientResponse, error) {
	now := uc.now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		City:      strings.TrimSpace(in.City),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var code string
	err := uc.tx.RunClient(ctx, func(clients repository.ClientRepository, codes repository.AccessCodeRepository) error {
		if err := clients.Create(ctx, client); err != nil {
			return err
		}
		generated, err := codes.GenerateCode(ctx)
		if err != nil {
			return fmt.Errorf("generar código de acceso: %w", err)
		}
		code = generated
		return codes.Create(ctx, &entity.AccessCode{
			ID:        uuid.New().String(),
			Code:      code,
			ClientID:  client.ID,
			IsActive:  true,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	out := &dto.CreateClientResponse{
		Success:    true,
		Client:     ToClientResponse(client),
		AccessCode: code,
		Message:    MsgCreatedManual,
	}
	if uc.mailer != nil && client.Email != "" {
		if err := uc.mailer.Send(ctx, welcomeMail(client, code)); err != nil {
			uc.log.Warn().Err(err).Str("client_id", client.ID).Msg("correo de bienvenida no enviado")
			out.Warnings = append(out.Warnings, "email: no se pudo enviar el código de acceso")
		} else {
			out.Message = MsgCreatedMailed
		}
	}
	uc.log.Info().Str("client_id", client.ID).Str("company", client.Company).Msg("cliente creado")
	return out, nil
}

// List devuelve todos los clientes, más recientes primero, con sus códigos.
func (uc *ClientsUseCase) List(ctx context.Context) (*dto.ListClientsResponse, error) {
	list, err := uc.clients.ListWithCodes(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ListClientsResponse{Clients: make([]dto.ClientWithCodesResponse, 0, len(list))}
	for _, c := range list {
		item := dto.ClientWithCodesResponse{
			ClientResponse: ToClientResponse(&c.Client),
			AccessCodes:    make([]dto.AccessCodeResponse, 0, len(c.AccessCodes)),
		}
		for _, a := range c.AccessCodes {
			item.AccessCodes = append(item.AccessCodes, dto.AccessCodeResponse{
				Code:      a.Code,
				IsActive:  a.IsActive,
				ExpiresAt: a.ExpiresAt,
				CreatedAt: a.CreatedAt,
			})
		}
		out.Clients = append(out.Clients, item)
	}
	return out, nil
}

// Update aplica solo los campos presentes. in debe venir normalizado (ver dto.UpdateClientRequest.Normalize).
func (uc *ClientsUseCase) Update(ctx context.Context, in dto.UpdateClientRequest) (*dto.UpdateClientResponse, error) {
	patch := entity.ClientPatch{
		Name:       in.Name,
		Email:      in.Email,
		ClearEmail: in.ClearEmail,
		Phone:      in.Phone,
		Company:    in.Company,
		City:       in.City,
	}
	var (
		client *entity.Client
		err    error
	)
	if patch.Empty() {
		client, err = uc.clients.GetByID(ctx, in.ClientID)
	} else {
		client, err = uc.clients.Update(ctx, in.ClientID, patch)
	}
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.UpdateClientResponse{Message: MsgUpdated, Client: ToClientResponse(client)}, nil
}

// UpdateStatus activa o desactiva un cliente.
func (uc *ClientsUseCase) UpdateStatus(ctx context.Context, clientID string, active bool) (*dto.UpdateClientStatusResponse, error) {
	client, err := uc.clients.SetActive(ctx, clientID, active)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	msg := MsgDeactivated
	if active {
		msg = MsgActivated
	}
	uc.log.Info().Str("client_id", clientID).Bool("is_active", active).Msg("estado de cliente actualizado")
	return &dto.UpdateClientStatusResponse{Success: true, Client: ToClientResponse(client), Message: msg}, nil
}

// ToClientResponse convierte la entidad al DTO.
func ToClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		City:      c.City,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func welcomeMail(c *entity.Client, code string) ports.MailMessage {
	name := html.EscapeString(c.Name)
	return ports.MailMessage{
		To:      c.Email,
		ToName:  c.Name,
		Subject: "Tu código de acceso Al Natural",
		HTMLBody: "<p>Hola " + name + ",</p>" +
			"<p>Ya puedes ver precios y hacer pedidos en nuestra tienda de distribuidores.</p>" +
			"<p>Tu código de acceso es: <strong>" + html.EscapeString(code) + "</strong></p>" +
			"<p>¡Gracias por confiar en Al Natural!</p>",
		TextBody: "Hola " + c.Name + ",\n\nTu código de acceso Al Natural es: " + code +
			"\n\n¡Gracias por confiar en Al Natural!",
	}
}
