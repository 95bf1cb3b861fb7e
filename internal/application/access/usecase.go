package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
	"github.com/jhoicas/alnatural-api/pkg/jwt"
)

// Mensajes de validación de códigos.
const (
	MsgCodeRequired   = "Código de acceso requerido"
	MsgCodeInvalid    = "Código de acceso inválido"
	MsgCodeExpired    = "Código de acceso expirado o inactivo"
	MsgClientInactive = "Cliente inactivo"
	MsgCodeValid      = "Código válido"

	MsgAlreadyLinked  = "Ya tienes acceso a este cliente"
	MsgLinked         = "Acceso concedido exitosamente"
	MsgUserLinkExists = "El usuario ya está vinculado a este cliente"
	MsgUserLinked     = "Usuario vinculado al cliente exitosamente"
)

// ErrEmailMismatch la cuenta no tiene el email del cliente: el vínculo directo
// por id no procede y se debe usar el código de acceso.
var ErrEmailMismatch = fmt.Errorf("%w: el email de la cuenta no coincide con el del cliente", domain.ErrForbidden)

// NormalizeCode recorta espacios y pasa a mayúsculas.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// AccessUseCase validación de códigos de acceso y vínculos usuario ↔ cliente.
type AccessUseCase struct {
	codes   repository.AccessCodeRepository
	clients repository.ClientRepository
	links   repository.UserClientRepository
	users   repository.UserRepository
	jwtCfg  auth.JWTConfig
	now     func() time.Time
}

// NewAccessUseCase construye el caso de uso.
func NewAccessUseCase(
	codes repository.AccessCodeRepository,
	clients repository.ClientRepository,
	links repository.UserClientRepository,
	users repository.UserRepository,
	jwtCfg auth.JWTConfig,
) *AccessUseCase {
	return &AccessUseCase{codes: codes, clients: clients, links: links, users: users, jwtCfg: jwtCfg, now: time.Now}
}

// Validate normaliza y valida un código. Un código rechazado no es error: se
// devuelve Valid=false con el motivo. El error queda para fallos de infraestructura.
func (uc *AccessUseCase) Validate(ctx context.Context, code string) (*dto.ValidateAccessCodeResponse, error) {
	client, reason, err := uc.resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return &dto.ValidateAccessCodeResponse{Valid: false, Message: reason}, nil
	}
	token, err := jwt.GenerateAccess(uc.jwtCfg.Secret, client.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateAccessCodeResponse{
		Valid:         true,
		ClientID:      client.ID,
		ClientName:    client.Name,
		ClientEmail:   client.Email,
		ClientCompany: client.Company,
		Message:       MsgCodeValid,
		Token:         token,
	}, nil
}

// resolve devuelve el cliente del código, o nil y el motivo del rechazo.
func (uc *AccessUseCase) resolve(ctx context.Context, raw string) (*entity.Client, string, error) {
	code := NormalizeCode(raw)
	if code == "" {
		return nil, MsgCodeRequired, nil
	}
	ac, err := uc.codes.FindByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if ac == nil {
		return nil, MsgCodeInvalid, nil
	}
	if !ac.Usable(uc.now()) {
		return nil, MsgCodeExpired, nil
	}
	client, err := uc.clients.GetByID(ctx, ac.ClientID)
	if err != nil {
		return nil, "", err
	}
	if client == nil || !client.IsActive {
		return nil, MsgClientInactive, nil
	}
	return client, "", nil
}

// LinkClient vincula la cuenta userID al cliente del código. Es idempotente.
// Un código rechazado devuelve domain.ErrInvalidAccessCode junto con la respuesta.
func (uc *AccessUseCase) LinkClient(ctx context.Context, userID, code string) (*dto.LinkClientResponse, error) {
	client, reason, err := uc.resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return &dto.LinkClientResponse{Success: false, Message: reason}, domain.ErrInvalidAccessCode
	}
	summary := &dto.ClientSummary{ID: client.ID, Name: client.Name, Email: client.Email, Company: client.Company}

	existing, err := uc.links.Find(ctx, userID, client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.LinkClientResponse{Success: true, Message: MsgAlreadyLinked, Client: summary}, nil
	}
	if _, err := uc.createLink(ctx, userID, client.ID); err != nil {
		return nil, err
	}
	return &dto.LinkClientResponse{Success: true, Message: MsgLinked, Client: summary}, nil
}

// LinkUserClient vincula la cuenta userID a clientID. Es idempotente. Un vínculo
// nuevo exige que la cuenta tenga el mismo email que el cliente (ErrEmailMismatch).
func (uc *AccessUseCase) LinkUserClient(ctx context.Context, userID, clientID string) (*dto.LinkUserClientResponse, error) {
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.links.Find(ctx, userID, client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.LinkUserClientResponse{Success: true, Message: MsgUserLinkExists, LinkID: existing.ID}, nil
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !sameEmail(user.Email, client.Email) {
		return nil, ErrEmailMismatch
	}
	link, err := uc.createLink(ctx, userID, client.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LinkUserClientResponse{Success: true, Message: MsgUserLinked, LinkID: link.ID}, nil
}

func sameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func (uc *AccessUseCase) createLink(ctx context.Context, userID, clientID string) (*entity.UserClient, error) {
	link := &entity.UserClient{
		ID:        uuid.New().String(),
		UserID:    userID,
		ClientID:  clientID,
		CreatedAt: uc.now(),
	}
	if err := uc.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// ClientForPrincipal resuelve el cliente por el que actúa la sesión: el del
// código para sesiones de acceso, el primer vínculo para cuentas de usuario.
func (uc *AccessUseCase) ClientForPrincipal(ctx context.Context, p auth.Principal) (*entity.Client, error) {
	var clientID string
	switch {
	case p.IsAccess():
		clientID = p.ClientID
	case p.IsUser():
		link, err := uc.links.FirstByUser(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			return nil, domain.ErrNoLinkedClient
		}
		clientID = link.ClientID
	default:
		return nil, domain.ErrUnauthorized
	}

	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNoLinkedClient
	}
	if !client.IsActive {
		return nil, domain.ErrClientInactive
	}
	return client, nil
}
