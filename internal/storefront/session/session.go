// Package session sesión de distribuidor de la tienda: anónima o autenticada
// con el cliente de un código de acceso validado contra la API.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Client datos públicos del cliente de la sesión.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// Validation resultado de validar un código en el servidor.
type Validation struct {
	Valid   bool
	Client  Client
	Message string
	Token   string
}

// Validator valida códigos de acceso. El error queda para fallos de red o del servidor;
// un código rechazado es Valid=false.
type Validator interface {
	ValidateAccessCode(ctx context.Context, code string) (*Validation, error)
}

// Session estado de autenticación. Seguro para uso concurrente.
type Session struct {
	validator Validator
	storage   Storage
	log       zerolog.Logger

	mu        sync.Mutex
	client    *Client
	code      string
	token     string
	observers []func(authenticated bool)
}

// New crea una sesión anónima.
func New(validator Validator, storage Storage, log zerolog.Logger) *Session {
	return &Session{validator: validator, storage: storage, log: log}
}

// OnChange registra fn para cada cambio entre anónima y autenticada.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// IsAuthenticated indica si hay un cliente vinculado.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// Client cliente de la sesión; ok=false si es anónima.
func (s *Session) Client() (Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return Client{}, false
	}
	return *s.client, true
}

// Token token de sesión emitido por la API; "" si es anónima.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login valida code; si es aceptado persiste la sesión y pasa a autenticada.
// Códigos rechazados y fallos de red devuelven false.
func (s *Session) Login(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	v, err := s.validator.ValidateAccessCode(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo validar el código de acceso")
		return false
	}
	if v == nil || !v.Valid {
		return false
	}
	s.authenticate(code, v)
	return true
}

// ValidateAccessCode alias de Login.
func (s *Session) ValidateAccessCode(ctx context.Context, code string) bool {
	return s.Login(ctx, code)
}

// Logout borra la sesión en memoria y en el almacenamiento.
func (s *Session) Logout() {
	s.mu.Lock()
	was := s.client != nil
	s.client, s.code, s.token = nil, "", ""
	s.mu.Unlock()

	if err := s.storage.Delete(allKeys...); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo borrar la sesión guardada")
	}
	if was {
		s.notify(false)
	}
}

// Rehydrate restaura la sesión guardada revalidando el código contra la API.
//   - Código rechazado: se borra el almacenamiento y la sesión queda anónima.
//   - API inalcanzable: la sesión queda anónima pero se conserva lo guardado.
//   - Código aceptado: sesión autenticada con los datos actualizados.
func (s *Session) Rehydrate(ctx context.Context) bool {
	code, ok, err := s.storage.Get(KeyAccessCode)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo leer la sesión guardada")
		return false
	}
	if !ok || strings.TrimSpace(code) == "" {
		return false
	}
	v, err := s.validator.ValidateAccessCode(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo revalidar la sesión guardada")
		return false
	}
	if v == nil || !v.Valid {
		s.log.Info().Msg("código guardado ya no es válido, se borra la sesión")
		if err := s.storage.Delete(allKeys...); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo borrar la sesión guardada")
		}
		return false
	}
	s.authenticate(code, v)
	return true
}

func (s *Session) authenticate(code string, v *Validation) {
	client := v.Client
	s.mu.Lock()
	was := s.client != nil
	s.client, s.code, s.token = &client, code, v.Token
	s.mu.Unlock()

	s.persist(code, client, v.Token)
	if !was {
		s.notify(true)
	}
}

// persist guarda la sesión. Un fallo no invalida la sesión en memoria.
func (s *Session) persist(code string, c Client, token string) {
	blob, err := json.Marshal(c)
	if err != nil {
		s.log.Warn().Err(err).Msg("serializar cliente")
		return
	}
	for key, value := range map[string]string{
		KeyClient:       string(blob),
		KeyAccessCode:   code,
		KeySessionToken: token,
	} {
		if err := s.storage.Set(key, value); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la sesión")
		}
	}
}

func (s *Session) notify(authenticated bool) {
	s.mu.Lock()
	observers := append([]func(bool){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(authenticated)
	}
}
