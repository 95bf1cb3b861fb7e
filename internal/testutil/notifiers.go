package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/alnatural-api/internal/application/ports"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
)

// Forwarder registra los pedidos reenviados; Err simula un dashboard caído.
type Forwarder struct {
	mu     sync.Mutex
	Err    error
	Orders []ports.DashboardOrder
}

func (f *Forwarder) ForwardOrder(_ context.Context, o ports.DashboardOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Orders = append(f.Orders, o)
	return nil
}

// SentText mensaje enviado por Messenger.
type SentText struct {
	To   string
	Body string
}

// Messenger registra los mensajes de WhatsApp.
type Messenger struct {
	mu   sync.Mutex
	Err  error
	Sent []SentText
}

func (m *Messenger) SendText(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentText{To: to, Body: body})
	return nil
}

// Mailer registra los correos.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	Sent []ports.MailMessage
}

func (m *Mailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Receipts devuelve un PDF falso.
type Receipts struct {
	Err error
}

func (r *Receipts) RenderOrderReceipt(o *entity.Order, _ *entity.Client) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-1.4 " + o.ID), nil
}
