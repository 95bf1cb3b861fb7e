package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jhoicas/alnatural-api/internal/application/ports"
	"github.com/jhoicas/alnatural-api/pkg/whatsapp"
)

var _ ports.Messenger = (*WhatsAppClient)(nil)

// WhatsAppClient envía mensajes de texto por WhatsApp Cloud API.
type WhatsAppClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

type waTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             waText `json:"text"`
}

type waText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// NewWhatsAppClient construye el cliente para apiBase/{phoneID}/messages.
func NewWhatsAppClient(apiBase, phoneID, token string, httpClient *http.Client) *WhatsAppClient {
	return &WhatsAppClient{
		endpoint:   strings.TrimRight(apiBase, "/") + "/" + phoneID + "/messages",
		token:      token,
		httpClient: newHTTPClient(httpClient),
	}
}

// SendText envía body al número to (se normaliza a solo dígitos).
func (c *WhatsAppClient) SendText(ctx context.Context, to, body string) error {
	digits := whatsapp.DigitsOnly(to)
	if digits == "" {
		return errors.New("whatsapp: número de destino vacío")
	}
	msg := waTextMessage{
		MessagingProduct: "whatsapp",
		To:               digits,
		Type:             "text",
		Text:             waText{Body: body},
	}
	return postJSON(ctx, c.httpClient, "whatsapp", c.endpoint, map[string]string{"Authorization": "Bearer " + c.token}, msg)
}
