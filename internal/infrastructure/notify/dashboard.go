package notify

import (
	"context"
	"net/http"

	"github.com/jhoicas/alnatural-api/internal/application/ports"
)

var _ ports.OrderForwarder = (*DashboardClient)(nil)

// DashboardClient reenvía pedidos al webhook del dashboard de gestión.
type DashboardClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewDashboardClient construye el cliente. httpClient nil usa uno con timeout por defecto.
func NewDashboardClient(url, apiKey string, httpClient *http.Client) *DashboardClient {
	return &DashboardClient{url: url, apiKey: apiKey, httpClient: newHTTPClient(httpClient)}
}

// ForwardOrder publica el pedido. Cualquier respuesta no 2xx es error.
func (c *DashboardClient) ForwardOrder(ctx context.Context, order ports.DashboardOrder) error {
	return postJSON(ctx, c.httpClient, "dashboard", c.url, map[string]string{"x-api-key": c.apiKey}, order)
}
