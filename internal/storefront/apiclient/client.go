// Package apiclient cliente HTTP de la API para la tienda.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/storefront/checkout"
	"github.com/jhoicas/alnatural-api/internal/storefront/session"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

var (
	_ session.Validator    = (*Client)(nil)
	_ checkout.OrderPlacer = (*Client)(nil)
	_ checkout.Catalog     = (*Client)(nil)
)

// APIError respuesta no exitosa de la API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api respondió %d", e.Status)
	}
	return fmt.Sprintf("api respondió %d %s: %s", e.Status, e.Code, e.Message)
}

// Client cliente de la API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New construye el cliente. httpClient nil usa uno con timeout por defecto.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ValidateAccessCode POST /api/access-codes/validate.
func (c *Client) ValidateAccessCode(ctx context.Context, code string) (*session.Validation, error) {
	var out dto.ValidateAccessCodeResponse
	if err := c.do(ctx, http.MethodPost, "/api/access-codes/validate", "", dto.ValidateAccessCodeRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &session.Validation{
		Valid:   out.Valid,
		Message: out.Message,
		Token:   out.Token,
		Client: session.Client{
			ID:      out.ClientID,
			Name:    out.ClientName,
			Email:   out.ClientEmail,
			Company: out.ClientCompany,
		},
	}, nil
}

// PlaceOrder POST /api/orders.
func (c *Client) PlaceOrder(ctx context.Context, token string, items []checkout.OrderLine, notes string) (*checkout.Placement, error) {
	payload := dto.PlaceOrderPayload{Items: make([]dto.OrderItemInput, 0, len(items)), Notes: notes}
	for _, it := range items {
		payload.Items = append(payload.Items, dto.OrderItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Variant:     it.Variant,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	var out dto.PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, payload, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.OrderID == "" {
		return nil, fmt.Errorf("respuesta de pedido sin confirmación")
	}
	return &checkout.Placement{OrderID: out.OrderID, Total: out.Order.Total, Warnings: out.Warnings}, nil
}

// Products GET /api/products. Con token la respuesta incluye precios.
func (c *Client) Products(ctx context.Context, token string) (*dto.ProductListResponse, error) {
	var out dto.ProductListResponse
	if err := c.do(ctx, http.MethodGet, "/api/products", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PricedCatalog catálogo con precios para el token, por id de producto.
// Falla si la API no muestra precios (token rechazado o vencido).
func (c *Client) PricedCatalog(ctx context.Context, token string) (map[string]checkout.CatalogEntry, error) {
	list, err := c.Products(ctx, token)
	if err != nil {
		return nil, err
	}
	if !list.PricesVisible {
		return nil, fmt.Errorf("catálogo sin precios: sesión no válida")
	}
	out := make(map[string]checkout.CatalogEntry, len(list.Products))
	for _, p := range list.Products {
		e := checkout.CatalogEntry{DashboardID: p.DashboardID}
		if p.Price != nil {
			e.Price = *p.Price
		}
		out[p.ID] = e
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("construir petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Status: resp.StatusCode}
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Code, apiErr.Message = e.Code, e.Message
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decodificar respuesta de %s: %w", path, err)
	}
	return nil
}
