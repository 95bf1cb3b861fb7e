package dto

import "github.com/shopspring/decimal"

// ProductResponse producto del catálogo. Price solo se incluye para sesiones autenticadas.
type ProductResponse struct {
	ID          string           `json:"id"`
	DashboardID string           `json:"dashboard_id,omitempty"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Benefits    []string         `json:"benefits"`
	Variants    []string         `json:"variants,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ProductListResponse listado del catálogo.
type ProductListResponse struct {
	Products      []ProductResponse `json:"products"`
	PricesVisible bool              `json:"prices_visible"`
}

// UpdateProductPriceRequest cuerpo de update-product-price.
type UpdateProductPriceRequest struct {
	ProductID string           `json:"productId" validate:"required,max=100"`
	NewPrice  *decimal.Decimal `json:"newPrice"`
}

// UpdateProductPriceResponse resultado de update-product-price.
type UpdateProductPriceResponse struct {
	Success bool            `json:"success"`
	Price   decimal.Decimal `json:"price"`
}
