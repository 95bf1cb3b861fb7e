package catalog

import (
	"context"
	"strings"

	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/domain/repository"
)

// CatalogUseCase catálogo público y edición de precios.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// List devuelve los productos activos. Los precios solo se incluyen si withPrices.
func (uc *CatalogUseCase) List(ctx context.Context, withPrices bool) (*dto.ProductListResponse, error) {
	list, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Products:      make([]dto.ProductResponse, 0, len(list)),
		PricesVisible: withPrices,
	}
	for _, p := range list {
		out.Products = append(out.Products, toProductResponse(p, withPrices))
	}
	return out, nil
}

// UpdatePrice fija el precio de un producto (0 ≤ precio ≤ 1.000.000, 2 decimales).
func (uc *CatalogUseCase) UpdatePrice(ctx context.Context, in dto.UpdateProductPriceRequest) (*dto.UpdateProductPriceResponse, error) {
	id := strings.TrimSpace(in.ProductID)
	if id == "" || in.NewPrice == nil {
		return nil, domain.ErrInvalidInput
	}
	if !entity.PriceInRange(*in.NewPrice) {
		return nil, domain.ErrPriceOutOfRange
	}
	price := in.NewPrice.Round(2)
	found, err := uc.products.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return &dto.UpdateProductPriceResponse{Success: true, Price: price}, nil
}

func toProductResponse(p *entity.Product, withPrice bool) dto.ProductResponse {
	out := dto.ProductResponse{
		ID:          p.ID,
		DashboardID: p.DashboardID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Benefits:    p.Benefits,
		Variants:    p.Variants,
		ImageURL:    p.ImageURL,
	}
	if out.Benefits == nil {
		out.Benefits = []string{}
	}
	if withPrice {
		price := p.Price
		out.Price = &price
	}
	return out
}
