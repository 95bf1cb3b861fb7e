package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alnatural-api/internal/application/catalog"
	"github.com/jhoicas/alnatural-api/internal/application/dto"
	"github.com/jhoicas/alnatural-api/internal/domain"
	"github.com/jhoicas/alnatural-api/internal/domain/entity"
	"github.com/jhoicas/alnatural-api/internal/testutil"
)

func newCatalog() (*catalog.CatalogUseCase, *testutil.Store) {
	store := testutil.NewStore()
	store.AddProduct(entity.Product{ID: "arepa-yuca", Name: "Arepa de yuca", Category: "Arepas", Price: decimal.RequireFromString("15.99"), IsActive: true, SortOrder: 1})
	store.AddProduct(entity.Product{ID: "patacones", Name: "Patacones", Category: "Patacones", Price: decimal.NewFromInt(9), IsActive: true, SortOrder: 2})
	store.AddProduct(entity.Product{ID: "retirado", Name: "Retirado", IsActive: false})
	return catalog.NewCatalogUseCase(store.Products()), store
}

func TestList_OcultaPreciosSinSesion(t *testing.T) {
	uc, _ := newCatalog()

	res, err := uc.List(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.PricesVisible)
	require.Len(t, res.Products, 2)
	for _, p := range res.Products {
		assert.Nil(t, p.Price, "precio visible sin sesión en %s", p.ID)
	}
}

func TestList_MuestraPreciosConSesion(t *testing.T) {
	uc, _ := newCatalog()

	res, err := uc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "arepa-yuca", res.Products[0].ID)
	require.NotNil(t, res.Products[0].Price)
	assert.Equal(t, "15.99", res.Products[0].Price.String())
}

func TestUpdatePrice(t *testing.T) {
	uc, store := newCatalog()
	ctx := context.Background()
	price := decimal.RequireFromString("17.499")

	res, err := uc.UpdatePrice(ctx, dto.UpdateProductPriceRequest{ProductID: "arepa-yuca", NewPrice: &price})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "17.5", res.Price.String())

	p, err := store.Products().GetByID(ctx, "arepa-yuca")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("17.50")))
}

func TestUpdatePrice_Limites(t *testing.T) {
	uc, _ := newCatalog()
	ctx := context.Background()

	for _, v := range []string{"0", "1000000"} {
		price := decimal.RequireFromString(v)
		_, err := uc.UpdatePrice(ctx, dto.UpdateProductPriceRequest{ProductID: "patacones", NewPrice: &price})
		assert.NoError(t, err, "precio %s debe aceptarse", v)
	}
	for _, v := range []string{"-0.01", "1000000.01"} {
		price := decimal.RequireFromString(v)
		_, err := uc.UpdatePrice(ctx, dto.UpdateProductPriceRequest{ProductID: "patacones", NewPrice: &price})
		assert.ErrorIs(t, err, domain.ErrPriceOutOfRange, "precio %s", v)
	}

	_, err := uc.UpdatePrice(ctx, dto.UpdateProductPriceRequest{ProductID: "patacones"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	price := decimal.NewFromInt(1)
	_, err = uc.UpdatePrice(ctx, dto.UpdateProductPriceRequest{ProductID: "no-existe", NewPrice: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
