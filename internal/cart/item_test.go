package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairamart/storefront-backend/internal/catalog"
	"github.com/nairamart/storefront-backend/pkg/enums"
)

func TestNewLineItemSnapshotsProduct(t *testing.T) {
	t.Parallel()

	stock := 12
	product := &catalog.Product{
		ID:            77,
		Name:          "Adire Bedspread",
		Slug:          "adire-bedspread",
		SKU:           "ADB-77",
		Price:         "7500.00",
		RegularPrice:  "7500.00",
		StockStatus:   enums.StockStatusInStock,
		StockQuantity: &stock,
		Images: []catalog.ProductImage{
			{Src: "https://cdn.example.com/adire.jpg", Alt: "Adire Bedspread"},
		},
		Store: &catalog.StoreAttribution{ID: 4, Name: "Lagos Textiles"},
	}

	item, err := newLineItem(product, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(77), item.ProductID)
	assert.Equal(t, "Adire Bedspread", item.Name)
	assert.Equal(t, "https://cdn.example.com/adire.jpg", item.Image)
	assert.Equal(t, "7500.00", item.Price.StringFixed(2))
	assert.Nil(t, item.SalePrice)
	assert.Equal(t, 3, item.Quantity)
	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 12, *item.StockQuantity)
	require.NotNil(t, item.VendorID)
	assert.Equal(t, int64(4), *item.VendorID)
	assert.Equal(t, "Lagos Textiles", item.VendorName)
	assert.Equal(t, "22500.00", item.LineTotal().StringFixed(2))
	assert.True(t, item.lineDiscount().IsZero())

	// The snapshot owns its pointers.
	stock = 1
	assert.Equal(t, 12, *item.StockQuantity)
}

func TestNewLineItemPrefersSalePrice(t *testing.T) {
	t.Parallel()

	product := &catalog.Product{
		ID:           78,
		Name:         "Raffia Basket",
		Price:        "2000.00",
		RegularPrice: "2000.00",
		SalePrice:    "1500.00",
		StockStatus:  enums.StockStatusInStock,
	}

	item, err := newLineItem(product, 2)
	require.NoError(t, err)

	assert.Equal(t, "1500.00", item.Price.StringFixed(2))
	assert.Equal(t, "2000.00", item.RegularPrice.StringFixed(2))
	require.NotNil(t, item.SalePrice)
	assert.Equal(t, "1500.00", item.SalePrice.StringFixed(2))
	// 500 off each, twice.
	assert.Equal(t, "1000.00", item.lineDiscount().StringFixed(2))
}

func TestNewLineItemPriceErrors(t *testing.T) {
	t.Parallel()

	_, err := newLineItem(&catalog.Product{ID: 79, Name: "No Price"}, 1)
	require.Error(t, err)

	_, err = newLineItem(&catalog.Product{ID: 80, Name: "Bad Price", Price: "not-money"}, 1)
	require.Error(t, err)
}

func TestNewLineItemRegularFallsBackToPrice(t *testing.T) {
	t.Parallel()

	item, err := newLineItem(&catalog.Product{
		ID:          81,
		Name:        "Calabash Bowl",
		Price:       "900.00",
		StockStatus: enums.StockStatusInStock,
	}, 1)
	require.NoError(t, err)

	assert.True(t, item.RegularPrice.Equal(item.Price))
	assert.True(t, item.lineDiscount().IsZero())
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	sale := decimal.RequireFromString("1500.00")
	items := []LineItem{
		{
			Price:        decimal.RequireFromString("1500.00"),
			RegularPrice: decimal.RequireFromString("1500.00"),
			Quantity:     2,
		},
		{
			Price:        sale,
			RegularPrice: decimal.RequireFromString("2000.00"),
			SalePrice:    &sale,
			Quantity:     1,
		},
	}

	subtotal, productDiscount, itemCount := aggregate(items)
	assert.Equal(t, "4500.00", subtotal.StringFixed(2))
	assert.Equal(t, "500.00", productDiscount.StringFixed(2))
	assert.Equal(t, 3, itemCount)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	subtotal, productDiscount, itemCount := aggregate(nil)
	assert.True(t, subtotal.IsZero())
	assert.True(t, productDiscount.IsZero())
	assert.Zero(t, itemCount)
}
