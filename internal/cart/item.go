package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairamart/storefront-backend/internal/catalog"
	"github.com/nairamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/money"
)

// LineItem is one purchasable unit-group in the cart. Display fields and
// pricing are a snapshot taken when the product was added; they are not
// refreshed against the live catalog until checkout revalidation.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID int64     `json:"product_id"`

	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
	SKU   string `json:"sku,omitempty"`

	Price        decimal.Decimal  `json:"price"`
	RegularPrice decimal.Decimal  `json:"regular_price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`

	Quantity int `json:"quantity"`

	StockStatus   enums.StockStatus `json:"stock_status"`
	StockQuantity *int              `json:"stock_quantity,omitempty"`

	VendorID   *int64 `json:"vendor_id,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
}

// LineTotal is price multiplied by quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// lineDiscount returns the regular-vs-effective delta for the full quantity,
// zero when the item is not discounted.
func (li LineItem) lineDiscount() decimal.Decimal {
	if !li.RegularPrice.GreaterThan(li.Price) {
		return decimal.Zero
	}
	return li.RegularPrice.Sub(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// pricing resolves a product's decimal-string price fields into the
// effective price, its regular price, and the sale price when on sale. The
// effective price prefers the sale price.
func pricing(product *catalog.Product) (price, regular decimal.Decimal, sale *decimal.Decimal, err error) {
	effective, haveEffective, err := money.Parse(product.Price)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse product price")
	}
	regular, haveRegular, err := money.Parse(product.RegularPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse regular price")
	}
	saleValue, haveSale, err := money.Parse(product.SalePrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse sale price")
	}

	price = effective
	if haveSale {
		price = saleValue
		sale = &saleValue
	}
	if !haveEffective && !haveSale {
		return decimal.Zero, decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no price")
	}
	if !haveRegular {
		regular = price
	}
	return price, regular, sale, nil
}

// newLineItem snapshots a catalog product into a cart line.
func newLineItem(product *catalog.Product, quantity int) (LineItem, error) {
	if product == nil {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	price, regular, sale, err := pricing(product)
	if err != nil {
		return LineItem{}, err
	}

	item := LineItem{
		ID:            uuid.New(),
		ProductID:     product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Image:         product.Thumbnail(),
		SKU:           product.SKU,
		Price:         price,
		RegularPrice:  regular,
		Quantity:      quantity,
		StockStatus:   product.StockStatus,
		StockQuantity: copyIntPtr(product.StockQuantity),
	}
	if sale != nil {
		saleCopy := *sale
		item.SalePrice = &saleCopy
	}
	if product.Store != nil {
		vendorID := product.Store.ID
		item.VendorID = &vendorID
		item.VendorName = product.Store.Name
	}
	return item, nil
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
