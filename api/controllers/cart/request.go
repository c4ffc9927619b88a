package cart

// AddItemRequest adds a product to the cart. Quantity defaults to one.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=0"`
}

// UpdateItemRequest sets a line's quantity. Zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// ApplyCouponRequest applies a coupon code to the cart.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}
