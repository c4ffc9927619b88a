package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/internal/cartmanager"
	"github.com/nairamart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/nairamart/storefront-backend/internal/checkout"
	"github.com/nairamart/storefront-backend/internal/coupon"
	"github.com/nairamart/storefront-backend/internal/notify"
	"github.com/nairamart/storefront-backend/internal/shipping"
	"github.com/nairamart/storefront-backend/pkg/config"
	"github.com/nairamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
)

type taxFunc func(ctx context.Context, amount decimal.Decimal, taxClass, country, state string) (decimal.Decimal, error)

func (fn taxFunc) Calculate(ctx context.Context, amount decimal.Decimal, taxClass, country, state string) (decimal.Decimal, error) {
	return fn(ctx, amount, taxClass, country, state)
}

type quoteFunc func(ctx context.Context, country string, subtotal decimal.Decimal, itemCount int) ([]shipping.Rate, error)

func (fn quoteFunc) Quote(ctx context.Context, country string, subtotal decimal.Decimal, itemCount int) ([]shipping.Rate, error) {
	return fn(ctx, country, subtotal, itemCount)
}

type stubCatalog struct {
	products map[int64]*catalog.Product
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID int64) (*catalog.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

type cartPayload struct {
	CartID string `json:"cart_id"`
	Items  []struct {
		ID        string `json:"id"`
		ProductID int64  `json:"product_id"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"line_total"`
	} `json:"items"`
	CouponCode string `json:"coupon_code"`
	Totals     struct {
		Currency  string `json:"currency"`
		Subtotal  string `json:"subtotal"`
		Tax       string `json:"tax"`
		Shipping  string `json:"shipping"`
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
	} `json:"totals"`
	Notices []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notices"`
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:   "router-test-secret",
			Issuer:   "nairamart",
			TokenTTL: time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestHandler(t *testing.T, products map[int64]*catalog.Product) http.Handler {
	t.Helper()

	fetcher := &stubCatalog{products: products}
	manager, err := cartmanager.New(cartmanager.Params{
		Collaborators: cart.Collaborators{
			Tax: taxFunc(func(ctx context.Context, amount decimal.Decimal, taxClass, country, state string) (decimal.Decimal, error) {
				return amount.Mul(decimal.RequireFromString("0.075")).Round(2), nil
			}),
			Shipping: quoteFunc(func(ctx context.Context, country string, subtotal decimal.Decimal, itemCount int) ([]shipping.Rate, error) {
				return []shipping.Rate{{MethodID: "flat_rate", Title: "Flat rate", Cost: decimal.RequireFromString("1500")}}, nil
			}),
			Coupon: coupon.Disabled{},
		},
		Notifier: notify.ContextNotifier{},
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	checkoutService, err := checkoutsvc.NewService(fetcher, nil)
	if err != nil {
		t.Fatalf("new checkout service: %v", err)
	}

	return NewRouter(Deps{
		Config:   testConfig(),
		Manager:  manager,
		Catalog:  fetcher,
		Checkout: checkoutService,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Cart-Token", token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, rec.Header().Get("X-Cart-Token")
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartPayload {
	t.Helper()
	var envelope struct {
		Data cartPayload `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode cart response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Data
}

func storefrontProduct(id int64, price string) *catalog.Product {
	return &catalog.Product{
		ID:           id,
		Name:         fmt.Sprintf("Product %d", id),
		Slug:         fmt.Sprintf("product-%d", id),
		Price:        price,
		RegularPrice: price,
		StockStatus:  enums.StockStatusInStock,
	}
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, map[int64]*catalog.Product{
		10: storefrontProduct(10, "2000.00"),
		11: storefrontProduct(11, "500.00"),
	})

	// A first request without a token gets a fresh cart and a token.
	rec, token := doJSON(t, handler, http.MethodGet, "/api/v1/cart", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if token == "" {
		t.Fatal("expected a cart token on the response")
	}
	empty := decodeCart(t, rec)
	if len(empty.Items) != 0 || empty.Totals.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", empty)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": 10,
		"quantity":   2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	withItem := decodeCart(t, rec)
	if len(withItem.Items) != 1 || withItem.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", withItem.Items)
	}
	if withItem.Totals.Currency != "NGN" {
		t.Fatalf("expected NGN currency, got %q", withItem.Totals.Currency)
	}
	if len(withItem.Notices) == 0 || withItem.Notices[0].Level != "success" {
		t.Fatalf("expected a success notice, got %+v", withItem.Notices)
	}

	// Same token, second product.
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", token, map[string]any{
		"product_id": 11,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add second: expected 201, got %d", rec.Code)
	}

	// Force settled totals: 4500 subtotal + 337.50 tax + 1500 shipping.
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/cart/recalculate", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recalculate: expected 200, got %d", rec.Code)
	}
	settled := decodeCart(t, rec)
	if settled.Totals.Subtotal != "4500.00" || settled.Totals.Tax != "337.50" || settled.Totals.Total != "6337.50" {
		t.Fatalf("unexpected totals %+v", settled.Totals)
	}

	lineID := settled.Items[0].ID
	rec, _ = doJSON(t, handler, http.MethodPatch, "/api/v1/cart/items/"+lineID, token, map[string]any{"quantity": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/v1/cart/items/"+lineID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", rec.Code)
	}
	afterRemove := decodeCart(t, rec)
	if len(afterRemove.Items) != 1 || afterRemove.Items[0].ProductID != 11 {
		t.Fatalf("expected only product 11 left, got %+v", afterRemove.Items)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/v1/cart", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	cleared := decodeCart(t, rec)
	if len(cleared.Items) != 0 || cleared.Totals.Total != "0.00" {
		t.Fatalf("expected cleared cart, got %+v", cleared)
	}
}

func TestAddUnknownProductIs404(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, nil)
	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"product_id": 999})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestAddItemRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, nil)
	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"quantity": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte("{not json")))
	out := httptest.NewRecorder()
	handler.ServeHTTP(out, req)
	if out.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", out.Code)
	}
}

func TestCouponEndpointReportsNotImplemented(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, map[int64]*catalog.Product{10: storefrontProduct(10, "1000.00")})

	rec, token := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"product_id": 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/cart/coupon", token, map[string]any{"code": "WELCOME10"})
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "NOT_IMPLEMENTED" {
		t.Fatalf("expected NOT_IMPLEMENTED, got %q", envelope.Error.Code)
	}
}

func TestTamperedTokenGetsFreshCart(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, map[int64]*catalog.Product{10: storefrontProduct(10, "1000.00")})

	rec, token := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"product_id": 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", rec.Code)
	}

	rec, fresh := doJSON(t, handler, http.MethodGet, "/api/v1/cart", token+"tampered", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a fresh cart, got %d", rec.Code)
	}
	if fresh == "" || fresh == token+"tampered" {
		t.Fatal("expected a newly minted token")
	}
	payload := decodeCart(t, rec)
	if len(payload.Items) != 0 {
		t.Fatalf("fresh cart must be empty, got %+v", payload.Items)
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, map[int64]*catalog.Product{10: storefrontProduct(10, "3000.00")})

	rec, token := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", "", map[string]any{"product_id": 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/checkout/validate", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var validated struct {
		Data struct {
			Ready bool `json:"ready"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &validated); err != nil {
		t.Fatalf("decode validate response: %v", err)
	}
	if !validated.Data.Ready {
		t.Fatal("expected cart ready for checkout")
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/checkout/complete", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var completed struct {
		Data struct {
			Reference string `json:"reference"`
			Total     string `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decode complete response: %v", err)
	}
	if completed.Data.Reference == "" {
		t.Fatal("expected a confirmation reference")
	}
	if completed.Data.Total != "4725.00" {
		t.Fatalf("expected total 4725.00, got %s", completed.Data.Total)
	}

	// The same token now names an empty cart.
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/v1/cart", token, nil)
	after := decodeCart(t, rec)
	if len(after.Items) != 0 {
		t.Fatalf("expected empty cart after completion, got %+v", after.Items)
	}

	// Completing again on the empty cart is a validation error.
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/v1/checkout/complete", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, nil)
	rec, _ := doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-NairaMart-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}
