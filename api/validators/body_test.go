package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
)

type samplePayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=0"`
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	var payload samplePayload
	if err := DecodeJSONBody(newJSONRequest(`{"product_id":42,"quantity":3}`), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ProductID != 42 || payload.Quantity != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var payload samplePayload
	err := DecodeJSONBody(newJSONRequest(`{"product_id":42,"color":"red"}`), &payload)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldErrors(t *testing.T) {
	t.Parallel()

	var payload samplePayload
	err := DecodeJSONBody(newJSONRequest(`{"quantity":1}`), &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["product_id"] != "is required" {
		t.Fatalf("expected product_id required, got %+v", details)
	}
}
