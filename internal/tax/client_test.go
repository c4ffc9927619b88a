package tax

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://tax.test/wp-json/nm/v1/tax", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCalculate(t *testing.T) {
	var capturedBody map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/wp-json/nm/v1/tax/calculate" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(raw, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"tax":"337.50","taxes_enabled":true}`)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	got, err := client.Calculate(context.Background(), decimal.NewFromInt(4500), "standard", "NG", "")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("337.5")) {
		t.Fatalf("unexpected tax %s", got)
	}
	if capturedBody["amount"] != "4500.00" {
		t.Fatalf("unexpected amount %v", capturedBody["amount"])
	}
	if capturedBody["country"] != "NG" {
		t.Fatalf("unexpected country %v", capturedBody["country"])
	}
}

func TestCalculateTaxesDisabledIsZeroNotError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"tax":"","taxes_enabled":false}`)),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	got, err := client.Calculate(context.Background(), decimal.NewFromInt(4500), "standard", "NG", "")
	if err != nil {
		t.Fatalf("taxes disabled must not be an error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero tax, got %s", got)
	}
}

func TestCalculateUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader("down")),
			Header:     http.Header{},
		}, nil
	})

	client := newTestClient(t, rt)
	_, err := client.Calculate(context.Background(), decimal.NewFromInt(100), "standard", "NG", "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
