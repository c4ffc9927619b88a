package tax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/money"
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("tax base url is required")

// Client calls the storefront tax endpoint that fronts the WooCommerce tax
// tables. A backend with taxes globally disabled answers with a valid zero,
// which is not a failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the tax client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return client, nil
}

type calculateRequest struct {
	Amount   string `json:"amount"`
	TaxClass string `json:"tax_class"`
	Country  string `json:"country"`
	State    string `json:"state"`
}

type calculateResponse struct {
	Tax          string `json:"tax"`
	TaxesEnabled *bool  `json:"taxes_enabled"`
}

// Calculate returns the tax due on the given amount for the jurisdiction.
func (c *Client) Calculate(ctx context.Context, amount decimal.Decimal, taxClass, country, state string) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "tax client not configured")
	}

	payload, err := json.Marshal(calculateRequest{
		Amount:   money.String(amount),
		TaxClass: taxClass,
		Country:  country,
		State:    state,
	})
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal tax request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calculate", bytes.NewReader(payload))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build tax request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute tax request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "tax request failed")
	}

	var apiResp calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode tax response")
	}

	// Taxes globally disabled on the backend is a legitimate zero answer.
	if apiResp.TaxesEnabled != nil && !*apiResp.TaxesEnabled {
		return decimal.Zero, nil
	}

	taxAmount, ok, err := money.Parse(apiResp.Tax)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse tax amount")
	}
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "tax response missing amount")
	}

	return money.NonNegative(taxAmount), nil
}
