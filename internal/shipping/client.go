package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/money"
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("shipping base url is required")

// Rate is one shipping method from the first eligible zone, in the order the
// backend enables them. The cart uses the first entry.
type Rate struct {
	MethodID            string
	Title               string
	Cost                decimal.Decimal
	IsFreeShipping      bool
	FreeShippingMinimum *decimal.Decimal
}

// Applies reports the cost this rate yields for the given discounted subtotal,
// honoring free-shipping flags and minimum thresholds.
func (r Rate) Applies(subtotal decimal.Decimal) decimal.Decimal {
	if r.IsFreeShipping {
		return decimal.Zero
	}
	if r.FreeShippingMinimum != nil && subtotal.GreaterThanOrEqual(*r.FreeShippingMinimum) {
		return decimal.Zero
	}
	return money.NonNegative(r.Cost)
}

// Client calls the storefront shipping-rate endpoint fronting the WooCommerce
// shipping zones.
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

// NewClient builds the shipping client for the given base URL.
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

type rateResponse struct {
	Rates []struct {
		MethodID            string `json:"method_id"`
		Title               string `json:"title"`
		Cost                string `json:"cost"`
		FreeShipping        bool   `json:"free_shipping"`
		FreeShippingMinimum string `json:"free_shipping_minimum"`
	} `json:"rates"`
}

// Quote returns the enabled rates for the destination, ordered as the backend
// configures them.
func (c *Client) Quote(ctx context.Context, country string, subtotal decimal.Decimal, itemCount int) ([]Rate, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shipping client not configured")
	}

	query := url.Values{}
	query.Set("country", country)
	query.Set("subtotal", money.String(subtotal))
	query.Set("item_count", strconv.Itoa(itemCount))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rates?"+query.Encode(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shipping request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shipping request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "shipping request failed")
	}

	var apiResp rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shipping response")
	}

	rates := make([]Rate, 0, len(apiResp.Rates))
	for _, raw := range apiResp.Rates {
		cost, _, err := money.Parse(raw.Cost)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse shipping cost")
		}
		rate := Rate{
			MethodID:       raw.MethodID,
			Title:          raw.Title,
			Cost:           cost,
			IsFreeShipping: raw.FreeShipping,
		}
		if minimum, ok, err := money.Parse(raw.FreeShippingMinimum); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse free shipping minimum")
		} else if ok {
			rate.FreeShippingMinimum = &minimum
		}
		rates = append(rates, rate)
	}

	return rates, nil
}
