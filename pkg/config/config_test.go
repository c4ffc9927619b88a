package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Cart.MaxQuantity; got != 99 {
		t.Fatalf("expected default max quantity 99, got %d", got)
	}

	if got := cfg.Cart.RecalcTimeout; got != 8*time.Second {
		t.Fatalf("expected default recalc timeout 8s, got %v", got)
	}

	if cfg.Tax.Country != "NG" {
		t.Fatalf("expected default tax country NG, got %q", cfg.Tax.Country)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail without app env")
	}
}

func TestLoad_CatalogCredentialsMustPair(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("NAIRAMART_CATALOG_CONSUMER_KEY", "ck_test")
	t.Setenv("NAIRAMART_CATALOG_CONSUMER_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail with unpaired catalog credentials")
	}
}

func TestCouponEnabled(t *testing.T) {
	if (CouponConfig{}).Enabled() {
		t.Fatal("coupon config without base url should be disabled")
	}
	if !(CouponConfig{BaseURL: "https://shop.example.com/coupons"}).Enabled() {
		t.Fatal("coupon config with base url should be enabled")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAppPort, "8080")
	t.Setenv("NAIRAMART_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NAIRAMART_CATALOG_BASE_URL", "https://shop.example.com/wp-json/wc/v3")
	t.Setenv("NAIRAMART_TAX_BASE_URL", "https://shop.example.com/wp-json/nm/v1/tax")
	t.Setenv("NAIRAMART_SHIPPING_BASE_URL", "https://shop.example.com/wp-json/nm/v1/shipping")
	t.Setenv("NAIRAMART_JWT_SECRET", "test-secret")
}
