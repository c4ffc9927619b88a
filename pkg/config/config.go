package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every configuration variable.
const EnvPrefix = "NAIRAMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv  = "NAIRAMART_APP_ENV"
	EnvAppPort = "NAIRAMART_APP_PORT"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Tax      TaxConfig
	Shipping ShippingConfig
	Coupon   CouponConfig
	Cart     CartConfig
	JWT      JWTConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NAIRAMART_APP_ENV" required:"true"`
	Port         string `envconfig:"NAIRAMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NAIRAMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NAIRAMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"NAIRAMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NAIRAMART_REDIS_ADDR"`
	Password     string        `envconfig:"NAIRAMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"NAIRAMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NAIRAMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NAIRAMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NAIRAMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NAIRAMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NAIRAMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CatalogConfig points at the WooCommerce REST API that owns products.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"NAIRAMART_CATALOG_BASE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"NAIRAMART_CATALOG_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"NAIRAMART_CATALOG_CONSUMER_SECRET"`
	Timeout        time.Duration `envconfig:"NAIRAMART_CATALOG_TIMEOUT" default:"10s"`
}

func (c CatalogConfig) validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("catalog base url is required")
	}
	if (c.ConsumerKey == "") != (c.ConsumerSecret == "") {
		return fmt.Errorf("catalog consumer key and secret must be set together")
	}
	return nil
}

type TaxConfig struct {
	BaseURL string        `envconfig:"NAIRAMART_TAX_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"NAIRAMART_TAX_TIMEOUT" default:"5s"`

	// Cart-page jurisdiction. The checkout flow quotes against the real
	// destination address; the cart page estimates with this fixed one.
	Country  string `envconfig:"NAIRAMART_TAX_COUNTRY" default:"NG"`
	State    string `envconfig:"NAIRAMART_TAX_STATE" default:""`
	TaxClass string `envconfig:"NAIRAMART_TAX_CLASS" default:"standard"`
}

type ShippingConfig struct {
	BaseURL string        `envconfig:"NAIRAMART_SHIPPING_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"NAIRAMART_SHIPPING_TIMEOUT" default:"5s"`
	Country string        `envconfig:"NAIRAMART_SHIPPING_COUNTRY" default:"NG"`
}

type CouponConfig struct {
	BaseURL string        `envconfig:"NAIRAMART_COUPON_BASE_URL"`
	Timeout time.Duration `envconfig:"NAIRAMART_COUPON_TIMEOUT" default:"5s"`
}

// Enabled reports whether a coupon backend has been configured at all.
func (c CouponConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

type CartConfig struct {
	MaxQuantity   int           `envconfig:"NAIRAMART_CART_MAX_QUANTITY" default:"99"`
	PersistTTL    time.Duration `envconfig:"NAIRAMART_CART_PERSIST_TTL" default:"720h"`
	RecalcTimeout time.Duration `envconfig:"NAIRAMART_CART_RECALC_TIMEOUT" default:"8s"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"NAIRAMART_JWT_SECRET" required:"true"`
	Issuer   string        `envconfig:"NAIRAMART_JWT_ISSUER" default:"nairamart"`
	TokenTTL time.Duration `envconfig:"NAIRAMART_CART_TOKEN_TTL" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"NAIRAMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
