package carttoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nairamart/storefront-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Claims carries the device-scoped cart identity. The cart is anonymous; an
// optional customer reference is attached at checkout time only.
type Claims struct {
	CartID     string `json:"cart_id"`
	CustomerID string `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Mint issues a signed cart token for the given cart ID.
func Mint(cfg config.JWTConfig, now time.Time, cartID, customerID string) (string, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if strings.TrimSpace(cartID) == "" {
		return "", fmt.Errorf("cart id is required")
	}
	if cfg.TokenTTL <= 0 {
		return "", fmt.Errorf("cart token ttl must be positive")
	}

	claims := Claims{
		CartID:     cartID,
		CustomerID: customerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing cart token: %w", err)
	}
	return signed, nil
}

// Parse validates the token string and returns its claims.
func Parse(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.CartID) == "" {
		return nil, fmt.Errorf("cart token missing cart id")
	}
	return claims, nil
}
