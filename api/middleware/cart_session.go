package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nairamart/storefront-backend/pkg/carttoken"
	"github.com/nairamart/storefront-backend/pkg/config"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

type cartSessionKey struct{}

// CartIDFromContext returns the cart identity minted or verified for this
// request. The second return is false only outside the CartSession middleware.
func CartIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(cartSessionKey{}).(*carttoken.Claims)
	if !ok {
		return "", false
	}
	return claims.CartID, true
}

// CustomerIDFromContext returns the optional customer reference on the cart
// token, empty for anonymous carts.
func CustomerIDFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(cartSessionKey{}).(*carttoken.Claims)
	if !ok {
		return ""
	}
	return claims.CustomerID
}

// CartSession resolves the device-scoped cart identity. A valid token on the
// request keeps its cart; a missing, expired, or tampered token silently
// starts a fresh cart rather than erroring, since an anonymous shopper can
// always be given a new basket. The response always carries the token so the
// client can store it.
func CartSession(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var claims *carttoken.Claims
			raw := r.Header.Get(cartTokenHeader)
			if raw != "" {
				parsed, err := carttoken.Parse(cfg, raw)
				if err == nil {
					claims = parsed
					w.Header().Set(cartTokenHeader, raw)
				} else if logg != nil {
					logg.Debug(ctx, "cart token rejected, issuing a fresh cart")
				}
			}

			if claims == nil {
				cartID := uuid.NewString()
				minted, err := carttoken.Mint(cfg, time.Now(), cartID, "")
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "failed to mint cart token", err)
					}
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				claims = &carttoken.Claims{CartID: cartID}
				w.Header().Set(cartTokenHeader, minted)
			}

			if logg != nil {
				ctx = logg.WithCartID(ctx, claims.CartID)
			}
			ctx = context.WithValue(ctx, cartSessionKey{}, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
