package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nairamart/storefront-backend/api/controllers"
	cartcontrollers "github.com/nairamart/storefront-backend/api/controllers/cart"
	checkoutcontrollers "github.com/nairamart/storefront-backend/api/controllers/checkout"
	"github.com/nairamart/storefront-backend/api/middleware"
	"github.com/nairamart/storefront-backend/internal/cartmanager"
	checkoutsvc "github.com/nairamart/storefront-backend/internal/checkout"
	"github.com/nairamart/storefront-backend/pkg/config"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Manager     *cartmanager.Manager
	Catalog     cartcontrollers.ProductFetcher
	Checkout    *checkoutsvc.Service
	RedisPinger controllers.Pinger
	CatalogPing controllers.Pinger
	Registry    *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.RedisPinger, deps.CatalogPing))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CartSession(deps.Config.JWT, deps.Logger))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(deps.Manager, deps.Logger))
			r.Delete("/", cartcontrollers.Clear(deps.Manager, deps.Logger))
			r.Post("/items", cartcontrollers.AddItem(deps.Manager, deps.Catalog, deps.Logger))
			r.Patch("/items/{itemID}", cartcontrollers.UpdateItem(deps.Manager, deps.Logger))
			r.Delete("/items/{itemID}", cartcontrollers.RemoveItem(deps.Manager, deps.Logger))
			r.Post("/coupon", cartcontrollers.ApplyCoupon(deps.Manager, deps.Logger))
			r.Delete("/coupon", cartcontrollers.RemoveCoupon(deps.Manager, deps.Logger))
			r.Post("/recalculate", cartcontrollers.Recalculate(deps.Manager, deps.Logger))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Post("/validate", checkoutcontrollers.Validate(deps.Manager, deps.Checkout, deps.Logger))
			r.Post("/complete", checkoutcontrollers.Complete(deps.Manager, deps.Checkout, deps.Logger))
		})
	})

	return r
}
