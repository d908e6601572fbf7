package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/order-splitter/internal/infra/httpx/middlewares"
)

// RouterConfig carries the shared secrets guarding each route group.
type RouterConfig struct {
	WebhookSecret string
	AdminPassword string
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.With(middlewares.VerifyShopifyWebhook(cfg.WebhookSecret)).
		Post("/webhooks/orders-paid", handler.OrdersPaid)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireBearer(cfg.AdminPassword))
		r.Post("/orders/split", handler.SplitOrder)
		r.Post("/orders/preview", handler.PreviewOrder)
		r.Get("/orders/runs", handler.RunHistory)
		r.Post("/admin/access-token", handler.StoreAccessToken)
	})

	return otelhttp.NewHandler(r, "order-splitter",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
