package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/meadow/newsletter-api/internal/application/admin"
	"github.com/meadow/newsletter-api/internal/application/newsletter"
	"github.com/meadow/newsletter-api/internal/config"
	"github.com/meadow/newsletter-api/internal/transport/http/handler"
	appmiddleware "github.com/meadow/newsletter-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public lifecycle
	// endpoints, which are reachable without any credential.
	publicRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	newsletterSvc := newsletter.NewService(newsletter.ServiceDeps{
		Subscriptions:    deps.Subscriptions,
		SendEvents:       deps.SendEvents,
		Mailer:           deps.Mailer,
		Templates:        deps.Templates,
		Reports:          deps.Reports,
		Organisation:     cfg.Organisation,
		NewsletterDomain: cfg.NewsletterDomain,
		HoneypotSecret:   cfg.HoneypotSecret,
	})

	healthH := handler.NewHealthHandler()
	newsletterH := handler.NewNewsletterHandler(newsletterSvc, cfg.WebsiteDomain)

	// Link endpoints live at the root so emailed URLs stay short.
	r.With(publicRL.Limit).Get("/validate", newsletterH.Validate)
	r.With(publicRL.Limit).Get("/unsubscribe", newsletterH.Unsubscribe)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)
		r.With(publicRL.Limit).Post("/newsletter/signup", newsletterH.Signup)

		if deps.JWTProvider == nil {
			slog.Warn("jwt provider not configured, admin endpoints disabled")
			return
		}
		adminSvc := admin.NewService(cfg.AdminPasswordHash, deps.JWTProvider)
		sessionH := handler.NewSessionHandler(adminSvc)
		r.With(publicRL.Limit).Post("/sessions/admin", sessionH.Login)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))
			r.Post("/newsletter/send", newsletterH.Send)
		})
	})

	return r
}
