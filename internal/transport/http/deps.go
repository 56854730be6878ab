package http

import (
	"github.com/meadow/newsletter-api/internal/application/newsletter"
	jwtinfra "github.com/meadow/newsletter-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Subscriptions newsletter.SubscriptionStore
	SendEvents    newsletter.SendEventStore
	Templates     newsletter.TemplateSource
	Mailer        newsletter.Mailer
	// Reports may be nil; dispatch reports are then only logged.
	Reports newsletter.ReportNotifier
	// JWTProvider may be nil; the admin endpoints are then not mounted.
	JWTProvider *jwtinfra.Provider
}
