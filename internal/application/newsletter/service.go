// Package newsletter implements the subscriber lifecycle engine and the
// notification dispatcher behind the signup, validate, unsubscribe and
// bulk-send operations.
package newsletter

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/osteele/liquid"

	"github.com/meadow/newsletter-api/internal/domain"
	s3infra "github.com/meadow/newsletter-api/internal/infrastructure/s3"
	"github.com/meadow/newsletter-api/internal/pkg/id"
	"github.com/meadow/newsletter-api/internal/pkg/token"
)

// SubscriptionStore is the slice of the subscription repo the engine needs.
type SubscriptionStore interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Confirm(ctx context.Context, email, token string) error
	SetUnsubscribed(ctx context.Context, email string) error
	ListSubscribed(ctx context.Context) ([]domain.Subscription, error)
}

// SendEventStore is the slice of the send-event repo the engine needs.
type SendEventStore interface {
	Create(ctx context.Context, ev *domain.SendEvent) error
	Get(ctx context.Context, email, timestamp string) (*domain.SendEvent, error)
}

// Mailer sends one rendered two-part email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// TemplateSource loads a template bundle by object key.
type TemplateSource interface {
	Load(ctx context.Context, key string) (*domain.TemplateBundle, error)
}

// ReportNotifier receives the dispatch report after a bulk run. Optional.
type ReportNotifier interface {
	PublishReport(ctx context.Context, report *domain.DispatchReport) error
}

type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) error
	Validate(ctx context.Context, req domain.ValidateRequest) error
	Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) error
	Send(ctx context.Context, req domain.SendRequest) (*domain.DispatchReport, error)
}

// ServiceDeps bundles everything the engine depends on. Reports may be nil.
type ServiceDeps struct {
	Subscriptions SubscriptionStore
	SendEvents    SendEventStore
	Mailer        Mailer
	Templates     TemplateSource
	Reports       ReportNotifier

	Organisation     string
	NewsletterDomain string
	HoneypotSecret   string
}

type service struct {
	subs      SubscriptionStore
	events    SendEventStore
	mailer    Mailer
	templates TemplateSource
	reports   ReportNotifier

	organisation     string
	newsletterDomain string
	honeypotSecret   string

	engine *liquid.Engine
}

func NewService(deps ServiceDeps) Service {
	return &service{
		subs:             deps.Subscriptions,
		events:           deps.SendEvents,
		mailer:           deps.Mailer,
		templates:        deps.Templates,
		reports:          deps.Reports,
		organisation:     deps.Organisation,
		newsletterDomain: deps.NewsletterDomain,
		honeypotSecret:   deps.HoneypotSecret,
		engine:           liquid.NewEngine(),
	}
}

// Signup moves an unknown email into PENDING_VALIDATION: mint a token,
// create the subscription record first-writer-wins, then send the
// validation email and record its send-event. A duplicate signup returns
// nil so callers cannot distinguish it from a fresh one. The create and the
// send are not atomic; a crash between them leaves a pending record with no
// email, recovered by the user simply signing up again.
func (s *service) Signup(ctx context.Context, req domain.SignupRequest) error {
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.honeypotSecret)) != 1 {
		return fmt.Errorf("signup secret mismatch: %w", domain.ErrUnauthorized)
	}

	sub := domain.NewSubscription(req.Email, token.New())
	if err := s.subs.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			slog.Info("signup for already-registered email", "email", req.Email)
			return nil
		}
		return err
	}

	bundle, err := s.templates.Load(ctx, s3infra.ValidationTemplateKey)
	if err != nil {
		return err
	}

	// The validation link carries the subscription token; the unsubscribe
	// link carries the send-event token. Different trust anchors: the
	// former proves receipt of the original confirmation, the latter proves
	// receipt of this specific dispatch.
	sentAt := time.Now().Format(domain.SentTimestampLayout)
	eventToken := token.New()
	htmlBody, textBody, err := s.renderBundle(bundle, map[string]interface{}{
		"validation_path":  s.validationURL(req.Email, sub.Token),
		"unsubscribe_path": s.unsubscribeURL(req.Email, eventToken, sentAt),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Confirm your request to receive the %s newsletter", s.organisation)
	if err := s.mailer.Send(ctx, req.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("validation email: %w", err)
	}
	return s.events.Create(ctx, domain.NewSendEvent(req.Email, sentAt, eventToken))
}

// Validate moves PENDING_VALIDATION into VALIDATED_SUBSCRIBED. The whole
// check-and-set is one conditional update in the store; replays with the
// same valid token succeed without observable change, and every failure
// mode surfaces as the same ErrUnauthorized.
func (s *service) Validate(ctx context.Context, req domain.ValidateRequest) error {
	email, err := decodeEmail(req.EmailB64)
	if err != nil {
		return err
	}
	return s.subs.Confirm(ctx, email, req.Token)
}

// Unsubscribe clears the opt-in flag once the caller proves possession of
// the token of one specific dispatched email. The subscription token plays
// no part here.
func (s *service) Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest) error {
	email, err := decodeEmail(req.EmailB64)
	if err != nil {
		return err
	}
	ev, err := s.events.Get(ctx, email, req.EmailSent)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no dispatched email matches: %w", domain.ErrUnauthorized)
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(ev.Token), []byte(req.Token)) != 1 {
		return fmt.Errorf("no dispatched email matches: %w", domain.ErrUnauthorized)
	}
	return s.subs.SetUnsubscribed(ctx, email)
}

// Send dispatches the newsletter at the given slug to every opted-in
// subscriber, one at a time. Each recipient gets a fresh unsubscribe token
// and send-event record; one timestamp covers the whole run. A recipient
// whose send fails is logged and skipped; the run itself still succeeds.
func (s *service) Send(ctx context.Context, req domain.SendRequest) (*domain.DispatchReport, error) {
	bundle, err := s.templates.Load(ctx, s3infra.NewsletterTemplateKey(req.Slug))
	if err != nil {
		return nil, err
	}
	subscribers, err := s.subs.ListSubscribed(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.DispatchReport{
		DispatchID: id.New(),
		Slug:       req.Slug,
		EmailSent:  time.Now().Format(domain.SentTimestampLayout),
		Attempted:  len(subscribers),
	}
	slog.Info("newsletter dispatch started",
		"dispatch_id", report.DispatchID, "slug", req.Slug, "recipients", len(subscribers))

	for _, sub := range subscribers {
		eventToken := token.New()
		htmlBody, textBody, err := s.renderBundle(bundle, map[string]interface{}{
			"unsubscribe_path": s.unsubscribeURL(sub.Email, eventToken, report.EmailSent),
		})
		if err != nil {
			slog.Error("render newsletter", "dispatch_id", report.DispatchID, "email", sub.Email, "err", err)
			report.Failed++
			continue
		}
		if err := s.mailer.Send(ctx, sub.Email, req.Subject, htmlBody, textBody); err != nil {
			slog.Error("send newsletter", "dispatch_id", report.DispatchID, "email", sub.Email, "err", err)
			report.Failed++
			continue
		}
		report.Sent++
		if err := s.events.Create(ctx, domain.NewSendEvent(sub.Email, report.EmailSent, eventToken)); err != nil {
			// The email went out; only the unsubscribe anchor is missing.
			slog.Warn("send event not recorded", "dispatch_id", report.DispatchID, "email", sub.Email, "err", err)
		}
	}

	slog.Info("newsletter dispatch finished",
		"dispatch_id", report.DispatchID, "sent", report.Sent, "failed", report.Failed)

	if s.reports != nil {
		if err := s.reports.PublishReport(ctx, report); err != nil {
			slog.Warn("publish dispatch report", "dispatch_id", report.DispatchID, "err", err)
		}
	}
	return report, nil
}

func (s *service) renderBundle(bundle *domain.TemplateBundle, bindings map[string]interface{}) (htmlBody, textBody string, err error) {
	htmlBody, err = s.engine.ParseAndRenderString(bundle.HTML, bindings)
	if err != nil {
		return "", "", fmt.Errorf("render rich-text template: %w", err)
	}
	textBody, err = s.engine.ParseAndRenderString(bundle.Text, bindings)
	if err != nil {
		return "", "", fmt.Errorf("render plain-text template: %w", err)
	}
	return htmlBody, textBody, nil
}

func (s *service) validationURL(email, tok string) string {
	return fmt.Sprintf("https://%s/validate?email=%s&random_string=%s",
		s.newsletterDomain, encodeEmail(email), tok)
}

func (s *service) unsubscribeURL(email, tok, sentAt string) string {
	return fmt.Sprintf("https://%s/unsubscribe?email=%s&random_string=%s&email_sent=%s",
		s.newsletterDomain, encodeEmail(email), tok, sentAt)
}

func encodeEmail(email string) string {
	return base64.URLEncoding.EncodeToString([]byte(email))
}

func decodeEmail(emailB64 string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(emailB64)
	if err != nil {
		return "", fmt.Errorf("email encoding: %w", domain.ErrBadRequest)
	}
	return string(raw), nil
}
