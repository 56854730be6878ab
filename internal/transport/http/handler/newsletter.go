package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meadow/newsletter-api/internal/application/newsletter"
	"github.com/meadow/newsletter-api/internal/domain"
	"github.com/meadow/newsletter-api/internal/pkg/validate"
)

// Website pages the browser is sent to after each lifecycle action.
const (
	pageValidating   = "newsletter_validating"
	pageSuccess      = "newsletter_success"
	pageUnsubscribed = "newsletter_unsubscribed"
)

// NewsletterHandler handles the public lifecycle endpoints and the admin
// bulk-send endpoint.
type NewsletterHandler struct {
	svc           newsletter.Service
	websiteDomain string
}

func NewNewsletterHandler(svc newsletter.Service, websiteDomain string) *NewsletterHandler {
	return &NewsletterHandler{svc: svc, websiteDomain: websiteDomain}
}

// Signup handles the browser form post. Success and duplicate signups get
// the same redirect; every failure gets the same generic response so the
// endpoint cannot be used to enumerate registered addresses.
func (h *NewsletterHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		genericFailure(w)
		return
	}
	req := domain.SignupRequest{
		Email:  r.PostFormValue("email"),
		Secret: r.PostFormValue("secret"),
	}
	if err := validate.Struct(req); err != nil {
		genericFailure(w)
		return
	}
	if err := h.svc.Signup(r.Context(), req); err != nil {
		h.fail(w, "signup", err)
		return
	}
	h.redirect(w, r, pageValidating)
}

// Validate handles the validation link click.
func (h *NewsletterHandler) Validate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.ValidateRequest{
		EmailB64: q.Get("email"),
		Token:    q.Get("random_string"),
	}
	if err := validate.Struct(req); err != nil {
		genericFailure(w)
		return
	}
	if err := h.svc.Validate(r.Context(), req); err != nil {
		h.fail(w, "validate", err)
		return
	}
	h.redirect(w, r, pageSuccess)
}

// Unsubscribe handles the unsubscribe link click.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.UnsubscribeRequest{
		EmailB64:  q.Get("email"),
		Token:     q.Get("random_string"),
		EmailSent: q.Get("email_sent"),
	}
	if err := validate.Struct(req); err != nil {
		genericFailure(w)
		return
	}
	if err := h.svc.Unsubscribe(r.Context(), req); err != nil {
		h.fail(w, "unsubscribe", err)
		return
	}
	h.redirect(w, r, pageUnsubscribed)
}

// Send triggers a bulk newsletter dispatch. Admin-only; mounted behind the
// auth middleware.
func (h *NewsletterHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.svc.Send(r.Context(), req)
	if err != nil {
		h.fail(w, "send", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *NewsletterHandler) redirect(w http.ResponseWriter, r *http.Request, page string) {
	http.Redirect(w, r, "https://"+h.websiteDomain+"/"+page, http.StatusMovedPermanently)
}

// fail maps service errors to responses. Bad input, unknown records and
// token mismatches all collapse into one generic failure; only genuine
// infrastructure errors surface as internal, and the detail goes to the
// log rather than the caller.
func (h *NewsletterHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict):
		slog.Info("rejected "+op+" request", "err", err)
		genericFailure(w)
	default:
		slog.Error(op+" failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func genericFailure(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "invalid request")
}
