package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/meadow/newsletter-api/internal/application/admin"
	"github.com/meadow/newsletter-api/internal/domain"
	"github.com/meadow/newsletter-api/internal/pkg/validate"
)

// SessionHandler exchanges the admin password for a bearer token.
type SessionHandler struct {
	svc admin.Service
}

func NewSessionHandler(svc admin.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bearer, err := h.svc.Login(req.Password)
	if err != nil {
		slog.Info("admin login rejected", "err", err)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: bearer})
}
