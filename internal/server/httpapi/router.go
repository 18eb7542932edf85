// Package httpapi serves the browser side of password reset: the page the
// emailed link opens and the endpoint that sets the new password.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/eclinic/internal/logging"
	"github.com/dmitrijs2005/eclinic/internal/server/services"
	"github.com/gorilla/mux"
)

// PasswordResetter is satisfied by services.IdentityService.
type PasswordResetter interface {
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type Handler struct {
	resetter PasswordResetter
	logger   logging.Logger
}

func NewRouter(pr PasswordResetter, logger logging.Logger) *mux.Router {
	h := &Handler{resetter: pr, logger: logger.With("module", "http")}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/password-reset", h.ResetForm).Methods(http.MethodGet)
	r.HandleFunc("/password-reset", h.ConfirmReset).Methods(http.MethodPost)
	return r
}

var resetPage = template.Must(template.New("reset").Parse(`<!doctype html>
<html><head><title>eclinic password reset</title></head>
<body>
<form method="post" action="/password-reset">
<input type="hidden" name="token" value="{{.}}">
<label>New password <input type="password" name="password" minlength="6" required></label>
<button type="submit">Save</button>
</form>
</body></html>
`))

// ResetForm renders the form the emailed link points at.
func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resetPage.Execute(w, token); err != nil {
		h.logger.Error(r.Context(), "render reset page", "error", err)
	}
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type resetResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func decodeReset(w http.ResponseWriter, r *http.Request) (resetRequest, error) {
	var req resetRequest
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Token = r.PostForm.Get("token")
	req.Password = r.PostForm.Get("password")
	return req, nil
}

// ConfirmReset accepts a JSON body or a form post with token and password.
func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReset(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, resetResponse{Error: "malformed request"})
		return
	}
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, resetResponse{Error: "missing token"})
		return
	}

	err = h.resetter.ConfirmPasswordReset(r.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resetResponse{Status: "password updated"})
	case errors.Is(err, services.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, resetResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidResetToken):
		writeJSON(w, http.StatusGone, resetResponse{Error: err.Error()})
	default:
		h.logger.Error(r.Context(), "confirm password reset", "error", err)
		writeJSON(w, http.StatusInternalServerError, resetResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
