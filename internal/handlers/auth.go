package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cimhub-go/internal/auth"
	"cimhub-go/internal/services"

	"go.uber.org/zap"
)

// Authenticator logs operators in; *services.OperatorService satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.AccessToken, *services.OperatorInfo, error)
	LoginLDAP(ctx context.Context, username, password string) (*auth.AccessToken, *services.OperatorInfo, error)
}

type AuthHandler struct {
	authSvc Authenticator
	logr    *zap.Logger
}

func NewAuthHandler(svc Authenticator, logr *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: svc, logr: logr}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ldapReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string                 `json:"access_token"`
	ExpiresAt   time.Time              `json:"access_expires_at"`
	User        *services.OperatorInfo `json:"user"`
}

// POST /auth/login
func (h *AuthHandler) LoginLocal(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	tok, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logr.Warn("local login failed", zap.Error(err), zap.String("email", req.Email))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: tok.Token, ExpiresAt: tok.ExpiresAt, User: user})
}

// POST /auth/ldap
func (h *AuthHandler) LoginLDAP(w http.ResponseWriter, r *http.Request) {
	var req ldapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	tok, user, err := h.authSvc.LoginLDAP(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logr.Warn("ldap login failed", zap.Error(err), zap.String("username", req.Username))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: tok.Token, ExpiresAt: tok.ExpiresAt, User: user})
}
