package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cimhub-go/internal/auth"
	"cimhub-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Login(_ context.Context, email, password string) (*auth.AccessToken, *services.OperatorInfo, error) {
	if password != "s3cret" {
		return nil, nil, services.ErrInvalidCredentials
	}
	return &auth.AccessToken{Token: "tok-local", ExpiresAt: time.Unix(1700000000, 0).UTC()},
		&services.OperatorInfo{Email: email, Provider: "local"}, nil
}

func (fakeAuthenticator) LoginLDAP(_ context.Context, username, _ string) (*auth.AccessToken, *services.OperatorInfo, error) {
	return &auth.AccessToken{Token: "tok-ldap"}, &services.OperatorInfo{Name: username, Provider: "ldap"}, nil
}

func TestAuthHandler(t *testing.T) {
	h := NewAuthHandler(fakeAuthenticator{}, zap.NewNop())

	post := func(fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return rec
	}

	t.Run("should return a token on local login", func(t *testing.T) {
		rec := post(h.LoginLocal, `{"email":"ops@example.com","password":"s3cret"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp tokenResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tok-local", resp.AccessToken)
		assert.Equal(t, "ops@example.com", resp.User.Email)
	})

	t.Run("should reject bad credentials", func(t *testing.T) {
		rec := post(h.LoginLocal, `{"email":"ops@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		rec := post(h.LoginLDAP, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return a token on directory login", func(t *testing.T) {
		rec := post(h.LoginLDAP, `{"username":"jdoe","password":"pw"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"tok-ldap"`)
	})
}
