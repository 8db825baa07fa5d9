package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/avelasquez/stridemart-backend/pkg/auth"
	"github.com/avelasquez/stridemart-backend/pkg/auth/session"
	"github.com/avelasquez/stridemart-backend/pkg/config"
)

type stubRotator struct {
	lastOld      string
	lastProvided string
	newID        string
	newToken     string
	err          error
}

func (s *stubRotator) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	s.lastOld = oldAccessID
	s.lastProvided = provided
	if s.err != nil {
		return "", "", s.err
	}
	return s.newID, s.newToken, nil
}

func sessionTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "session-test-secret", Issuer: "stridemart-test", ExpirationMinutes: 10}
}

// mintSessionToken issues a token whose lifetime starts at issuedAt, so
// backdating it past the TTL produces an expired token.
func mintSessionToken(t *testing.T, cfg config.JWTConfig, issuedAt time.Time) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(cfg, issuedAt, pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ada@example.com",
		JTI:    accessID,
	})
	require.NoError(t, err)
	return token, accessID
}

func postRefresh(t *testing.T, handler http.HandlerFunc, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRefreshRotatesExpiredToken(t *testing.T) {
	cfg := sessionTestConfig()
	rotator := &stubRotator{newID: session.NewAccessID(), newToken: "fresh-refresh"}
	handler := AuthRefresh(rotator, cfg, nil)

	// issued an hour ago with a ten-minute TTL
	token, jti := mintSessionToken(t, cfg, time.Now().Add(-time.Hour))
	rec := postRefresh(t, handler, token, `{"refresh_token":"old-refresh"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jti, rotator.lastOld)
	assert.Equal(t, "old-refresh", rotator.lastProvided)

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "fresh-refresh", envelope.Data.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	require.NoError(t, err, "minted access token must be valid again")
	assert.Equal(t, rotator.newID, claims.ID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestAuthRefreshRejectsSpentRefreshToken(t *testing.T) {
	cfg := sessionTestConfig()
	rotator := &stubRotator{err: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(rotator, cfg, nil)

	token, _ := mintSessionToken(t, cfg, time.Now())
	rec := postRefresh(t, handler, token, `{"refresh_token":"spent"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRefreshRejectsBadCredentials(t *testing.T) {
	cfg := sessionTestConfig()
	handler := AuthRefresh(&stubRotator{}, cfg, nil)

	rec := postRefresh(t, handler, "", `{"refresh_token":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing bearer token")

	rec = postRefresh(t, handler, "not-a-jwt", `{"refresh_token":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "malformed bearer token")

	forged, err := pkgauth.MintAccessToken(
		config.JWTConfig{Secret: "other-secret", Issuer: "stridemart-test", ExpirationMinutes: 10},
		time.Now(),
		pkgauth.AccessTokenPayload{UserID: uuid.New(), JTI: session.NewAccessID()},
	)
	require.NoError(t, err)
	rec = postRefresh(t, handler, forged, `{"refresh_token":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "wrong signing key")
}
