package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/stridemart-backend/internal/identity"
	pkgauth "github.com/avelasquez/stridemart-backend/pkg/auth"
	"github.com/avelasquez/stridemart-backend/pkg/config"
)

type fakeSessionChecker struct {
	active map[string]bool
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	return f.active[accessID], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "stridemart-test", ExpirationMinutes: 10}
}

func captureActor(t *testing.T, handler func(http.Handler) http.Handler, r *http.Request) (identity.Actor, *httptest.ResponseRecorder) {
	t.Helper()
	var captured identity.Actor
	rec := httptest.NewRecorder()
	handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, r)
	return captured, rec
}

func TestActorResolvesGuestCookie(t *testing.T) {
	mw := Actor(testJWTConfig(), nil, "guest_session", nil)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "guest_session", Value: "guest-token"})

	actor, rec := captureActor(t, mw, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, actor.IsAuthenticated())
	assert.Equal(t, "guest-token", actor.GuestToken)
}

func TestActorNoCredentialsIsAnonymous(t *testing.T) {
	mw := Actor(testJWTConfig(), nil, "guest_session", nil)

	actor, rec := captureActor(t, mw, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, actor.IsAuthenticated())
	assert.Empty(t, actor.GuestToken)
}

func TestActorBearerWinsOverCookie(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	accessID := uuid.NewString()

	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "ada@example.com",
		JTI:    accessID,
	})
	require.NoError(t, err)

	mw := Actor(cfg, &fakeSessionChecker{active: map[string]bool{accessID: true}}, "guest_session", nil)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	r.AddCookie(&http.Cookie{Name: "guest_session", Value: "stale"})

	var gotAccessID string
	rec := httptest.NewRecorder()
	var actor identity.Actor
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, actor.IsAuthenticated())
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, accessID, gotAccessID)
}

func TestActorRejectsInvalidBearer(t *testing.T) {
	mw := Actor(testJWTConfig(), nil, "guest_session", nil)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")

	_, rec := captureActor(t, mw, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActorRejectsRevokedSession(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "revoked-jti",
	})
	require.NoError(t, err)

	mw := Actor(cfg, &fakeSessionChecker{active: map[string]bool{}}, "guest_session", nil)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	_, rec := captureActor(t, mw, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserBlocksGuests(t *testing.T) {
	mw := RequireUser(nil)

	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(WithActor(r.Context(), identity.Anonymous("tok")))

	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	r2 := httptest.NewRequest("GET", "/", nil)
	r2 = r2.WithContext(WithActor(r2.Context(), identity.Authenticated(uuid.New())))
	rec2 := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec2, r2)
	assert.Equal(t, http.StatusNoContent, rec2.Code)
}
