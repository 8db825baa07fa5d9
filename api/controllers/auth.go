package controllers

import (
	"net/http"

	"github.com/avelasquez/stridemart-backend/api/middleware"
	"github.com/avelasquez/stridemart-backend/api/responses"
	"github.com/avelasquez/stridemart-backend/api/validators"
	authsvc "github.com/avelasquez/stridemart-backend/internal/auth"
	"github.com/avelasquez/stridemart-backend/pkg/config"
	pkgerrors "github.com/avelasquez/stridemart-backend/pkg/errors"
	"github.com/avelasquez/stridemart-backend/pkg/logger"
)

// AuthRegister creates an account. A guest cart carried by the cookie is
// folded into the new account and the cookie is cleared.
func AuthRegister(svc authsvc.Service, guestCfg config.GuestConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guestToken := guestTokenFromRequest(r, guestCfg)
		resp, err := svc.Register(r.Context(), payload, guestToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if guestToken != "" {
			clearGuestCookie(w, guestCfg)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthLogin verifies credentials. A guest cart carried by the cookie is
// folded into the account and the cookie is cleared.
func AuthLogin(svc authsvc.Service, guestCfg config.GuestConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guestToken := guestTokenFromRequest(r, guestCfg)
		resp, err := svc.Login(r.Context(), payload, guestToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if guestToken != "" {
			clearGuestCookie(w, guestCfg)
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the caller's session.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
