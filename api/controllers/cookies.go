package controllers

import (
	"net/http"

	"github.com/avelasquez/stridemart-backend/pkg/config"
)

func guestTokenFromRequest(r *http.Request, cfg config.GuestConfig) string {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setGuestCookie(w http.ResponseWriter, cfg config.GuestConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearGuestCookie(w http.ResponseWriter, cfg config.GuestConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
