package main

import (
	"net/http"
	"strings"

	"storefront/internal/auth"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
	// the refresh token is only sent to admin routes, where sessions are resolved
	refreshCookiePath = "/v1/admin"
)

// setAuthCookies sets access + refresh tokens as HttpOnly cookies.
func (app *application) setAuthCookies(w http.ResponseWriter, t auth.Tokens) {
	secure := app.config.Env == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    t.Access,
		Path:     "/",
		Domain:   app.config.CookieDomain,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.Auth.Token.AccessTTL.Seconds()),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    t.Refresh,
		Path:     refreshCookiePath,
		Domain:   app.config.CookieDomain,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.Auth.Token.RefreshTTL.Seconds()),
	})
}

func (app *application) clearAuthCookies(w http.ResponseWriter) {
	expire := func(name, path string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			Domain:   app.config.CookieDomain,
			HttpOnly: true,
			Secure:   app.config.Env == "production",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	expire(accessCookie, "/")
	expire(refreshCookie, refreshCookiePath)
}

// tokensFromRequest reads the cookies, falling back to a bearer header for the access token.
func tokensFromRequest(r *http.Request) auth.Tokens {
	var t auth.Tokens
	if c, err := r.Cookie(accessCookie); err == nil {
		t.Access = c.Value
	}
	if c, err := r.Cookie(refreshCookie); err == nil {
		t.Refresh = c.Value
	}
	if t.Access == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			t.Access = strings.TrimPrefix(h, "Bearer ")
		}
	}
	return t
}
