package main

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/locale"
)

type ctxKey string

const (
	localeCtx ctxKey = "locale"
	holderCtx ctxKey = "session"
)

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read the auth header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			// parse it -> get the base64
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			// decode it
			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			// check the credentials
			username := app.config.Auth.Basic.User
			pass := app.config.Auth.Basic.Pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if username == "" || len(creds) != 2 ||
				subtle.ConstantTimeCompare([]byte(creds[0]), []byte(username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(creds[1]), []byte(pass)) != 1 {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LocaleMiddleware picks the message language from Accept-Language. Hebrew is the default.
func (app *application) LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := locale.New(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), localeCtx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func translator(r *http.Request) *locale.Localizer {
	if l, ok := r.Context().Value(localeCtx).(*locale.Localizer); ok {
		return l
	}
	return locale.Default()
}

// SessionMiddleware gives every admin request its own session holder, resolved
// from the auth cookies or a bearer token. Session changes are written back as cookies.
func (app *application) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder := auth.NewHolder(app.auth)
		defer holder.Close()

		unsubscribe := holder.Subscribe(func(ev auth.Event, sess *auth.Session) {
			switch ev {
			case auth.SignedIn, auth.TokenRefreshed:
				app.setAuthCookies(w, sess.Tokens)
			case auth.SignedOut:
				app.clearAuthCookies(w)
			}
		})
		defer unsubscribe()

		if err := holder.Init(r.Context(), tokensFromRequest(r)); err != nil {
			if errors.Is(err, auth.ErrClosed) {
				app.internalServerError(w, r, err)
				return
			}
			// cookies are kept; the next request can resolve them again
			app.logger.Warnw("session lookup failed", "path", r.URL.Path, "error", err)
		}

		ctx := context.WithValue(r.Context(), holderCtx, holder)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getHolder(r *http.Request) *auth.Holder {
	h, _ := r.Context().Value(holderCtx).(*auth.Holder)
	return h
}

// RequireSession redirects anonymous requests to the login entry point,
// carrying the requested path in redirectTo.
func (app *application) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := getHolder(r); h == nil || !h.Authenticated() {
			target := loginPath + "?redirectTo=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.RateLimiter.Enabled && app.rateLimiter != nil {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port; RealIP has already applied forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
