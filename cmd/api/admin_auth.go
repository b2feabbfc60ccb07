package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/locale"
)

const (
	loginPath     = "/v1/admin/login"
	dashboardPath = "/v1/admin/dashboard"
)

// safeRedirect keeps post-login redirects inside the admin area.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/v1/admin/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") &&
		!strings.HasPrefix(target, loginPath) {
		return target
	}
	return dashboardPath
}

func (app *application) adminRootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

type loginPageResponse struct {
	Action     string `json:"action"`
	Method     string `json:"method"`
	RedirectTo string `json:"redirect_to"`
}

// LoginPage godoc
//
//	@Summary		Admin login entry point
//	@Description	Redirects to redirectTo (or the dashboard) when a session exists, otherwise describes the login call.
//	@Tags			Admin auth
//	@Produce		json
//	@Param			redirectTo	query		string	false	"Admin path to return to"
//	@Success		200			{object}	loginPageResponse
//	@Success		303
//	@Router			/admin/login [get]
func (app *application) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	target := safeRedirect(r.URL.Query().Get("redirectTo"))
	if h := getHolder(r); h != nil && h.Authenticated() {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	resp := loginPageResponse{Action: loginPath, Method: http.MethodPost, RedirectTo: target}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type sessionResponse struct {
	AdminID     string    `json:"admin_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Redirect    string    `json:"redirect,omitempty"`
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Checks the admin credentials, sets the session cookies and returns where to go next.
//	@Tags			Admin auth
//	@Accept			json
//	@Produce		json
//	@Param			payload		body		loginPayload	true	"Credentials"
//	@Param			redirectTo	query		string			false	"Admin path to return to"
//	@Success		200			{object}	sessionResponse
//	@Failure		400			{object}	errorEnvelope
//	@Failure		401			{object}	errorEnvelope
//	@Failure		429			{object}	errorEnvelope
//	@Router			/admin/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, translator(r).T(locale.AuthInvalidLogin), err)
		return
	}

	sess, err := getHolder(r).SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("admin signed in", "admin_id", sess.AdminID)

	resp := sessionResponse{
		AdminID:     sess.AdminID,
		Email:       sess.Email,
		AccessToken: sess.Tokens.Access,
		ExpiresAt:   sess.Tokens.ExpiresAt,
		Redirect:    safeRedirect(r.URL.Query().Get("redirectTo")),
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// Logout godoc
//
//	@Summary	Sign out
//	@Tags		Admin auth
//	@Produce	json
//	@Success	200	{object}	map[string]bool
//	@Router		/admin/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := getHolder(r).SignOut(r.Context()); err != nil {
		app.logger.Warnw("refresh token revocation failed", "error", err)
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]bool{"signed_out": true}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type sessionStatus struct {
	Authenticated bool             `json:"authenticated"`
	Session       *sessionResponse `json:"session,omitempty"`
}

// Session godoc
//
//	@Summary	Current admin session
//	@Tags		Admin auth
//	@Produce	json
//	@Success	200	{object}	sessionStatus
//	@Router		/admin/session [get]
func (app *application) sessionHandler(w http.ResponseWriter, r *http.Request) {
	var status sessionStatus
	if sess := getHolder(r).Session(); sess != nil {
		status.Authenticated = true
		status.Session = &sessionResponse{AdminID: sess.AdminID, Email: sess.Email, ExpiresAt: sess.Tokens.ExpiresAt}
	}

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}
