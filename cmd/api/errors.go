package main

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/locale"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, translator(r).T(locale.GenericError))
}

// backendErrorResponse reports a write the data layer rejected. The cause was
// already logged where it happened.
func (app *application) backendErrorResponse(w http.ResponseWriter, r *http.Request, msgID string) {
	app.logger.Warnw("backend rejected request", "method", r.Method, "path", r.URL.Path, "message", msgID)

	writeJSONError(w, http.StatusBadGateway, translator(r).T(msgID))
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

// failedValidationResponse answers with an already localized message.
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string, err error) {
	app.logger.Infow("validation failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, msgID string) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusNotFound, translator(r).T(msgID))
}

// confirmationRequiredResponse returns the prompt a client must show before
// repeating the request with ?confirm=true.
func (app *application) confirmationRequiredResponse(w http.ResponseWriter, r *http.Request, prompt locale.Prompt) {
	writeJSON(w, http.StatusConflict, &errorEnvelope{
		Message: translator(r).T(locale.ConfirmRequired),
		Status:  http.StatusConflict,
		Prompt:  &prompt,
	})
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, translator(r).T(locale.AuthInvalidLogin))
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter.String())
}
