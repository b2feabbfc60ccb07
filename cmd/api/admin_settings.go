package main

import (
	"net/http"

	"storefront/internal/domain/settings"
	"storefront/internal/locale"
)

// GetAdminSettings godoc
//
//	@Summary	Settings form
//	@Tags		Admin settings
//	@Produce	json
//	@Success	200	{object}	settings.Settings
//	@Router		/admin/dashboard/settings [get]
func (app *application) getAdminSettingsHandler(w http.ResponseWriter, r *http.Request) {
	s := app.catalog.GetSettings(r.Context())
	if s == nil {
		s = &settings.Settings{}
	}
	if err := app.jsonResponse(w, http.StatusOK, s); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateSettings godoc
//
//	@Summary		Save settings
//	@Description	Creates the settings row on first save, updates it afterwards.
//	@Tags			Admin settings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		settings.Update	true	"Settings"
//	@Success		200		{object}	settings.Settings
//	@Failure		400		{object}	errorEnvelope
//	@Failure		502		{object}	errorEnvelope
//	@Router			/admin/dashboard/settings [put]
func (app *application) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var payload settings.Update
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Normalize()
	if err := Validate.Struct(payload); err != nil {
		app.failedValidationResponse(w, r, translator(r).T(locale.SettingsInvalidTel), err)
		return
	}

	saved := app.catalog.UpdateSettings(r.Context(), payload)
	if saved == nil {
		app.backendErrorResponse(w, r, locale.SettingsSaveFailed)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, saved); err != nil {
		app.internalServerError(w, r, err)
	}
}
