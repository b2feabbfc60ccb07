package main

import (
	"errors"
	"net/http"

	"storefront/internal/domain/products"
	"storefront/internal/listedit"
	"storefront/internal/locale"

	"github.com/go-chi/chi/v5"
)

type boardResponse struct {
	Categories []*products.Category `json:"categories"`
	Brands     []*products.Brand    `json:"brands"`
}

// ListBoard godoc
//
//	@Summary		Categories and brands
//	@Description	Both lists, sorted by name.
//	@Tags			Admin categories
//	@Produce		json
//	@Success		200	{object}	boardResponse
//	@Router			/admin/dashboard/categories [get]
func (app *application) listBoardHandler(w http.ResponseWriter, r *http.Request) {
	board := listedit.LoadBoard(r.Context(), app.catalog, translator(r))
	resp := boardResponse{Categories: board.Categories.Items(), Brands: board.Brands.Items()}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type listItemPayload struct {
	Name string `json:"name" validate:"max=100"`
}

func (app *application) readListItem(w http.ResponseWriter, r *http.Request) (listItemPayload, bool) {
	var payload listItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payload, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payload, false
	}
	return payload, true
}

// CreateListItem godoc
//
//	@Summary	Add a category or brand
//	@Tags		Admin categories
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		listItemPayload	true	"Name"
//	@Success	201		{object}	products.Category
//	@Failure	400		{object}	errorEnvelope
//	@Failure	502		{object}	errorEnvelope
//	@Router		/admin/dashboard/categories [post]
//	@Router		/admin/dashboard/brands [post]
func (app *application) createListItemHandler(kind listedit.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := app.readListItem(w, r)
		if !ok {
			return
		}
		board := listedit.LoadBoard(r.Context(), app.catalog, translator(r))
		if kind == listedit.KindCategory {
			addItem(app, w, r, board.Categories, payload.Name)
		} else {
			addItem(app, w, r, board.Brands, payload.Name)
		}
	}
}

// RenameListItem godoc
//
//	@Summary	Rename a category or brand
//	@Tags		Admin categories
//	@Accept		json
//	@Produce	json
//	@Param		itemID	path		string			true	"Category or brand ID"
//	@Param		payload	body		listItemPayload	true	"New name"
//	@Success	200		{object}	products.Category
//	@Failure	400		{object}	errorEnvelope
//	@Failure	404		{object}	errorEnvelope
//	@Failure	502		{object}	errorEnvelope
//	@Router		/admin/dashboard/categories/{itemID} [patch]
//	@Router		/admin/dashboard/brands/{itemID} [patch]
func (app *application) renameListItemHandler(kind listedit.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := app.readListItem(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "itemID")
		board := listedit.LoadBoard(r.Context(), app.catalog, translator(r))
		if kind == listedit.KindCategory {
			renameItem(app, w, r, board.Categories, id, payload.Name)
		} else {
			renameItem(app, w, r, board.Brands, id, payload.Name)
		}
	}
}

// DeleteListItem godoc
//
//	@Summary		Delete a category or brand
//	@Description	Without confirm=true the confirmation prompt is returned with 409. Products keep no reference to a deleted category or brand.
//	@Tags			Admin categories
//	@Produce		json
//	@Param			itemID	path		string	true	"Category or brand ID"
//	@Param			confirm	query		bool	false	"Confirm the deletion"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	errorEnvelope
//	@Failure		409		{object}	errorEnvelope
//	@Failure		502		{object}	errorEnvelope
//	@Router			/admin/dashboard/categories/{itemID} [delete]
//	@Router			/admin/dashboard/brands/{itemID} [delete]
func (app *application) deleteListItemHandler(kind listedit.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "itemID")
		board := listedit.LoadBoard(r.Context(), app.catalog, translator(r))
		if kind == listedit.KindCategory {
			deleteItem(app, w, r, board.Categories, id)
		} else {
			deleteItem(app, w, r, board.Brands, id)
		}
	}
}

func addItem[T listedit.Record](app *application, w http.ResponseWriter, r *http.Request, e *listedit.Editor[T], name string) {
	rec, err := e.Add(r.Context(), name)
	if err != nil {
		app.listErrorResponse(w, r, err, locale.ListSaveFailed)
		return
	}
	if err := app.jsonResponse(w, http.StatusCreated, rec); err != nil {
		app.internalServerError(w, r, err)
	}
}

func renameItem[T listedit.Record](app *application, w http.ResponseWriter, r *http.Request, e *listedit.Editor[T], id, name string) {
	if err := e.StartEdit(id); err != nil {
		app.listErrorResponse(w, r, err, locale.ListSaveFailed)
		return
	}
	e.SetDraft(name)
	rec, err := e.Save(r.Context())
	if err != nil {
		app.listErrorResponse(w, r, err, locale.ListSaveFailed)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, rec); err != nil {
		app.internalServerError(w, r, err)
	}
}

func deleteItem[T listedit.Record](app *application, w http.ResponseWriter, r *http.Request, e *listedit.Editor[T], id string) {
	prompt, err := e.RequestDelete(id)
	if err != nil {
		app.listErrorResponse(w, r, err, locale.ListDeleteFailed)
		return
	}
	if !confirmed(r) {
		e.CancelDelete()
		app.confirmationRequiredResponse(w, r, prompt)
		return
	}
	if err := e.ConfirmDelete(r.Context()); err != nil {
		app.listErrorResponse(w, r, err, locale.ListDeleteFailed)
		return
	}

	app.logger.Infow("list item deleted", "id", id, "path", r.URL.Path)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"deleted": true, "items": e.Items()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listErrorResponse(w http.ResponseWriter, r *http.Request, err error, backendMsg string) {
	switch {
	case errors.Is(err, listedit.ErrEmptyName):
		app.failedValidationResponse(w, r, translator(r).T(locale.ListNameRequired), err)
	case errors.Is(err, listedit.ErrUnknownID):
		app.notFoundResponse(w, r, locale.ListItemNotFound)
	case errors.Is(err, listedit.ErrBackend):
		app.backendErrorResponse(w, r, backendMsg)
	default:
		app.internalServerError(w, r, err)
	}
}
