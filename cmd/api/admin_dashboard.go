package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/export"

	"golang.org/x/text/language"
)

// Dashboard godoc
//
//	@Summary	Catalog counts
//	@Tags		Admin dashboard
//	@Produce	json
//	@Success	200	{object}	products.Counts
//	@Router		/admin/dashboard [get]
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	counts := app.catalog.CountAll(r.Context())
	if err := app.jsonResponse(w, http.StatusOK, counts); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ExportProducts godoc
//
//	@Summary		Export products
//	@Description	Downloads every product as an xlsx workbook, right-to-left for Hebrew.
//	@Tags			Admin products
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200	{file}	file
//	@Router			/admin/dashboard/products/export [get]
func (app *application) exportProductsHandler(w http.ResponseWriter, r *http.Request) {
	tr := translator(r)
	list := app.catalog.GetProducts(r.Context())

	var buf bytes.Buffer
	if err := export.Products(&buf, list, tr, tr.Tag() == language.Hebrew); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	name := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Warnw("export write failed", "error", err)
	}
}
