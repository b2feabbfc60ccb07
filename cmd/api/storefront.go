package main

import (
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"
	"storefront/internal/helpers"
	"storefront/internal/locale"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// ListProducts godoc
//
//	@Summary		Browse products
//	@Description	Lists products newest first, filtered by name search, category, brand and an optional price range.
//	@Tags			Storefront
//	@Produce		json
//	@Param			search		query		string	false	"Case-insensitive name search"
//	@Param			category	query		string	false	"Category id or 'all'"
//	@Param			brand		query		string	false	"Brand id or 'all'"
//	@Param			min_price	query		number	false	"Lower price bound, used with max_price"
//	@Param			max_price	query		number	false	"Upper price bound, used with min_price"
//	@Success		200			{object}	helpers.Listing
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	f := catalog.ParseFilter(r.URL.Query())
	ctx := r.Context()

	var (
		all        []*products.Product
		categories []*products.Category
		brands     []*products.Brand
		g          errgroup.Group
	)
	g.Go(func() error {
		all = app.catalog.GetProducts(ctx)
		return nil
	})
	g.Go(func() error {
		categories = app.catalog.GetCategories(ctx)
		return nil
	})
	g.Go(func() error {
		brands = app.catalog.GetBrands(ctx)
		return nil
	})
	_ = g.Wait()

	listing := helpers.ToListing(all, f, categories, brands, translator(r))
	if err := app.jsonResponse(w, http.StatusOK, listing); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetProduct godoc
//
//	@Summary		Product page
//	@Description	Returns one product with its variables, the sanitized description and the store contact phone.
//	@Tags			Storefront
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	helpers.ProductDetail
//	@Failure		404			{object}	errorEnvelope
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	ctx := r.Context()

	var (
		p *products.Product
		s *settings.Settings
		g errgroup.Group
	)
	g.Go(func() error {
		p = app.catalog.GetProductByID(ctx, id)
		return nil
	})
	g.Go(func() error {
		s = app.catalog.GetSettings(ctx)
		return nil
	})
	_ = g.Wait()

	if p == nil {
		app.notFoundResponse(w, r, locale.ProductNotFound)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, helpers.ToProductDetail(p, s)); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListCategories godoc
//
//	@Summary	List categories sorted by name
//	@Tags		Storefront
//	@Produce	json
//	@Success	200	{array}	products.Category
//	@Router		/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.GetCategories(r.Context())); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListBrands godoc
//
//	@Summary	List brands sorted by name
//	@Tags		Storefront
//	@Produce	json
//	@Success	200	{array}	products.Brand
//	@Router		/brands [get]
func (app *application) listBrandsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.GetBrands(r.Context())); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetSettings godoc
//
//	@Summary		Store settings
//	@Description	Returns the contact settings, or null when none were saved yet.
//	@Tags			Storefront
//	@Produce		json
//	@Success		200	{object}	settings.Settings
//	@Router			/settings [get]
func (app *application) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog.GetSettings(r.Context())); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetMedia godoc
//
//	@Summary		Serve a stored product image
//	@Description	Available only when images are kept in memory (no CLOUDINARY_URL).
//	@Tags			Storefront
//	@Produce		octet-stream
//	@Param			key	path	string	true	"Object key"
//	@Success		200
//	@Failure		404	{object}	errorEnvelope
//	@Router			/media/{key} [get]
func (app *application) getMediaHandler(w http.ResponseWriter, r *http.Request) {
	contentType, data, ok := app.memoryMedia.Get(chi.URLParam(r, "key"))
	if !ok {
		app.notFoundResponse(w, r, locale.ImageNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
