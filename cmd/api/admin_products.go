package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/domain/products"
	"storefront/internal/locale"
	"storefront/internal/media"
	"storefront/internal/params"
	"storefront/internal/productform"

	"github.com/go-chi/chi/v5"
)

// multipart budget: every image at the cap plus the text fields
const maxProductFormBytes = products.MaxImages*media.MaxFileSize + 1<<20

func (app *application) newProductForm(r *http.Request, productID string) *productform.Form {
	return productform.New(productform.Deps{
		Backend:  app.catalog,
		Images:   app.images,
		Previews: app.previews,
		Locale:   translator(r),
		Logger:   app.logger,
	}, productID)
}

// loadProductForm loads the form and answers 404 itself when the product is missing.
func (app *application) loadProductForm(w http.ResponseWriter, r *http.Request, productID string) (*productform.Form, bool) {
	form := app.newProductForm(r, productID)
	if err := form.Load(r.Context()); err != nil {
		if errors.Is(err, productform.ErrNotFound) {
			app.notFoundResponse(w, r, locale.ProductNotFound)
			return nil, false
		}
		app.internalServerError(w, r, err)
		return nil, false
	}
	return form, true
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

type adminProductList struct {
	Products   []*products.Product `json:"products"`
	Search     string              `json:"search"`
	Pagination params.Pagination   `json:"pagination"`
}

// AdminListProducts godoc
//
//	@Summary		Admin product list
//	@Description	Products newest first with name search and pagination.
//	@Tags			Admin products
//	@Produce		json
//	@Param			q		query		string	false	"Name search"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Items per page"
//	@Success		200		{object}	adminProductList
//	@Router			/admin/dashboard/products [get]
func (app *application) adminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pg := params.ParsePagination(q)
	search := params.Search(q)

	matched := catalog.Apply(app.catalog.GetProducts(r.Context()), catalog.Filter{Search: search})
	resp := adminProductList{
		Products: params.Page(matched, &pg),
		Search:   search,
	}
	resp.Pagination = pg

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// NewProductForm godoc
//
//	@Summary		Blank product form
//	@Description	Returns an empty form with the category and brand options.
//	@Tags			Admin products
//	@Produce		json
//	@Success		200	{object}	productform.View
//	@Router			/admin/dashboard/products/new [get]
func (app *application) newProductFormHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, "")
	if !ok {
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, form.View()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// EditProductForm godoc
//
//	@Summary		Product form
//	@Description	Returns the form populated from the stored product.
//	@Tags			Admin products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	productform.View
//	@Failure		404			{object}	errorEnvelope
//	@Router			/admin/dashboard/products/{productID} [get]
func (app *application) editProductFormHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, form.View()); err != nil {
		app.internalServerError(w, r, err)
	}
}

type productSaved struct {
	Product  *products.Product `json:"product"`
	Redirect string            `json:"redirect"`
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Uploads the images, creates the product and then its attributes.
//	@Tags			Admin products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name			formData	string	true	"Name"
//	@Param			price			formData	number	true	"Price"
//	@Param			description		formData	string	false	"Description (bold and line breaks)"
//	@Param			category_id		formData	string	false	"Category id or 'none'"
//	@Param			brand_id		formData	string	false	"Brand id or 'none'"
//	@Param			images			formData	[]file	false	"Up to 5 images, JPG/PNG/WEBP, 2MB each"
//	@Param			variable_name	formData	[]string	false	"Attribute names"
//	@Param			variable_value	formData	[]string	false	"Attribute values"
//	@Success		201				{object}	productSaved
//	@Failure		400				{object}	errorEnvelope
//	@Failure		502				{object}	errorEnvelope
//	@Router			/admin/dashboard/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, "")
	if !ok {
		return
	}
	defer form.Close()
	defer removeMultipart(r)
	if !app.fillProductForm(w, r, form) {
		return
	}
	if err := form.Submit(r.Context()); err != nil {
		app.productFormErrorResponse(w, r, form, err)
		return
	}

	app.logger.Infow("product created", "product_id", form.Result().ID, "images", len(form.Result().ImageURLs))

	if err := app.jsonResponse(w, http.StatusCreated, productSaved{Product: form.Result(), Redirect: form.Redirect()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	Uploads new images and saves the product with the retained and new image URLs. Omit keep_images to keep every stored image.
//	@Tags			Admin products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			productID	path		string		true	"Product ID"
//	@Param			name		formData	string		true	"Name"
//	@Param			price		formData	number		true	"Price"
//	@Param			keep_images	formData	[]string	false	"Stored image URLs to keep"
//	@Param			images		formData	[]file		false	"New images"
//	@Success		200			{object}	productSaved
//	@Failure		400			{object}	errorEnvelope
//	@Failure		404			{object}	errorEnvelope
//	@Failure		502			{object}	errorEnvelope
//	@Router			/admin/dashboard/products/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	defer form.Close()
	defer removeMultipart(r)
	if !app.fillProductForm(w, r, form) {
		return
	}
	if err := form.Submit(r.Context()); err != nil {
		app.productFormErrorResponse(w, r, form, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, productSaved{Product: form.Result(), Redirect: form.Redirect()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeleteProduct godoc
//
//	@Summary		Delete a product
//	@Description	Without confirm=true the confirmation prompt is returned with 409.
//	@Tags			Admin products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Param			confirm		query		bool	false	"Confirm the deletion"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	errorEnvelope
//	@Failure		409			{object}	errorEnvelope
//	@Router			/admin/dashboard/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	if !confirmed(r) {
		app.confirmationRequiredResponse(w, r, form.DeletePrompt())
		return
	}
	if err := form.Delete(r.Context()); err != nil {
		app.productFormErrorResponse(w, r, form, err)
		return
	}

	app.logger.Infow("product deleted", "product_id", form.ProductID())

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"deleted": true, "redirect": productform.RedirectPath}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// removeMultipart drops spooled upload files once the request is done with them.
func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// fillProductForm copies the multipart fields into form. It writes the error
// response itself and returns false when the request cannot be used.
func (app *application) fillProductForm(w http.ResponseWriter, r *http.Request, form *productform.Form) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductFormBytes)
	if err := r.ParseMultipartForm(maxProductFormBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return false
	}

	form.SetName(r.FormValue("name"))
	form.SetPrice(r.FormValue("price"))
	form.SetDescription(r.FormValue("description"))
	form.SetCategory(r.FormValue("category_id"))
	form.SetBrand(r.FormValue("brand_id"))

	if keep, ok := r.MultipartForm.Value["keep_images"]; ok {
		form.RetainImages(keep)
	}

	var files []media.File
	for _, fh := range r.MultipartForm.File["images"] {
		files = append(files, media.FromFileHeader(fh))
	}
	if err := form.SelectImages(files); err != nil {
		app.productFormErrorResponse(w, r, form, err)
		return false
	}

	if form.Mode() == productform.ModeCreate {
		names, values := r.MultipartForm.Value["variable_name"], r.MultipartForm.Value["variable_value"]
		for i := 0; i < len(names) && i < len(values); i++ {
			form.SetStaging(names[i], values[i])
			if err := form.AddVariable(r.Context()); err != nil {
				app.productFormErrorResponse(w, r, form, err)
				return false
			}
		}
	}
	return true
}

func (app *application) productFormErrorResponse(w http.ResponseWriter, r *http.Request, form *productform.Form, err error) {
	msg := form.State().Message
	if msg == "" {
		msg = translator(r).T(locale.GenericError)
	}

	switch {
	case errors.Is(err, productform.ErrInvalid),
		errors.Is(err, productform.ErrTooManyImages),
		errors.Is(err, productform.ErrInvalidImage):
		app.failedValidationResponse(w, r, msg, err)
	case errors.Is(err, productform.ErrNotFound), errors.Is(err, productform.ErrUnknownRow):
		app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusNotFound, msg)
	case errors.Is(err, productform.ErrSaveFailed):
		app.logger.Warnw("backend rejected request", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusBadGateway, msg)
	default:
		app.internalServerError(w, r, err)
	}
}

type variablePayload struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=255"`
}

// CreateVariable godoc
//
//	@Summary		Add an attribute
//	@Description	Writes the attribute to the stored product immediately.
//	@Tags			Admin products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string			true	"Product ID"
//	@Param			payload		body		variablePayload	true	"Attribute"
//	@Success		201			{object}	products.Variable
//	@Failure		400			{object}	errorEnvelope
//	@Failure		404			{object}	errorEnvelope
//	@Failure		502			{object}	errorEnvelope
//	@Router			/admin/dashboard/products/{productID}/variables [post]
func (app *application) createVariableHandler(w http.ResponseWriter, r *http.Request) {
	var payload variablePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Name, payload.Value = strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Value)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, ok := app.loadProductForm(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	form.SetStaging(payload.Name, payload.Value)
	if err := form.AddVariable(r.Context()); err != nil {
		app.productFormErrorResponse(w, r, form, err)
		return
	}

	vars := form.Variables()
	if err := app.jsonResponse(w, http.StatusCreated, vars[len(vars)-1]); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeleteVariable godoc
//
//	@Summary	Remove an attribute
//	@Tags		Admin products
//	@Produce	json
//	@Param		productID	path		string	true	"Product ID"
//	@Param		variableID	path		string	true	"Attribute ID"
//	@Success	200			{array}		products.Variable
//	@Failure	404			{object}	errorEnvelope
//	@Failure	502			{object}	errorEnvelope
//	@Router		/admin/dashboard/products/{productID}/variables/{variableID} [delete]
func (app *application) deleteVariableHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := app.loadProductForm(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	if err := form.RemoveVariable(r.Context(), chi.URLParam(r, "variableID")); err != nil {
		if errors.Is(err, productform.ErrUnknownRow) {
			app.notFoundResponse(w, r, locale.VariableNotFound)
			return
		}
		app.productFormErrorResponse(w, r, form, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, form.Variables()); err != nil {
		app.internalServerError(w, r, err)
	}
}
