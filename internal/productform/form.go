// Package productform drives the admin product editor: loading options,
// staging images and attributes, and the ordered submit sequence
// (validate, upload, write product, write attributes).
//
// A Form is owned by one caller and is not safe for concurrent use.
package productform

import (
	"context"
	"errors"
	"strconv"

	"storefront/internal/domain/products"
	"storefront/internal/locale"
	"storefront/internal/media"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NoSelection is the category/brand value meaning "not set".
const NoSelection = "none"

// RedirectPath is where a finished form sends the admin.
const RedirectPath = "/v1/admin/dashboard/products"

var (
	ErrNotFound      = errors.New("product not found")
	ErrNotReady      = errors.New("form is not ready")
	ErrBusy          = errors.New("submission already in progress")
	ErrInvalid       = errors.New("invalid product form")
	ErrTooManyImages = errors.New("too many images")
	ErrInvalidImage  = errors.New("invalid image")
	ErrSaveFailed    = errors.New("save failed")
	ErrNotEditing    = errors.New("operation requires an existing product")
	ErrOutOfRange    = errors.New("index out of range")
	ErrUnknownRow    = errors.New("unknown attribute row")
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSubmitting
	PhaseDone
	// PhaseFailed is ready-with-error: the form stays editable.
	PhaseFailed
	PhaseNotFound
)

var phaseNames = [...]string{"loading", "ready", "submitting", "done", "failed", "not_found"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the tagged form state; Message is the localized error, if any.
type State struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
}

// Backend is the part of the data access layer the form calls.
type Backend interface {
	GetCategories(ctx context.Context) []*products.Category
	GetBrands(ctx context.Context) []*products.Brand
	GetProductByID(ctx context.Context, id string) *products.Product
	CreateProduct(ctx context.Context, in products.ProductInput) *products.Product
	UpdateProduct(ctx context.Context, id string, in products.ProductInput) *products.Product
	DeleteProduct(ctx context.Context, id string) bool
	CreateVariable(ctx context.Context, in products.VariableInput) *products.Variable
	DeleteVariable(ctx context.Context, id string) bool
}

// Images is the upload helper.
type Images interface {
	Check(f media.File) error
	UploadProductImage(ctx context.Context, f media.File, productID string) string
	RemoveProductImage(ctx context.Context, url string) bool
}

type Deps struct {
	Backend  Backend
	Images   Images
	Previews *Previews
	Locale   locale.Translator
	Logger   *zap.SugaredLogger
}

type PendingImage struct {
	File       media.File
	PreviewURL string
}

type Form struct {
	deps      Deps
	mode      Mode
	productID string
	state     State

	name        string
	price       string
	description string
	category    string
	brand       string

	existing []string
	removed  []string
	pending  []PendingImage

	variables    []*products.Variable
	stagingName  string
	stagingValue string

	categories []*products.Category
	brands     []*products.Brand
	product    *products.Product
	result     *products.Product
}

// New returns a form in the loading phase. An empty id or "new" selects create mode.
func New(deps Deps, productID string) *Form {
	if deps.Previews == nil {
		deps.Previews = NewPreviews()
	}
	if deps.Locale == nil {
		deps.Locale = locale.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}

	f := &Form{
		deps:      deps,
		mode:      ModeCreate,
		state:     State{Phase: PhaseLoading},
		category:  NoSelection,
		brand:     NoSelection,
		existing:  []string{},
		variables: []*products.Variable{},
	}
	if productID != "" && productID != "new" {
		f.mode = ModeEdit
		f.productID = productID
	}
	return f
}

func (f *Form) Mode() Mode { return f.mode }

func (f *Form) State() State { return f.state }

func (f *Form) ProductID() string { return f.productID }

// Result is the saved product after a successful submit.
func (f *Form) Result() *products.Product { return f.result }

func (f *Form) ExistingImages() []string {
	return append([]string{}, f.existing...)
}

func (f *Form) PendingImages() []PendingImage {
	return append([]PendingImage{}, f.pending...)
}

func (f *Form) Variables() []*products.Variable {
	return append([]*products.Variable{}, f.variables...)
}

// Redirect returns the post-submit destination once the form is done.
func (f *Form) Redirect() string {
	if f.state.Phase != PhaseDone {
		return ""
	}
	return RedirectPath
}

// Close releases the previews of files that were staged but never submitted.
// A form must not be used after Close.
func (f *Form) Close() {
	f.revokePreviews()
}

// Load fetches categories, brands and, in edit mode, the product, concurrently.
func (f *Form) Load(ctx context.Context) error {
	f.state = State{Phase: PhaseLoading}

	var (
		cats    []*products.Category
		brands  []*products.Brand
		product *products.Product
	)
	var g errgroup.Group
	g.Go(func() error {
		cats = f.deps.Backend.GetCategories(ctx)
		return nil
	})
	g.Go(func() error {
		brands = f.deps.Backend.GetBrands(ctx)
		return nil
	})
	if f.mode == ModeEdit {
		g.Go(func() error {
			product = f.deps.Backend.GetProductByID(ctx, f.productID)
			return nil
		})
	}
	_ = g.Wait()

	f.categories, f.brands = cats, brands

	if f.mode == ModeEdit {
		if product == nil {
			f.state = State{Phase: PhaseNotFound, Message: f.deps.Locale.T(locale.ProductNotFound)}
			return ErrNotFound
		}
		f.populate(product)
	}

	f.state = State{Phase: PhaseReady}
	return nil
}

func (f *Form) populate(p *products.Product) {
	f.product = p
	f.name = p.Name
	f.price = strconv.FormatFloat(p.Price, 'f', -1, 64)
	f.description = ""
	if p.Description != nil {
		f.description = *p.Description
	}
	f.category = NoSelection
	if p.CategoryID != nil {
		f.category = *p.CategoryID
	}
	f.brand = NoSelection
	if p.BrandID != nil {
		f.brand = *p.BrandID
	}
	f.existing = append([]string{}, p.ImageURLs...)
	f.variables = append([]*products.Variable{}, p.Variables...)
}

func (f *Form) SetName(v string) { f.name = v }

func (f *Form) SetPrice(v string) { f.price = v }

func (f *Form) SetDescription(v string) { f.description = v }

// SetCategory selects a category id, or NoSelection.
func (f *Form) SetCategory(id string) { f.category = selection(id) }

// SetBrand selects a brand id, or NoSelection.
func (f *Form) SetBrand(id string) { f.brand = selection(id) }

// SetStaging fills the attribute inputs used by AddVariable.
func (f *Form) SetStaging(name, value string) {
	f.stagingName, f.stagingValue = name, value
}

func selection(id string) string {
	if id == "" {
		return NoSelection
	}
	return id
}

func (f *Form) editable() bool {
	return f.state.Phase == PhaseReady || f.state.Phase == PhaseFailed
}

// fail records a localized error and leaves the form editable.
func (f *Form) fail(msgID string, err error) error {
	f.state = State{Phase: PhaseFailed, Message: f.deps.Locale.T(msgID)}
	return err
}

// View is a serializable snapshot of the form.
type View struct {
	Mode           string               `json:"mode"`
	State          State                `json:"state"`
	ProductID      string               `json:"product_id,omitempty"`
	Name           string               `json:"name"`
	Price          string               `json:"price"`
	Description    string               `json:"description"`
	CategoryID     string               `json:"category_id"`
	BrandID        string               `json:"brand_id"`
	ExistingImages []string             `json:"existing_images"`
	PendingImages  []string             `json:"pending_previews"`
	Variables      []*products.Variable `json:"variables"`
	Categories     []*products.Category `json:"categories"`
	Brands         []*products.Brand    `json:"brands"`
	Redirect       string               `json:"redirect,omitempty"`
}

func (f *Form) View() View {
	previews := make([]string, 0, len(f.pending))
	for _, p := range f.pending {
		previews = append(previews, p.PreviewURL)
	}
	return View{
		Mode:           f.mode.String(),
		State:          f.state,
		ProductID:      f.productID,
		Name:           f.name,
		Price:          f.price,
		Description:    f.description,
		CategoryID:     f.category,
		BrandID:        f.brand,
		ExistingImages: f.ExistingImages(),
		PendingImages:  previews,
		Variables:      f.Variables(),
		Categories:     f.categories,
		Brands:         f.brands,
		Redirect:       f.Redirect(),
	}
}
