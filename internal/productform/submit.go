package productform

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront/internal/domain/products"
	"storefront/internal/locale"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxParallelWrites bounds concurrent uploads and attribute writes.
const maxParallelWrites = 4

// Submit validates the form and saves it. Steps run in order: validation,
// image uploads, the product write and, for new products, the attribute
// writes. Validation failures never reach the backend.
func (f *Form) Submit(ctx context.Context) error {
	switch f.state.Phase {
	case PhaseSubmitting:
		return ErrBusy
	case PhaseReady, PhaseFailed:
	default:
		return ErrNotReady
	}
	f.state = State{Phase: PhaseSubmitting}

	in, msgID, err := f.validate()
	if err != nil {
		return f.fail(msgID, err)
	}

	if f.mode == ModeCreate {
		return f.submitCreate(ctx, in)
	}
	return f.submitEdit(ctx, in)
}

func (f *Form) validate() (products.ProductInput, string, error) {
	name := strings.TrimSpace(f.name)
	if name == "" {
		return products.ProductInput{}, locale.ProductNameRequired, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.price), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return products.ProductInput{}, locale.ProductInvalidPrice, fmt.Errorf("%w: invalid price %q", ErrInvalid, f.price)
	}

	in := products.ProductInput{
		Name:       name,
		Price:      price,
		ImageURLs:  []string{},
		CategoryID: reference(f.category),
		BrandID:    reference(f.brand),
	}
	if d := strings.TrimSpace(f.description); d != "" {
		in.Description = &d
	}
	return in, "", nil
}

// reference maps the "none" selection to a NULL reference.
func reference(sel string) *string {
	if sel == "" || sel == NoSelection {
		return nil
	}
	return &sel
}

func (f *Form) submitCreate(ctx context.Context, in products.ProductInput) error {
	// images are keyed by a throwaway id since the product has none yet
	uploaded := f.uploadPending(ctx, uuid.NewString())
	in.ImageURLs = uploaded

	p := f.deps.Backend.CreateProduct(ctx, in)
	if p == nil {
		f.discardUploads(ctx, uploaded)
		return f.fail(locale.ProductCreateFailed, ErrSaveFailed)
	}

	p.Variables = f.createVariables(ctx, p.ID)
	f.finish(p)
	return nil
}

func (f *Form) submitEdit(ctx context.Context, in products.ProductInput) error {
	uploaded := f.uploadPending(ctx, f.productID)
	in.ImageURLs = append(append([]string{}, f.existing...), uploaded...)

	p := f.deps.Backend.UpdateProduct(ctx, f.productID, in)
	if p == nil {
		f.discardUploads(ctx, uploaded)
		return f.fail(locale.ProductUpdateFailed, ErrSaveFailed)
	}

	f.discardUploads(ctx, f.removed)
	f.removed = nil
	p.Variables = f.Variables()
	f.finish(p)
	return nil
}

// uploadPending uploads every staged file concurrently and returns the URLs
// that succeeded, in selection order.
func (f *Form) uploadPending(ctx context.Context, key string) []string {
	results := make([]string, len(f.pending))

	var g errgroup.Group
	g.SetLimit(maxParallelWrites)
	for i, p := range f.pending {
		g.Go(func() error {
			results[i] = f.deps.Images.UploadProductImage(ctx, p.File, key)
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, 0, len(results))
	for i, u := range results {
		if u == "" {
			f.deps.Logger.Warnw("image dropped from submit", "file", f.pending[i].File.Name(), "product_key", key)
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

// createVariables writes the locally staged rows against the new product.
// Failed rows are logged and left out.
func (f *Form) createVariables(ctx context.Context, productID string) []*products.Variable {
	created := make([]*products.Variable, len(f.variables))

	var g errgroup.Group
	g.SetLimit(maxParallelWrites)
	for i, v := range f.variables {
		g.Go(func() error {
			created[i] = f.deps.Backend.CreateVariable(ctx, products.VariableInput{
				ProductID: productID,
				Name:      v.Name,
				Value:     v.Value,
			})
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*products.Variable, 0, len(created))
	for i, v := range created {
		if v == nil {
			f.deps.Logger.Warnw("product attribute not saved", "product_id", productID, "name", f.variables[i].Name)
			continue
		}
		out = append(out, v)
	}
	return out
}

// discardUploads deletes stored objects the product no longer references.
func (f *Form) discardUploads(ctx context.Context, urls []string) {
	for _, u := range urls {
		f.deps.Images.RemoveProductImage(ctx, u)
	}
}

func (f *Form) finish(p *products.Product) {
	f.revokePreviews()
	f.result = p
	f.state = State{Phase: PhaseDone}
}

// Delete removes the product being edited, then its stored images.
func (f *Form) Delete(ctx context.Context) error {
	if f.mode != ModeEdit {
		return ErrNotEditing
	}
	if !f.editable() {
		return ErrNotReady
	}
	if !f.deps.Backend.DeleteProduct(ctx, f.productID) {
		f.state.Message = f.deps.Locale.T(locale.ProductDeleteFailed)
		return ErrSaveFailed
	}

	stored := append(append([]string{}, f.existing...), f.removed...)
	f.discardUploads(ctx, stored)
	f.revokePreviews()
	f.state = State{Phase: PhaseDone}
	return nil
}

// DeletePrompt is the confirmation shown before Delete.
func (f *Form) DeletePrompt() locale.Prompt {
	return locale.Prompt{
		Title:   f.deps.Locale.T(locale.ProductDeleteTitle),
		Message: f.deps.Locale.T(locale.ProductDeleteAsk, map[string]any{"Name": f.name}),
	}
}
