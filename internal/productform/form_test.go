package productform

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/domain/products"
	"storefront/internal/locale"
	"storefront/internal/media"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeBackend struct {
	mu sync.Mutex

	events     []string
	categories []*products.Category
	brands     []*products.Brand
	product    *products.Product

	created    []products.ProductInput
	updated    []products.ProductInput
	variables  []products.VariableInput
	deletedVar []string
	deleted    []string

	failCreate    bool
	failUpdate    bool
	failVariables map[string]bool
	failDelete    bool
}

func (b *fakeBackend) record(ev string) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
}

func (b *fakeBackend) GetCategories(context.Context) []*products.Category { return b.categories }

func (b *fakeBackend) GetBrands(context.Context) []*products.Brand { return b.brands }

func (b *fakeBackend) GetProductByID(_ context.Context, id string) *products.Product {
	if b.product == nil || b.product.ID != id {
		return nil
	}
	cp := *b.product
	return &cp
}

func (b *fakeBackend) CreateProduct(_ context.Context, in products.ProductInput) *products.Product {
	b.record("create-product")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, in)
	if b.failCreate {
		return nil
	}
	return &products.Product{ID: "new-product-id", Name: in.Name, Price: in.Price, ImageURLs: in.ImageURLs}
}

func (b *fakeBackend) UpdateProduct(_ context.Context, id string, in products.ProductInput) *products.Product {
	b.record("update-product")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updated = append(b.updated, in)
	if b.failUpdate {
		return nil
	}
	return &products.Product{ID: id, Name: in.Name, Price: in.Price, ImageURLs: in.ImageURLs, CategoryID: in.CategoryID}
}

func (b *fakeBackend) DeleteProduct(_ context.Context, id string) bool {
	b.record("delete-product")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	return !b.failDelete
}

func (b *fakeBackend) CreateVariable(_ context.Context, in products.VariableInput) *products.Variable {
	b.record("create-variable")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.variables = append(b.variables, in)
	if b.failVariables[in.Name] {
		return nil
	}
	return &products.Variable{ID: uuid.NewString(), ProductID: in.ProductID, Name: in.Name, Value: in.Value}
}

func (b *fakeBackend) DeleteVariable(_ context.Context, id string) bool {
	b.record("delete-variable")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletedVar = append(b.deletedVar, id)
	return true
}

type fakeImages struct {
	mu       sync.Mutex
	backend  *fakeBackend
	keys     []string
	removed  []string
	failName string
	checkErr error
}

func (i *fakeImages) Check(media.File) error { return i.checkErr }

func (i *fakeImages) UploadProductImage(_ context.Context, f media.File, productID string) string {
	i.backend.record("upload")
	i.mu.Lock()
	defer i.mu.Unlock()
	i.keys = append(i.keys, productID)
	if f.Name() == i.failName {
		return ""
	}
	return fmt.Sprintf("https://cdn.test/%s/%s", productID, f.Name())
}

func (i *fakeImages) RemoveProductImage(_ context.Context, url string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removed = append(i.removed, url)
	return true
}

func pngFile(name string) media.File {
	return media.NewBytesFile(name, "image/png", []byte("\x89PNG\r\n\x1a\n"))
}

func files(names ...string) []media.File {
	out := make([]media.File, 0, len(names))
	for _, n := range names {
		out = append(out, pngFile(n))
	}
	return out
}

type harness struct {
	backend  *fakeBackend
	images   *fakeImages
	previews *Previews
}

func newHarness() *harness {
	b := &fakeBackend{
		categories: []*products.Category{{ID: "c-1", Name: "Home"}},
		brands:     []*products.Brand{{ID: "b-1", Name: "Acme"}},
	}
	return &harness{backend: b, images: &fakeImages{backend: b}, previews: NewPreviews()}
}

func (h *harness) form(t *testing.T, id string) *Form {
	t.Helper()
	f := New(Deps{
		Backend:  h.backend,
		Images:   h.images,
		Previews: h.previews,
		Locale:   locale.Default(),
		Logger:   zap.NewNop().Sugar(),
	}, id)
	return f
}

func (h *harness) loaded(t *testing.T, id string) *Form {
	t.Helper()
	f := h.form(t, id)
	require.NoError(t, f.Load(context.Background()))
	return f
}

// ---------------------------------------------------------------------------
// load
// ---------------------------------------------------------------------------

func TestLoad_CreateModeFetchesOptions(t *testing.T) {
	h := newHarness()
	f := h.form(t, "new")
	assert.Equal(t, PhaseLoading, f.State().Phase)

	require.NoError(t, f.Load(context.Background()))
	v := f.View()
	assert.Equal(t, "create", v.Mode)
	assert.Equal(t, PhaseReady, v.State.Phase)
	assert.Len(t, v.Categories, 1)
	assert.Len(t, v.Brands, 1)
	assert.Equal(t, NoSelection, v.CategoryID)
	assert.Equal(t, NoSelection, v.BrandID)
}

func TestLoad_EditModeMissingProduct(t *testing.T) {
	h := newHarness()
	f := h.form(t, "missing")

	err := f.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, PhaseNotFound, f.State().Phase)
	assert.Equal(t, "מוצר לא נמצא", f.State().Message)
	assert.ErrorIs(t, f.Submit(context.Background()), ErrNotReady)
}

func TestLoad_EditModePopulatesFields(t *testing.T) {
	h := newHarness()
	cat := "c-1"
	desc := "<b>oak</b>"
	h.backend.product = &products.Product{
		ID: "p-1", Name: "Chair", Price: 120.5, CategoryID: &cat, Description: &desc,
		ImageURLs: []string{"u1", "u2"},
		Variables: []*products.Variable{{ID: "v-1", ProductID: "p-1", Name: "color", Value: "red"}},
	}

	f := h.loaded(t, "p-1")
	v := f.View()
	assert.Equal(t, "edit", v.Mode)
	assert.Equal(t, "Chair", v.Name)
	assert.Equal(t, "120.5", v.Price)
	assert.Equal(t, "c-1", v.CategoryID)
	assert.Equal(t, NoSelection, v.BrandID)
	assert.Equal(t, []string{"u1", "u2"}, v.ExistingImages)
	assert.Len(t, v.Variables, 1)
}

// ---------------------------------------------------------------------------
// validation
// ---------------------------------------------------------------------------

func TestSubmit_EmptyNameMakesNoBackendCall(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	require.NoError(t, f.SelectImages(files("a.png")))
	f.SetName("   ")
	f.SetPrice("10")

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, PhaseFailed, f.State().Phase)
	assert.Equal(t, "שם המוצר הוא שדה חובה", f.State().Message)
	assert.Empty(t, h.backend.events, "no upload and no write")
}

func TestSubmit_NonNumericPriceMakesNoBackendCall(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Widget")

	for _, price := range []string{"abc", "", "-1", "NaN"} {
		f.SetPrice(price)
		err := f.Submit(context.Background())
		assert.ErrorIs(t, err, ErrInvalid, price)
		assert.Equal(t, "יש להזין מחיר תקין", f.State().Message)
	}
	assert.Empty(t, h.backend.events)
}

func TestSubmit_NameCheckedBeforePrice(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetPrice("abc")

	_ = f.Submit(context.Background())
	assert.Equal(t, "שם המוצר הוא שדה חובה", f.State().Message)
}

// ---------------------------------------------------------------------------
// create
// ---------------------------------------------------------------------------

func TestSubmit_CreatePayload(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Widget")
	f.SetPrice("19.99")
	f.SetCategory(NoSelection)

	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, h.backend.created, 1)
	assert.Equal(t, products.ProductInput{
		Name:      "Widget",
		Price:     19.99,
		ImageURLs: []string{},
	}, h.backend.created[0])
	assert.Equal(t, PhaseDone, f.State().Phase)
	assert.Equal(t, RedirectPath, f.Redirect())
	assert.Equal(t, "new-product-id", f.Result().ID)
}

func TestSubmit_CreateWritesStagedVariablesWithNewID(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Shirt")
	f.SetPrice("50")

	ctx := context.Background()
	f.SetStaging("color", "red")
	require.NoError(t, f.AddVariable(ctx))
	f.SetStaging("size", "M")
	require.NoError(t, f.AddVariable(ctx))
	assert.Empty(t, h.backend.variables, "create mode keeps rows local")

	require.NoError(t, f.Submit(ctx))

	require.Len(t, h.backend.variables, 2)
	for _, v := range h.backend.variables {
		assert.Equal(t, "new-product-id", v.ProductID)
	}
	assert.Len(t, f.Result().Variables, 2)
}

func TestSubmit_VariableFailureIsNotSurfaced(t *testing.T) {
	h := newHarness()
	h.backend.failVariables = map[string]bool{"size": true}
	f := h.loaded(t, "")
	f.SetName("Shirt")
	f.SetPrice("50")

	ctx := context.Background()
	f.SetStaging("color", "red")
	require.NoError(t, f.AddVariable(ctx))
	f.SetStaging("size", "M")
	require.NoError(t, f.AddVariable(ctx))

	require.NoError(t, f.Submit(ctx))
	assert.Equal(t, PhaseDone, f.State().Phase)
	require.Len(t, f.Result().Variables, 1)
	assert.Equal(t, "color", f.Result().Variables[0].Name)
}

func TestSubmit_UploadsPrecedeProductWriteAndShareTempKey(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Lamp")
	f.SetPrice("45")
	require.NoError(t, f.SelectImages(files("a.png", "b.png", "c.png")))

	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, []string{"upload", "upload", "upload", "create-product"}, h.backend.events)
	require.Len(t, h.images.keys, 3)
	for _, k := range h.images.keys {
		assert.Equal(t, h.images.keys[0], k)
		_, err := uuid.Parse(k)
		assert.NoError(t, err)
	}
	key := h.images.keys[0]
	assert.Equal(t, []string{
		"https://cdn.test/" + key + "/a.png",
		"https://cdn.test/" + key + "/b.png",
		"https://cdn.test/" + key + "/c.png",
	}, h.backend.created[0].ImageURLs, "selection order is kept")
}

func TestSubmit_FailedUploadIsDropped(t *testing.T) {
	h := newHarness()
	h.images.failName = "b.png"
	f := h.loaded(t, "")
	f.SetName("Lamp")
	f.SetPrice("45")
	require.NoError(t, f.SelectImages(files("a.png", "b.png")))

	require.NoError(t, f.Submit(context.Background()))
	assert.Len(t, h.backend.created[0].ImageURLs, 1)
}

func TestSubmit_CreateFailureRemovesUploadsAndStaysEditable(t *testing.T) {
	h := newHarness()
	h.backend.failCreate = true
	f := h.loaded(t, "")
	f.SetName("Lamp")
	f.SetPrice("45")
	require.NoError(t, f.SelectImages(files("a.png")))

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Equal(t, PhaseFailed, f.State().Phase)
	assert.Equal(t, "אירעה שגיאה ביצירת המוצר", f.State().Message)
	assert.Len(t, h.images.removed, 1)
	assert.Empty(t, h.backend.variables)

	// resubmitting is allowed once the backend recovers
	h.backend.failCreate = false
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, PhaseDone, f.State().Phase)
}

// ---------------------------------------------------------------------------
// images
// ---------------------------------------------------------------------------

func TestSelectImages_OverCapRejectsWholeSelection(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	require.NoError(t, f.SelectImages(files("1.png", "2.png", "3.png")))

	err := f.SelectImages(files("4.png", "5.png", "6.png"))
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Len(t, f.PendingImages(), 3)
	assert.Equal(t, "ניתן להעלות עד 5 תמונות", f.State().Message)

	require.NoError(t, f.SelectImages(files("4.png", "5.png")))
	assert.Len(t, f.PendingImages(), 5)
}

func TestSelectImages_EditModeCountsStoredImages(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 1, ImageURLs: []string{"u1", "u2", "u3", "u4"}}
	f := h.loaded(t, "p-1")

	assert.ErrorIs(t, f.SelectImages(files("a.png", "b.png")), ErrTooManyImages)
	require.NoError(t, f.RemoveExistingImage(0))
	require.NoError(t, f.SelectImages(files("a.png", "b.png")))
}

func TestSelectImages_FailedCheckRejectsSelection(t *testing.T) {
	h := newHarness()
	h.images.checkErr = media.ErrInvalidType
	f := h.loaded(t, "")

	err := f.SelectImages(files("a.gif"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.ErrorIs(t, err, media.ErrInvalidType)
	assert.Empty(t, f.PendingImages())
}

func TestRemovePendingImage_RevokesOnlyThatPreview(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	require.NoError(t, f.SelectImages(files("a.png", "b.png", "c.png")))
	pending := f.PendingImages()

	require.NoError(t, f.RemovePendingImage(1))

	assert.False(t, h.previews.Valid(pending[1].PreviewURL))
	assert.True(t, h.previews.Valid(pending[0].PreviewURL))
	assert.True(t, h.previews.Valid(pending[2].PreviewURL))
	assert.Len(t, f.PendingImages(), 2)
	assert.ErrorIs(t, f.RemovePendingImage(5), ErrOutOfRange)
}

func TestSubmit_SuccessRevokesAllPreviews(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Lamp")
	f.SetPrice("1")
	require.NoError(t, f.SelectImages(files("a.png", "b.png")))
	assert.Equal(t, 2, h.previews.Len())

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 0, h.previews.Len())
}

func TestClose_ReleasesPreviewsAfterRejectedSubmit(t *testing.T) {
	h := newHarness()
	f := h.loaded(t, "")
	f.SetName("Lamp")
	f.SetPrice("abc")
	require.NoError(t, f.SelectImages(files("a.png", "b.png")))

	require.ErrorIs(t, f.Submit(context.Background()), ErrInvalid)
	assert.Equal(t, 2, h.previews.Len())

	f.Close()
	assert.Equal(t, 0, h.previews.Len())
	assert.Empty(t, f.PendingImages())
}

// ---------------------------------------------------------------------------
// edit
// ---------------------------------------------------------------------------

func TestSubmit_EditMergesImagesAndClearsCategory(t *testing.T) {
	h := newHarness()
	cat := "c-1"
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10, CategoryID: &cat, ImageURLs: []string{"u1", "u2", "u3"}}
	f := h.loaded(t, "p-1")

	f.RetainImages([]string{"u1", "u3"})
	require.NoError(t, f.SelectImages(files("new.png")))
	f.SetCategory(NoSelection)

	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, h.backend.updated, 1)
	in := h.backend.updated[0]
	assert.Equal(t, []string{"u1", "u3", "https://cdn.test/p-1/new.png"}, in.ImageURLs)
	assert.Nil(t, in.CategoryID)
	assert.Equal(t, []string{"p-1"}, h.images.keys, "edit uploads are keyed by the product id")
	assert.Equal(t, []string{"u2"}, h.images.removed, "dropped image deleted after the update")
}

func TestSubmit_EditFailureKeepsStoredImages(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10, ImageURLs: []string{"u1", "u2"}}
	h.backend.failUpdate = true
	f := h.loaded(t, "p-1")
	require.NoError(t, f.RemoveExistingImage(1))
	require.NoError(t, f.SelectImages(files("new.png")))

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSaveFailed)
	assert.Equal(t, "אירעה שגיאה בעדכון המוצר", f.State().Message)
	assert.Equal(t, []string{"https://cdn.test/p-1/new.png"}, h.images.removed, "only the fresh upload is discarded")
}

func TestAddVariable_EditModeWritesImmediately(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10}
	f := h.loaded(t, "p-1")
	ctx := context.Background()

	f.SetStaging(" ", "red")
	require.NoError(t, f.AddVariable(ctx))
	assert.Empty(t, h.backend.variables, "blank name is ignored")

	f.SetStaging("color", "red")
	require.NoError(t, f.AddVariable(ctx))
	require.Len(t, h.backend.variables, 1)
	assert.Equal(t, products.VariableInput{ProductID: "p-1", Name: "color", Value: "red"}, h.backend.variables[0])
	assert.Len(t, f.Variables(), 1)
	assert.Equal(t, "", f.View().State.Message)
}

func TestAddVariable_EditModeFailure(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10}
	h.backend.failVariables = map[string]bool{"color": true}
	f := h.loaded(t, "p-1")

	f.SetStaging("color", "red")
	assert.ErrorIs(t, f.AddVariable(context.Background()), ErrSaveFailed)
	assert.Empty(t, f.Variables())
	assert.Equal(t, "אירעה שגיאה בהוספת המשתנה", f.State().Message)
}

func TestRemoveVariable(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10,
		Variables: []*products.Variable{{ID: "v-1", Name: "color", Value: "red"}}}
	f := h.loaded(t, "p-1")
	ctx := context.Background()

	assert.ErrorIs(t, f.RemoveVariable(ctx, "v-x"), ErrUnknownRow)
	require.NoError(t, f.RemoveVariable(ctx, "v-1"))
	assert.Equal(t, []string{"v-1"}, h.backend.deletedVar)
	assert.Empty(t, f.Variables())
}

func TestDelete(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10, ImageURLs: []string{"u1"}}
	f := h.loaded(t, "p-1")

	assert.Contains(t, f.DeletePrompt().Message, "Chair")
	require.NoError(t, f.Delete(context.Background()))
	assert.Equal(t, []string{"p-1"}, h.backend.deleted)
	assert.Equal(t, []string{"u1"}, h.images.removed)
	assert.Equal(t, PhaseDone, f.State().Phase)

	create := h.loaded(t, "")
	assert.ErrorIs(t, create.Delete(context.Background()), ErrNotEditing)
}

func TestDelete_Failure(t *testing.T) {
	h := newHarness()
	h.backend.product = &products.Product{ID: "p-1", Name: "Chair", Price: 10}
	h.backend.failDelete = true
	f := h.loaded(t, "p-1")

	assert.ErrorIs(t, f.Delete(context.Background()), ErrSaveFailed)
	assert.Equal(t, "אירעה שגיאה במחיקת המוצר", f.State().Message)
}
