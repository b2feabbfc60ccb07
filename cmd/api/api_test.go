package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"
	"storefront/internal/media"
	"storefront/internal/productform"
	"storefront/internal/ratelimiter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

// fakeCatalog implements the calls the tests reach; anything else panics.
type fakeCatalog struct {
	catalogService

	mu         sync.Mutex
	products   []*products.Product
	categories []*products.Category
	brands     []*products.Brand
	settings   *settings.Settings
	calls      []string
}

func newFakeCatalog() *fakeCatalog {
	cat := "c-1"
	return &fakeCatalog{
		products: []*products.Product{
			{ID: "p-1", Name: "Desk lamp", Price: 120, CategoryID: &cat, ImageURLs: []string{}},
			{ID: "p-2", Name: "Floor lamp", Price: 450, ImageURLs: []string{}},
			{ID: "p-3", Name: "Chair", Price: 80, CategoryID: &cat, ImageURLs: []string{}},
		},
		categories: []*products.Category{{ID: "c-1", Name: "Lighting"}, {ID: "c-2", Name: "Seating"}},
		brands:     []*products.Brand{{ID: "b-1", Name: "Acme"}},
	}
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeCatalog) GetProducts(context.Context) []*products.Product { return f.products }

func (f *fakeCatalog) GetCategories(context.Context) []*products.Category { return f.categories }

func (f *fakeCatalog) GetBrands(context.Context) []*products.Brand { return f.brands }

func (f *fakeCatalog) GetSettings(context.Context) *settings.Settings { return f.settings }

func (f *fakeCatalog) CountAll(context.Context) products.Counts {
	return products.Counts{Products: len(f.products), Categories: len(f.categories), Brands: len(f.brands)}
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id string) *products.Product {
	for _, p := range f.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, in products.ProductInput) *products.Product {
	f.record("create-product:" + in.Name)
	return &products.Product{ID: "p-new", Name: in.Name, Price: in.Price, ImageURLs: in.ImageURLs}
}

func (f *fakeCatalog) CreateVariable(_ context.Context, in products.VariableInput) *products.Variable {
	f.record("create-variable:" + in.ProductID + ":" + in.Name)
	return &products.Variable{ID: "v-" + in.Name, ProductID: in.ProductID, Name: in.Name, Value: in.Value}
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, id string) bool {
	f.record("delete-category:" + id)
	return true
}

func (f *fakeCatalog) UpdateSettings(_ context.Context, upd settings.Update) *settings.Settings {
	f.record("update-settings")
	f.settings = &settings.Settings{ID: "s-1", ContactPhone: upd.ContactPhone}
	return f.settings
}

// fakeAuth accepts the access token "valid" and the password "s3cret".
type fakeAuth struct{}

func (fakeAuth) GetSession(_ context.Context, t auth.Tokens) (*auth.Session, bool, error) {
	if t.Access == "flaky" {
		return nil, false, errors.New("redis: connection refused")
	}
	if t.Access == "valid" {
		return &auth.Session{AdminID: "admin-1", Email: "owner@example.com", Tokens: t}, false, nil
	}
	return nil, false, auth.ErrNoSession
}

func (fakeAuth) SignInWithPassword(_ context.Context, email, password string) (*auth.Session, error) {
	if password != "s3cret" {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Session{AdminID: "admin-1", Email: email, Tokens: auth.Tokens{Access: "valid", Refresh: "refresh"}}, nil
}

func (fakeAuth) SignOut(context.Context, *auth.Session) error { return nil }

type fakeImages struct{}

func (fakeImages) Check(media.File) error { return nil }

func (fakeImages) UploadProductImage(_ context.Context, f media.File, id string) string {
	return "https://img.test/" + id + "/" + f.Name()
}

func (fakeImages) RemoveProductImage(context.Context, string) bool { return true }

func newTestApplication(cat *fakeCatalog) *application {
	return &application{
		config: config{
			Env: "test",
			Auth: authConfig{
				Basic: basicConfig{User: "ops", Pass: "pass"},
				Token: auth.Config{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
			},
			RateLimiter: ratelimiter.Config{Enabled: true},
		},
		logger:      zap.NewNop().Sugar(),
		catalog:     cat,
		images:      fakeImages{},
		previews:    productform.NewPreviews(),
		auth:        fakeAuth{},
		rateLimiter: ratelimiter.NewFixedWindowLimiter(2, time.Minute),
	}
}

func serve(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	return rr
}

func signedIn(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "valid"})
	return req
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard/products", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/v1/admin/login?redirectTo=%2Fv1%2Fadmin%2Fdashboard%2Fproducts", rr.Header().Get("Location"))

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestGuard_StaleCookiesAreCleared(t *testing.T) {
	app := newTestApplication(newFakeCatalog())
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "expired"})

	rr := serve(app, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, strings.Join(rr.Header().Values("Set-Cookie"), "\n"), "access_token=; Path=/; Max-Age=0")
}

func TestGuard_BackendFailureKeepsCookies(t *testing.T) {
	app := newTestApplication(newFakeCatalog())
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "flaky"})

	rr := serve(app, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Empty(t, rr.Header().Values("Set-Cookie"))
}

func TestDashboard_SignedIn(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, signedIn(httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil)))
	require.Equal(t, http.StatusOK, rr.Code)

	var counts products.Counts
	decodeData(t, rr, &counts)
	assert.Equal(t, products.Counts{Products: 3, Categories: 2, Brands: 1}, counts)
}

func TestAdminRoot_RedirectsToDashboard(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/admin", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, dashboardPath, rr.Header().Get("Location"))
}

func TestLoginPage_RedirectsAwayWhenSignedIn(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, signedIn(httptest.NewRequest(http.MethodGet, "/v1/admin/login?redirectTo=/v1/admin/dashboard/settings", nil)))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/v1/admin/dashboard/settings", rr.Header().Get("Location"))

	rr = serve(app, signedIn(httptest.NewRequest(http.MethodGet, "/v1/admin/login?redirectTo=https://evil.test", nil)))
	assert.Equal(t, dashboardPath, rr.Header().Get("Location"))

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/admin/login", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogin_SetsCookiesAndIsRateLimited(t *testing.T) {
	app := newTestApplication(newFakeCatalog())
	login := func(password string) *httptest.ResponseRecorder {
		body := `{"email":"owner@example.com","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/login?redirectTo=/v1/admin/dashboard/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(app, req)
	}

	rr := login("wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = login("s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := strings.Join(rr.Header().Values("Set-Cookie"), "\n")
	assert.Contains(t, cookies, "access_token=valid")
	assert.Contains(t, cookies, "refresh_token=refresh")
	assert.Contains(t, cookies, "HttpOnly")

	var resp sessionResponse
	decodeData(t, rr, &resp)
	assert.Equal(t, "/v1/admin/dashboard/products", resp.Redirect)

	rr = login("s3cret")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestListProducts_FiltersAndSummarizes(t *testing.T) {
	app := newTestApplication(newFakeCatalog())
	req := httptest.NewRequest(http.MethodGet, "/v1/products?search=LAMP&category=c-1", nil)
	req.Header.Set("Accept-Language", "en")

	rr := serve(app, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var listing struct {
		Products []*products.Product `json:"products"`
		Showing  int                 `json:"showing"`
		Total    int                 `json:"total"`
		Summary  string              `json:"summary"`
		Tags     []struct {
			Label string `json:"label"`
		} `json:"tags"`
	}
	decodeData(t, rr, &listing)
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "p-1", listing.Products[0].ID)
	assert.Equal(t, 3, listing.Total)
	assert.Equal(t, "Showing 1 of 3 products", listing.Summary)
	require.Len(t, listing.Tags, 2)
	assert.Equal(t, "Lighting", listing.Tags[1].Label)
}

func TestGetProduct_NotFoundIsLocalized(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "מוצר לא נמצא")
}

func TestGetProduct_IncludesContactPhone(t *testing.T) {
	cat := newFakeCatalog()
	cat.settings = &settings.Settings{ID: "s-1", ContactPhone: strPtr("050-1234567")}
	app := newTestApplication(cat)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/p-2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"contact_phone":"050-1234567"`)
}

func TestDeleteCategory_RequiresConfirmation(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	rr := serve(app, signedIn(httptest.NewRequest(http.MethodDelete, "/v1/admin/dashboard/categories/c-1", nil)))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"warning"`)
	assert.Empty(t, cat.calls)

	rr = serve(app, signedIn(httptest.NewRequest(http.MethodDelete, "/v1/admin/dashboard/categories/c-1?confirm=true", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"delete-category:c-1"}, cat.calls)
	assert.NotContains(t, rr.Body.String(), `"c-1"`)
	assert.Contains(t, rr.Body.String(), `"c-2"`)
}

func TestDeleteBrand_PromptHasNoWarning(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, signedIn(httptest.NewRequest(http.MethodDelete, "/v1/admin/dashboard/brands/b-1", nil)))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"warning"`)
}

func TestCreateCategory_BlankNameRejected(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	req := signedIn(httptest.NewRequest(http.MethodPost, "/v1/admin/dashboard/categories", strings.NewReader(`{"name":"  "}`)))
	rr := serve(app, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, cat.calls)
}

func TestUpdateSettings_ValidatesPhone(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	req := signedIn(httptest.NewRequest(http.MethodPut, "/v1/admin/dashboard/settings", strings.NewReader(`{"contact_phone":"12"}`)))
	rr := serve(app, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, cat.calls)

	req = signedIn(httptest.NewRequest(http.MethodPut, "/v1/admin/dashboard/settings", strings.NewReader(`{"contact_phone":"050-123-4567"}`)))
	rr = serve(app, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"update-settings"}, cat.calls)
}

func TestUpdateSettings_BlankClearsAndForeignNumbersAreAccepted(t *testing.T) {
	for _, tc := range []struct {
		body string
		want *string
	}{
		{`{"contact_phone":""}`, nil},
		{`{"contact_phone":"  "}`, nil},
		{`{"contact_phone":"+1 212 555 0100"}`, strPtr("+1 212 555 0100")},
		{`{"contact_phone":"(03) 123-4567"}`, strPtr("(03) 123-4567")},
	} {
		cat := newFakeCatalog()
		app := newTestApplication(cat)

		req := signedIn(httptest.NewRequest(http.MethodPut, "/v1/admin/dashboard/settings", strings.NewReader(tc.body)))
		rr := serve(app, req)
		require.Equal(t, http.StatusOK, rr.Code, tc.body)
		require.NotNil(t, cat.settings, tc.body)
		assert.Equal(t, tc.want, cat.settings.ContactPhone, tc.body)
	}
}

func productRequest(t *testing.T, fields map[string][]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/dashboard/products", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return signedIn(req)
}

func TestCreateProduct_ValidationStopsBeforeBackend(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	rr := serve(app, productRequest(t, map[string][]string{"name": {" "}, "price": {"abc"}}, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "שם המוצר הוא שדה חובה")
	assert.Empty(t, cat.calls)
}

func TestCreateProduct_WritesProductThenAttributes(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	rr := serve(app, productRequest(t, map[string][]string{
		"name":           {"Lamp"},
		"price":          {"99.5"},
		"category_id":    {"none"},
		"variable_name":  {"color", "size"},
		"variable_value": {"red", "L"},
	}, map[string][]byte{"a.png": []byte("png")}))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var saved productSaved
	decodeData(t, rr, &saved)
	assert.Equal(t, "p-new", saved.Product.ID)
	assert.Len(t, saved.Product.ImageURLs, 1)
	assert.Equal(t, productform.RedirectPath, saved.Redirect)

	require.Len(t, cat.calls, 3)
	assert.Equal(t, "create-product:Lamp", cat.calls[0])
	assert.ElementsMatch(t, []string{"create-variable:p-new:color", "create-variable:p-new:size"}, cat.calls[1:])
}

func TestCreateProduct_RejectedSubmitReleasesPreviews(t *testing.T) {
	cat := newFakeCatalog()
	app := newTestApplication(cat)

	for range 3 {
		rr := serve(app, productRequest(t,
			map[string][]string{"name": {"Lamp"}, "price": {"abc"}},
			map[string][]byte{"a.png": []byte("png"), "b.png": []byte("png")},
		))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	}

	assert.Equal(t, 0, app.previews.Len())
	assert.Empty(t, cat.calls)
}

func TestHealth_RequiresBasicAuth(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("ops:pass")))
	rr = serve(app, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"050-1234567", "0501234567", "+972501234567", "(03) 123-4567", "+1 212 555 0100", "077 123 4567"} {
		assert.True(t, validPhone(ok), ok)
	}
	for _, bad := range []string{"", "12", "123-45", "abc", "050-123x567", "+", "1234567890123456"} {
		assert.False(t, validPhone(bad), bad)
	}
}

func TestGetMedia_ServesInMemoryImages(t *testing.T) {
	store := media.NewMemoryStore(mediaBaseURL("localhost:8080"))
	url, err := store.Put(context.Background(), &media.PutInput{
		Key:         "p-1-1.png",
		ContentType: "image/png",
		Data:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1/media/p-1-1.png", url)

	app := newTestApplication(newFakeCatalog())
	app.memoryMedia = store

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/media/p-1-1.png", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/media/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetMedia_NotRoutedWithObjectStorage(t *testing.T) {
	app := newTestApplication(newFakeCatalog())

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/media/p-1-1.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "404 page not found")
}

func TestMediaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/v1/media", mediaBaseURL("localhost:8080"))
	assert.Equal(t, "https://shop.example.com/v1/media", mediaBaseURL("https://shop.example.com/"))
}
