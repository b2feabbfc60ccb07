package listedit

import (
	"context"

	"storefront/internal/domain/products"
	"storefront/internal/locale"

	"golang.org/x/sync/errgroup"
)

// Source is the data access layer seen by the categories screen.
type Source interface {
	GetCategories(ctx context.Context) []*products.Category
	CreateCategory(ctx context.Context, name string) *products.Category
	UpdateCategory(ctx context.Context, id, name string) *products.Category
	DeleteCategory(ctx context.Context, id string) bool
	GetBrands(ctx context.Context) []*products.Brand
	CreateBrand(ctx context.Context, name string) *products.Brand
	UpdateBrand(ctx context.Context, id, name string) *products.Brand
	DeleteBrand(ctx context.Context, id string) bool
}

// Board is the categories and brands screen: two independent editors.
type Board struct {
	Categories *Editor[*products.Category]
	Brands     *Editor[*products.Brand]
}

// LoadBoard fetches both lists concurrently.
func LoadBoard(ctx context.Context, src Source, tr locale.Translator) *Board {
	var (
		cats   []*products.Category
		brands []*products.Brand
		g      errgroup.Group
	)
	g.Go(func() error {
		cats = src.GetCategories(ctx)
		return nil
	})
	g.Go(func() error {
		brands = src.GetBrands(ctx)
		return nil
	})
	_ = g.Wait()

	return &Board{
		Categories: NewEditor[*products.Category](KindCategory, cats, Funcs[*products.Category]{
			CreateFn: src.CreateCategory,
			UpdateFn: src.UpdateCategory,
			DeleteFn: src.DeleteCategory,
		}, tr),
		Brands: NewEditor[*products.Brand](KindBrand, brands, Funcs[*products.Brand]{
			CreateFn: src.CreateBrand,
			UpdateFn: src.UpdateBrand,
			DeleteFn: src.DeleteBrand,
		}, tr),
	}
}
