// Package catalog is the data access layer used by every screen of the shop.
//
// Each call maps to one backend operation. Failures are logged and absorbed:
// reads return an empty slice or nil, writes return nil or false, so callers
// branch on the sentinel instead of on errors.
package catalog

import (
	"context"
	"errors"

	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"

	"go.uber.org/zap"
)

type Client struct {
	products products.Store
	settings settings.Store
	logger   *zap.SugaredLogger
}

func New(p products.Store, s settings.Store, logger *zap.SugaredLogger) *Client {
	return &Client{products: p, settings: s, logger: logger}
}

// ------------------------------------
// Products
// ------------------------------------

// GetProducts returns every product newest first, or an empty slice on failure.
func (c *Client) GetProducts(ctx context.Context) []*products.Product {
	list, err := c.products.ListProducts(ctx)
	if err != nil {
		c.logger.Errorw("fetch products failed", "error", err)
		return []*products.Product{}
	}
	return list
}

// GetProductByID returns the product with its variables merged in. A failed
// variables lookup still returns the product, with no variables.
func (c *Client) GetProductByID(ctx context.Context, id string) *products.Product {
	p, err := c.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.logger.Infow("product not found", "id", id)
		} else {
			c.logger.Errorw("fetch product failed", "id", id, "error", err)
		}
		return nil
	}

	vars, err := c.products.ListVariablesByProduct(ctx, id)
	if err != nil {
		c.logger.Warnw("fetch product variables failed", "product_id", id, "error", err)
		vars = []*products.Variable{}
	}
	p.Variables = vars
	return p
}

func (c *Client) CreateProduct(ctx context.Context, in products.ProductInput) *products.Product {
	p, err := c.products.CreateProduct(ctx, &in)
	if err != nil {
		c.logger.Errorw("create product failed", "name", in.Name, "error", err)
		return nil
	}
	return p
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in products.ProductInput) *products.Product {
	p, err := c.products.UpdateProduct(ctx, id, &in)
	if err != nil {
		c.logger.Errorw("update product failed", "id", id, "error", err)
		return nil
	}
	return p
}

func (c *Client) DeleteProduct(ctx context.Context, id string) bool {
	if err := c.products.DeleteProduct(ctx, id); err != nil {
		c.logger.Errorw("delete product failed", "id", id, "error", err)
		return false
	}
	return true
}

// CountAll returns zero counts on failure.
func (c *Client) CountAll(ctx context.Context) products.Counts {
	counts, err := c.products.CountCatalog(ctx)
	if err != nil {
		c.logger.Errorw("count catalog failed", "error", err)
		return products.Counts{}
	}
	return *counts
}

// ------------------------------------
// Categories
// ------------------------------------

func (c *Client) GetCategories(ctx context.Context) []*products.Category {
	list, err := c.products.ListCategories(ctx)
	if err != nil {
		c.logger.Errorw("fetch categories failed", "error", err)
		return []*products.Category{}
	}
	return list
}

func (c *Client) CreateCategory(ctx context.Context, name string) *products.Category {
	cat, err := c.products.CreateCategory(ctx, name)
	if err != nil {
		c.logger.Errorw("create category failed", "name", name, "error", err)
		return nil
	}
	return cat
}

func (c *Client) UpdateCategory(ctx context.Context, id, name string) *products.Category {
	cat, err := c.products.UpdateCategory(ctx, id, name)
	if err != nil {
		c.logger.Errorw("update category failed", "id", id, "error", err)
		return nil
	}
	return cat
}

func (c *Client) DeleteCategory(ctx context.Context, id string) bool {
	if err := c.products.DeleteCategory(ctx, id); err != nil {
		c.logger.Errorw("delete category failed", "id", id, "error", err)
		return false
	}
	return true
}

// ------------------------------------
// Brands
// ------------------------------------

func (c *Client) GetBrands(ctx context.Context) []*products.Brand {
	list, err := c.products.ListBrands(ctx)
	if err != nil {
		c.logger.Errorw("fetch brands failed", "error", err)
		return []*products.Brand{}
	}
	return list
}

func (c *Client) CreateBrand(ctx context.Context, name string) *products.Brand {
	b, err := c.products.CreateBrand(ctx, name)
	if err != nil {
		c.logger.Errorw("create brand failed", "name", name, "error", err)
		return nil
	}
	return b
}

func (c *Client) UpdateBrand(ctx context.Context, id, name string) *products.Brand {
	b, err := c.products.UpdateBrand(ctx, id, name)
	if err != nil {
		c.logger.Errorw("update brand failed", "id", id, "error", err)
		return nil
	}
	return b
}

func (c *Client) DeleteBrand(ctx context.Context, id string) bool {
	if err := c.products.DeleteBrand(ctx, id); err != nil {
		c.logger.Errorw("delete brand failed", "id", id, "error", err)
		return false
	}
	return true
}

// ------------------------------------
// Variables
// ------------------------------------

func (c *Client) CreateVariable(ctx context.Context, in products.VariableInput) *products.Variable {
	v, err := c.products.CreateVariable(ctx, &in)
	if err != nil {
		c.logger.Errorw("create variable failed", "product_id", in.ProductID, "name", in.Name, "error", err)
		return nil
	}
	return v
}

func (c *Client) DeleteVariable(ctx context.Context, id string) bool {
	if err := c.products.DeleteVariable(ctx, id); err != nil {
		c.logger.Errorw("delete variable failed", "id", id, "error", err)
		return false
	}
	return true
}

// ------------------------------------
// Settings
// ------------------------------------

// GetSettings returns nil both when no settings row exists and on failure.
func (c *Client) GetSettings(ctx context.Context) *settings.Settings {
	s, err := c.settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			c.logger.Errorw("fetch settings failed", "error", err)
		}
		return nil
	}
	return s
}

// UpdateSettings updates the existing row or inserts the first one.
// The read and the write are separate calls.
func (c *Client) UpdateSettings(ctx context.Context, upd settings.Update) *settings.Settings {
	current, err := c.settings.Get(ctx)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		c.logger.Errorw("fetch settings failed", "error", err)
		return nil
	}

	var saved *settings.Settings
	if current != nil {
		saved, err = c.settings.Update(ctx, current.ID, &upd)
	} else {
		saved, err = c.settings.Create(ctx, &upd)
	}
	if err != nil {
		c.logger.Errorw("save settings failed", "error", err)
		return nil
	}
	return saved
}
