package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the data access abstraction for the catalog tables.
// Implemented by Repository.
type Store interface {
	// Products
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, in *ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, in *ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountCatalog(ctx context.Context) (*Counts, error)

	// Categories
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Brands
	ListBrands(ctx context.Context) ([]*Brand, error)
	CreateBrand(ctx context.Context, name string) (*Brand, error)
	UpdateBrand(ctx context.Context, id, name string) (*Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	// Variables
	ListVariablesByProduct(ctx context.Context, productID string) ([]*Variable, error)
	CreateVariable(ctx context.Context, in *VariableInput) (*Variable, error)
	DeleteVariable(ctx context.Context, id string) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

const productColumns = `
	p.id, p.name, p.price, p.image_urls, p.category_id, p.brand_id, p.description, p.created_at,
	c.id, c.name, b.id, b.name`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p                  Product
		catID, catName     *string
		brandID, brandName *string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.ImageURLs, &p.CategoryID, &p.BrandID, &p.Description, &p.CreatedAt,
		&catID, &catName, &brandID, &brandName,
	); err != nil {
		return nil, err
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	if catID != nil && catName != nil {
		p.Category = &Category{ID: *catID, Name: *catName}
	}
	if brandID != nil && brandName != nil {
		p.Brand = &Brand{ID: *brandID, Name: *brandName}
	}
	return &p, nil
}

// ------------------------------------
// Products
// ------------------------------------

// ListProducts returns every product, newest first, with category and brand joined.
func (r *Repository) ListProducts(ctx context.Context) ([]*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT` + productColumns + productFrom + `
	ORDER BY p.created_at DESC, p.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT` + productColumns + productFrom + `
	WHERE p.id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, in *ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO products (name, price, image_urls, category_id, brand_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, price, image_urls, category_id, brand_id, description, created_at;
	`
	p := &Product{}
	err := r.db.QueryRow(ctx, query,
		strings.TrimSpace(in.Name), in.Price, imageURLs(in.ImageURLs), in.CategoryID, in.BrandID, in.Description,
	).Scan(&p.ID, &p.Name, &p.Price, &p.ImageURLs, &p.CategoryID, &p.BrandID, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", mapWriteError(err))
	}
	return p, nil
}

// UpdateProduct replaces every writable column. Nil references clear the link.
func (r *Repository) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE products
		SET name = $2, price = $3, image_urls = $4, category_id = $5, brand_id = $6, description = $7
		WHERE id = $1
		RETURNING id, name, price, image_urls, category_id, brand_id, description, created_at;
	`
	p := &Product{}
	err := r.db.QueryRow(ctx, query,
		id, strings.TrimSpace(in.Name), in.Price, imageURLs(in.ImageURLs), in.CategoryID, in.BrandID, in.Description,
	).Scan(&p.ID, &p.Name, &p.Price, &p.ImageURLs, &p.CategoryID, &p.BrandID, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", mapWriteError(err))
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) CountCatalog(ctx context.Context) (*Counts, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM brands)
	`
	c := &Counts{}
	if err := r.db.QueryRow(ctx, query).Scan(&c.Products, &c.Categories, &c.Brands); err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	return c, nil
}

// ------------------------------------
// Categories
// ------------------------------------

func (r *Repository) ListCategories(ctx context.Context) ([]*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	c := &Category{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	c := &Category{}
	err := r.db.QueryRow(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name, created_at`, id, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes the category. Products keep existing with a NULL category.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ------------------------------------
// Brands
// ------------------------------------

func (r *Repository) ListBrands(ctx context.Context) ([]*Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM brands ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	list := make([]*Brand, 0)
	for rows.Next() {
		b := &Brand{}
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) CreateBrand(ctx context.Context, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	b := &Brand{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO brands (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return b, nil
}

func (r *Repository) UpdateBrand(ctx context.Context, id, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	b := &Brand{}
	err := r.db.QueryRow(ctx,
		`UPDATE brands SET name = $2 WHERE id = $1 RETURNING id, name, created_at`, id, name,
	).Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return b, nil
}

func (r *Repository) DeleteBrand(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// ------------------------------------
// Variables
// ------------------------------------

func (r *Repository) ListVariablesByProduct(ctx context.Context, productID string) ([]*Variable, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, name, value, created_at
		FROM variables
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()

	list := make([]*Variable, 0)
	for rows.Next() {
		v := &Variable{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variable: %w", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) CreateVariable(ctx context.Context, in *VariableInput) (*Variable, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Value) == "" {
		return nil, ErrNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	v := &Variable{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO variables (product_id, name, value)
		VALUES ($1, $2, $3)
		RETURNING id, product_id, name, value, created_at`,
		in.ProductID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Value),
	).Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create variable: %w", mapWriteError(err))
	}
	return v, nil
}

func (r *Repository) DeleteVariable(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM variables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVariableNotFound
	}
	return nil
}

// ------------------------------------
// helpers
// ------------------------------------

// imageURLs keeps an empty list from being written as NULL.
func imageURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrInvalidRef, pgErr.ConstraintName)
		}
	}
	return err
}
