package products

import (
	"errors"
	"math"
	"strings"
	"time"
)

// MaxImages is the number of images a single product may carry.
const MaxImages = 5

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrVariableNotFound = errors.New("variable not found")

	ErrNameRequired  = errors.New("name is required")
	ErrInvalidPrice  = errors.New("price must be a non-negative number")
	ErrTooManyImages = errors.New("a product can have at most 5 images")
	ErrInvalidRef    = errors.New("referenced category or brand does not exist")

	QueryTimeoutDuration = time.Second * 5
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Variable is a free-form name/value attribute such as "color: red".
type Variable struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	ImageURLs   []string    `json:"image_urls"`
	CategoryID  *string     `json:"category_id"`
	BrandID     *string     `json:"brand_id"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	Category    *Category   `json:"category,omitempty"`
	Brand       *Brand      `json:"brand,omitempty"`
	Variables   []*Variable `json:"variables,omitempty"`
}

// PrimaryImage returns the first image url or "" when the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// ProductInput is the writable part of a product. Nil references are stored as NULL.
type ProductInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	ImageURLs   []string `json:"image_urls"`
	CategoryID  *string  `json:"category_id"`
	BrandID     *string  `json:"brand_id"`
	Description *string  `json:"description"`
}

// Validate checks the invariants the schema also enforces.
func (in *ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return ErrInvalidPrice
	}
	if len(in.ImageURLs) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}

type VariableInput struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// Counts summarizes the catalog for the admin dashboard.
type Counts struct {
	Products   int `json:"products"`
	Categories int `json:"categories"`
	Brands     int `json:"brands"`
}

// Record accessors shared by the inline list editors.

func (c *Category) RecordID() string   { return c.ID }
func (c *Category) RecordName() string { return c.Name }
func (b *Brand) RecordID() string      { return b.ID }
func (b *Brand) RecordName() string    { return b.Name }
