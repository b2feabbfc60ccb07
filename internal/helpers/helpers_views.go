package helpers

import (
	"storefront/internal/catalog"
	"storefront/internal/domain/products"
	"storefront/internal/domain/settings"
	"storefront/internal/locale"
	"storefront/internal/markup"
)

// ProductDetail is the storefront product page.
type ProductDetail struct {
	*products.Product
	DescriptionHTML string  `json:"description_html"`
	DescriptionText string  `json:"description_text"`
	ContactPhone    *string `json:"contact_phone"`
}

func ToProductDetail(p *products.Product, s *settings.Settings) ProductDetail {
	d := ProductDetail{Product: p}
	if p.Description != nil {
		d.DescriptionHTML = markup.Sanitize(*p.Description)
		d.DescriptionText = markup.PlainText(*p.Description)
	}
	if s != nil {
		d.ContactPhone = s.ContactPhone
	}
	return d
}

// Listing is the storefront product grid with its filter summary.
type Listing struct {
	Products []*products.Product `json:"products"`
	Filter   catalog.Filter      `json:"filter"`
	Tags     []catalog.Tag       `json:"tags"`
	Showing  int                 `json:"showing"`
	Total    int                 `json:"total"`
	Summary  string              `json:"summary"`
}

func ToListing(all []*products.Product, f catalog.Filter, categories []*products.Category, brands []*products.Brand, tr locale.Translator) Listing {
	shown := catalog.Apply(all, f)
	return Listing{
		Products: shown,
		Filter:   f,
		Tags:     catalog.ActiveTags(f, categories, brands),
		Showing:  len(shown),
		Total:    len(all),
		Summary:  tr.T(locale.ShowingCount, map[string]any{"Count": len(shown), "Total": len(all)}),
	}
}
