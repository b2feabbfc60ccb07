package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"storefront/internal/domain/products"
)

// All is the selection value that disables the category or brand criterion.
const All = "all"

// PriceRange bounds are inclusive.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is the range a price filter starts from once enabled.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000000}

// Filter is the storefront browsing criteria. Zero values are inactive.
type Filter struct {
	Search   string      `json:"search"`
	Category string      `json:"category"`
	Brand    string      `json:"brand"`
	Price    *PriceRange `json:"price,omitempty"`
}

func (f Filter) searchActive() bool   { return f.Search != "" }
func (f Filter) categoryActive() bool { return f.Category != "" && f.Category != All }
func (f Filter) brandActive() bool    { return f.Brand != "" && f.Brand != All }

// Active reports whether any criterion would exclude products.
func (f Filter) Active() bool {
	return f.searchActive() || f.categoryActive() || f.brandActive() || f.Price != nil
}

// Matches applies every active criterion to p.
func (f Filter) Matches(p *products.Product) bool {
	if f.searchActive() && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.categoryActive() && (p.CategoryID == nil || *p.CategoryID != f.Category) {
		return false
	}
	if f.brandActive() && (p.BrandID == nil || *p.BrandID != f.Brand) {
		return false
	}
	if f.Price != nil && (p.Price < f.Price.Min || p.Price > f.Price.Max) {
		return false
	}
	return true
}

// Apply returns the products matching f in their original order.
func Apply(list []*products.Product, f Filter) []*products.Product {
	out := make([]*products.Product, 0, len(list))
	for _, p := range list {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// ParseFilter reads search, category, brand, min_price and max_price.
// The price range is only used when both bounds parse.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		Brand:    strings.TrimSpace(q.Get("brand")),
	}
	minStr, maxStr := strings.TrimSpace(q.Get("min_price")), strings.TrimSpace(q.Get("max_price"))
	if minStr == "" || maxStr == "" {
		return f
	}
	lo, errMin := strconv.ParseFloat(minStr, 64)
	hi, errMax := strconv.ParseFloat(maxStr, 64)
	if errMin == nil && errMax == nil && lo <= hi {
		f.Price = &PriceRange{Min: lo, Max: hi}
	}
	return f
}

// Criterion names one removable part of a Filter.
type Criterion string

const (
	CriterionSearch   Criterion = "search"
	CriterionCategory Criterion = "category"
	CriterionBrand    Criterion = "brand"
	CriterionPrice    Criterion = "price"
)

// Tag is a displayable active criterion.
type Tag struct {
	Criterion Criterion `json:"criterion"`
	Label     string    `json:"label"`
}

// ActiveTags lists the active criteria, resolving category and brand ids to names.
func ActiveTags(f Filter, categories []*products.Category, brands []*products.Brand) []Tag {
	tags := make([]Tag, 0, 4)
	if f.searchActive() {
		tags = append(tags, Tag{Criterion: CriterionSearch, Label: f.Search})
	}
	if f.categoryActive() {
		label := f.Category
		for _, c := range categories {
			if c.ID == f.Category {
				label = c.Name
				break
			}
		}
		tags = append(tags, Tag{Criterion: CriterionCategory, Label: label})
	}
	if f.brandActive() {
		label := f.Brand
		for _, b := range brands {
			if b.ID == f.Brand {
				label = b.Name
				break
			}
		}
		tags = append(tags, Tag{Criterion: CriterionBrand, Label: label})
	}
	if f.Price != nil {
		tags = append(tags, Tag{
			Criterion: CriterionPrice,
			Label:     strconv.FormatFloat(f.Price.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(f.Price.Max, 'f', -1, 64),
		})
	}
	return tags
}

// FilterState owns the current Filter and reports every change exactly once.
type FilterState struct {
	mu       sync.Mutex
	filter   Filter
	onChange func(Filter)
}

func NewFilterState(onChange func(Filter)) *FilterState {
	return &FilterState{
		filter:   Filter{Category: All, Brand: All},
		onChange: onChange,
	}
}

func (s *FilterState) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *FilterState) SetSearch(q string) {
	s.update(func(f *Filter) { f.Search = q })
}

func (s *FilterState) SetCategory(id string) {
	s.update(func(f *Filter) { f.Category = id })
}

func (s *FilterState) SetBrand(id string) {
	s.update(func(f *Filter) { f.Brand = id })
}

func (s *FilterState) SetPriceRange(r PriceRange) {
	s.update(func(f *Filter) { f.Price = &r })
}

// Remove deactivates one criterion.
func (s *FilterState) Remove(c Criterion) {
	s.update(func(f *Filter) {
		switch c {
		case CriterionSearch:
			f.Search = ""
		case CriterionCategory:
			f.Category = All
		case CriterionBrand:
			f.Brand = All
		case CriterionPrice:
			f.Price = nil
		}
	})
}

// Reset restores the defaults with a single notification.
func (s *FilterState) Reset() {
	s.mu.Lock()
	s.filter = Filter{Category: All, Brand: All}
	f := s.filter
	s.mu.Unlock()
	s.notify(f)
}

func (s *FilterState) update(fn func(*Filter)) {
	s.mu.Lock()
	before := s.filter
	fn(&s.filter)
	after := s.filter
	s.mu.Unlock()

	if !sameFilter(before, after) {
		s.notify(after)
	}
}

func (s *FilterState) notify(f Filter) {
	if s.onChange != nil {
		s.onChange(f)
	}
}

func sameFilter(a, b Filter) bool {
	if a.Search != b.Search || a.Category != b.Category || a.Brand != b.Brand {
		return false
	}
	if a.Price == nil || b.Price == nil {
		return a.Price == nil && b.Price == nil
	}
	return *a.Price == *b.Price
}
