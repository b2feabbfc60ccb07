package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Limit: DefaultLimit, Page: 1}},
		{"explicit", "page=3&limit=10", Pagination{Limit: 10, Page: 3, Offset: 20}},
		{"limit capped", "limit=500", Pagination{Limit: MaxLimit, Page: 1}},
		{"garbage ignored", "page=-2&limit=abc", Pagination{Limit: DefaultLimit, Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			assert.Equal(t, tt.want, ParsePagination(q))
		})
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Pagination{Limit: 2, Page: 2, Offset: 2}
	assert.Equal(t, []int{3, 4}, Page(items, &p))
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = Pagination{Limit: 2, Page: 3, Offset: 4}
	assert.Equal(t, []int{5}, Page(items, &p))
	assert.False(t, p.HasNext)

	p = Pagination{Limit: 2, Page: 9, Offset: 16}
	assert.Empty(t, Page(items, &p))
}
