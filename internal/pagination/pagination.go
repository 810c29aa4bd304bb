// Package pagination turns page/size/sort requests into bounded, ordered
// GORM queries and reshapes result sets into a uniform paged envelope.
package pagination

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortOrder is the direction applied to the orderBy column.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

const (
	// DefaultPageSize applies when the caller sends no pageSize.
	DefaultPageSize = 10
	// MaxPageSize caps a single page window. Oversized requests are
	// clamped rather than rejected.
	MaxPageSize = 500
)

// ErrInvalidOrderBy is reported when orderBy names a column the endpoint
// does not allow sorting by.
var ErrInvalidOrderBy = errors.New("invalid orderBy column")

// ListFilter carries the four recognized list options. Field tags match
// fiber's QueryParser.
type ListFilter struct {
	Page      int       `query:"page" json:"page"`
	PageSize  int       `query:"pageSize" json:"pageSize"`
	OrderBy   string    `query:"orderBy" json:"orderBy,omitempty"`
	SortOrder SortOrder `query:"sortOrder" json:"sortOrder,omitempty"`
}

// Normalize floors page and pageSize at 1, applies the default and maximum
// page size, and defaults the sort direction to DESC.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	// An absent pageSize parses to zero, so an explicit pageSize=0 is
	// indistinguishable from the default and takes DefaultPageSize too.
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if strings.EqualFold(string(f.SortOrder), string(SortAsc)) {
		f.SortOrder = SortAsc
	} else {
		f.SortOrder = SortDesc
	}
}

// Offset converts the 1-based page number to a row offset.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Scope returns a GORM scope applying the page window and, when orderBy is
// set, the sort clause. orderable is the allow-list of sortable columns for
// the endpoint; an orderBy outside it surfaces ErrInvalidOrderBy on the
// statement instead of interpolating caller input into SQL. Without orderBy
// the store's natural order is used.
func (f ListFilter) Scope(orderable ...string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if f.OrderBy != "" {
			allowed := false
			for _, col := range orderable {
				if f.OrderBy == col {
					allowed = true
					break
				}
			}
			if !allowed {
				_ = tx.AddError(ErrInvalidOrderBy)
				return tx
			}
			tx = tx.Order(clause.OrderByColumn{
				Column: clause.Column{Name: f.OrderBy},
				Desc:   f.SortOrder == SortDesc,
			})
		}
		return tx.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// Page reports the shape of one result window against the full filtered set.
type Page struct {
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	PageSize   int   `json:"pageSize"`
	PageNumber int   `json:"pageNumber"`
}

// PagedResult is the envelope every list endpoint returns.
type PagedResult[T any] struct {
	Page Page `json:"page"`
	Data []T  `json:"data"`
}

// NewPagedResult builds the envelope from the windowed rows and the count of
// the full filtered set. count reflects the filtered set, not the table.
func NewPagedResult[T any](f ListFilter, data []T, count int64) PagedResult[T] {
	if data == nil {
		data = []T{}
	}
	return PagedResult[T]{
		Page: Page{
			TotalItems: count,
			TotalPages: int(math.Ceil(float64(count) / float64(f.PageSize))),
			PageSize:   f.PageSize,
			PageNumber: f.Page,
		},
		Data: data,
	}
}
