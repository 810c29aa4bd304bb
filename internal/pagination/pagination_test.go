package pagination

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64"`
	Rank int
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListFilter
		want ListFilter
	}{
		{
			name: "zero values get defaults",
			in:   ListFilter{},
			want: ListFilter{Page: 1, PageSize: DefaultPageSize, SortOrder: SortDesc},
		},
		{
			name: "negative page floors at 1",
			in:   ListFilter{Page: -3, PageSize: 20},
			want: ListFilter{Page: 1, PageSize: 20, SortOrder: SortDesc},
		},
		{
			name: "oversized pageSize is clamped",
			in:   ListFilter{Page: 2, PageSize: MaxPageSize + 1},
			want: ListFilter{Page: 2, PageSize: MaxPageSize, SortOrder: SortDesc},
		},
		{
			name: "explicit ASC survives",
			in:   ListFilter{Page: 1, PageSize: 5, SortOrder: SortAsc},
			want: ListFilter{Page: 1, PageSize: 5, SortOrder: SortAsc},
		},
		{
			name: "lowercase asc is canonicalized",
			in:   ListFilter{Page: 1, PageSize: 5, SortOrder: "asc"},
			want: ListFilter{Page: 1, PageSize: 5, SortOrder: SortAsc},
		},
		{
			name: "garbage sort order becomes DESC",
			in:   ListFilter{Page: 1, PageSize: 5, SortOrder: "sideways"},
			want: ListFilter{Page: 1, PageSize: 5, SortOrder: SortDesc},
		},
		{
			name: "explicit zero pageSize takes the default",
			in:   ListFilter{Page: 1, PageSize: 0},
			want: ListFilter{Page: 1, PageSize: DefaultPageSize, SortOrder: SortDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", tt.in, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	f := ListFilter{Page: 3, PageSize: 10}
	if got := f.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
	f = ListFilter{Page: 1, PageSize: 10}
	if got := f.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}

func TestScopeWindowing(t *testing.T) {
	db := setupTestDB(t)
	for i := 1; i <= 12; i++ {
		db.Create(&row{Name: "r", Rank: i})
	}

	f := ListFilter{Page: 2, PageSize: 5, OrderBy: "rank", SortOrder: SortAsc}
	f.Normalize()

	var rows []row
	if err := db.Scopes(f.Scope("rank", "name")).Find(&rows).Error; err != nil {
		t.Fatalf("Failed to query window: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(rows))
	}
	if rows[0].Rank != 6 || rows[4].Rank != 10 {
		t.Errorf("Expected ranks 6..10, got %d..%d", rows[0].Rank, rows[4].Rank)
	}

	// Descending flips the window content
	f.SortOrder = SortDesc
	if err := db.Scopes(f.Scope("rank")).Find(&rows).Error; err != nil {
		t.Fatalf("Failed to query descending window: %v", err)
	}
	if rows[0].Rank != 7 {
		t.Errorf("Expected rank 7 first on page 2 descending, got %d", rows[0].Rank)
	}
}

func TestScopeRejectsUnknownColumn(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&row{Name: "r", Rank: 1})

	f := ListFilter{Page: 1, PageSize: 5, OrderBy: "rank; DROP TABLE rows"}
	f.Normalize()

	var rows []row
	err := db.Scopes(f.Scope("rank", "name")).Find(&rows).Error
	if err != ErrInvalidOrderBy {
		t.Errorf("Expected ErrInvalidOrderBy, got %v", err)
	}
}

func TestNewPagedResult(t *testing.T) {
	f := ListFilter{Page: 2, PageSize: 10}

	result := NewPagedResult(f, []string{"a", "b"}, 25)
	if result.Page.TotalItems != 25 {
		t.Errorf("Expected totalItems 25, got %d", result.Page.TotalItems)
	}
	if result.Page.TotalPages != 3 {
		t.Errorf("Expected totalPages ceil(25/10)=3, got %d", result.Page.TotalPages)
	}
	if result.Page.PageNumber != 2 || result.Page.PageSize != 10 {
		t.Errorf("Expected page echo 2/10, got %d/%d", result.Page.PageNumber, result.Page.PageSize)
	}

	// Exact multiple does not round up
	result = NewPagedResult(f, []string{"a"}, 30)
	if result.Page.TotalPages != 3 {
		t.Errorf("Expected totalPages 3 for exact multiple, got %d", result.Page.TotalPages)
	}

	// Empty set stays empty, never nil
	result = NewPagedResult[string](f, nil, 0)
	if result.Data == nil {
		t.Error("Expected non-nil data for empty result")
	}
	if result.Page.TotalPages != 0 {
		t.Errorf("Expected totalPages 0, got %d", result.Page.TotalPages)
	}
}
