package listing_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type parent struct {
	ID   uint
	Slug string
}

type item struct {
	ID       uint
	Name     string
	Active   bool
	Kind     string
	ParentID uint
	At       time.Time
}

var spec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"active": listing.Bool("active"),
		"kind":   listing.OneOf("kind", "a", "b"),
		"name":   listing.ExactFold("name"),
		"at":     listing.Day("at"),
		"parent": listing.Related("parent_id", "parents", "slug"),
	},
	Search: listing.Columns("name"),
	Order:  "id ASC",
}

func params(t *testing.T, query string) listing.Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return listing.ParseParams(c, spec)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, listing.DefaultPageSize},
		{"page=3&page_size=5", 3, 5},
		{"page=0&page_size=-1", 1, listing.DefaultPageSize},
		{"page=abc", 1, listing.DefaultPageSize},
		{"page_size=1000", 1, listing.MaxPageSize},
	}
	for _, tt := range tests {
		p := params(t, tt.query)
		if p.Page != tt.page || p.PageSize != tt.pageSize {
			t.Errorf("%q: got page=%d size=%d, want %d/%d", tt.query, p.Page, p.PageSize, tt.page, tt.pageSize)
		}
	}

	p := params(t, "kind=a&unknown=1&name=%20%20")
	if len(p.Filters) != 1 || p.Filters["kind"] != "a" {
		t.Errorf("filters = %v, want only kind", p.Filters)
	}
}

func TestFind(t *testing.T) {
	db := testutil.SetupTestDB(t, &parent{}, &item{})
	day := time.Date(2025, 3, 23, 0, 0, 0, 0, time.UTC)
	db.Create(&[]parent{{ID: 1, Slug: "one"}, {ID: 2, Slug: "two"}})
	db.Create(&[]item{
		{Name: "Alpha", Active: true, Kind: "a", ParentID: 1, At: day.Add(1 * time.Hour)},
		{Name: "Beta", Active: false, Kind: "b", ParentID: 1, At: day.Add(23 * time.Hour)},
		{Name: "Gamma", Active: true, Kind: "b", ParentID: 2, At: day.Add(25 * time.Hour)},
	})

	tests := []struct {
		query string
		want  []string
		total int64
	}{
		{"", []string{"Alpha", "Beta", "Gamma"}, 3},
		{"active=true", []string{"Alpha", "Gamma"}, 2},
		{"active=0", []string{"Beta"}, 1},
		{"kind=b", []string{"Beta", "Gamma"}, 2},
		{"name=ALPHA", []string{"Alpha"}, 1},
		{"at=2025-03-23", []string{"Alpha", "Beta"}, 2},
		{"parent=two", []string{"Gamma"}, 1},
		{"search=MM", []string{"Gamma"}, 1},
		{"search=%25", []string{}, 0},
		{"search=_", []string{}, 0},
		{"page=2&page_size=2", []string{"Gamma"}, 3},
		{"page=9", []string{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, total, err := listing.Find[item](db.Model(&item{}), spec, params(t, tt.query))
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if total != tt.total {
				t.Errorf("total = %d, want %d", total, tt.total)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestFindRejectsMalformedFilters(t *testing.T) {
	db := testutil.SetupTestDB(t, &item{})
	_, _, err := listing.Find[item](db.Model(&item{}), spec, params(t, "active=maybe&at=23/03/2025&kind=z"))
	ae, ok := apperror.As(err)
	if !ok || ae.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"active", "at", "kind"} {
		if ae.Fields[f] == "" {
			t.Errorf("missing field error for %s: %v", f, ae.Fields)
		}
	}
}
