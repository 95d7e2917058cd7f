package country_test

import (
	"net/http"
	"testing"

	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/testutil/apitest"
)

func TestCreateCountry(t *testing.T) {
	e := apitest.New(t)

	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/countries"),
		map[string]string{"name": "  côte d'ivoire ", "code": "civ"}, e.AdminToken)
	var c country.Country
	testutil.Decode(t, rec, &c)
	if rec.Code != http.StatusCreated || c.Code != "CIV" || c.Slug == "" || c.Name[0] != 'C' {
		t.Fatalf("create: status %d, %+v", rec.Code, c)
	}

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"duplicate code", map[string]string{"name": "Other", "code": "CIV"}, "code"},
		{"duplicate name", map[string]string{"name": "CÔTE D'IVOIRE", "code": "XXX"}, "name"},
		{"short code", map[string]string{"name": "Mali", "code": "ML"}, "code"},
		{"digits in code", map[string]string{"name": "Mali", "code": "M1L"}, "code"},
		{"blank name", map[string]string{"name": "   ", "code": "MLI"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Do(t, http.MethodPost, apitest.Path("/admin/countries"), tt.body, e.AdminToken)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if env := testutil.Decode(t, rec, nil); env.Errors[tt.field] == "" {
				t.Errorf("missing %s error in %v", tt.field, env.Errors)
			}
		})
	}

	if rec := e.Do(t, http.MethodPost, apitest.Path("/admin/countries"),
		map[string]string{"name": "Mali", "code": "MLI"}, e.EditorToken); rec.Code != http.StatusForbidden {
		t.Errorf("editor create status = %d", rec.Code)
	}
}

func TestRenameKeepsSlug(t *testing.T) {
	e := apitest.New(t)
	c := e.CreateCountry(t, "senegal", "sen")

	rec := e.Do(t, http.MethodPatch, apitest.Path("/admin/countries/%d", c.ID),
		map[string]string{"name": "republic of senegal"}, e.AdminToken)
	var got country.Country
	testutil.Decode(t, rec, &got)
	if rec.Code != http.StatusOK || got.Name != "Republic Of Senegal" || got.Slug != "senegal" {
		t.Errorf("rename: status %d, %+v", rec.Code, got)
	}
}

func TestDeleteCountryWithGames(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	empty := e.CreateCountry(t, "mali", "MLI")

	rec := e.Do(t, http.MethodDelete, apitest.Path("/admin/countries/%d", w.France.ID), nil, e.AdminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete with games status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodDelete, apitest.Path("/admin/countries/%d", empty.ID), nil, e.AdminToken); rec.Code != http.StatusOK {
		t.Errorf("delete empty status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodGet, apitest.Path("/admin/countries/%d", empty.ID), nil, e.AdminToken); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", rec.Code)
	}
}

func TestListCountriesCountsGames(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)

	rec := e.Do(t, http.MethodGet, apitest.Path("/admin/countries"), nil, e.ViewerToken)
	var items []country.Country
	env := testutil.Decode(t, rec, &items)
	if env.Pagination.TotalItems != 2 {
		t.Fatalf("total = %d", env.Pagination.TotalItems)
	}
	counts := map[uint]int64{}
	for _, c := range items {
		counts[c.ID] = c.GameCount
	}
	if counts[w.France.ID] != 2 || counts[w.Senegal.ID] != 1 {
		t.Errorf("game counts = %v", counts)
	}
}
