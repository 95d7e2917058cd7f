package program_test

import (
	"net/http"
	"testing"

	"github.com/wari-app/wari/internal/program"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/testutil/apitest"
)

func create(t *testing.T, e *apitest.Env, body map[string]interface{}) program.ProgramResponse {
	t.Helper()
	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/programs"), body, e.AdminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var p program.ProgramResponse
	testutil.Decode(t, rec, &p)
	return p
}

func TestCreateProgram(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	when := apitest.Future(2)

	p := create(t, e, map[string]interface{}{
		"game": w.Classique.Slug, "event_date": when, "details": "  Evening draw  ", "is_published": true,
	})
	if p.Game != "le-classique-fra" || p.Details != "Evening draw" || !p.IsPublished || !p.EventDate.Equal(when) {
		t.Errorf("unexpected response %+v", p)
	}

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"same game and date", map[string]interface{}{"game": w.Classique.Slug, "event_date": when, "details": "Another draw"}, "event_date"},
		{"published in the past", map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Past(1), "details": "Evening draw", "is_published": true}, "is_published"},
		{"short details", map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Future(3), "details": "  short  "}, "details"},
		{"unknown game", map[string]interface{}{"game": "missing", "event_date": apitest.Future(3), "details": "Evening draw"}, "game"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Do(t, http.MethodPost, apitest.Path("/admin/programs"), tt.body, e.AdminToken)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if env := testutil.Decode(t, rec, nil); env.Errors[tt.field] == "" {
				t.Errorf("missing %s error in %v", tt.field, env.Errors)
			}
		})
	}

	if rec := e.Do(t, http.MethodPost, apitest.Path("/admin/programs"),
		map[string]interface{}{"game": w.Dakar.Slug, "event_date": apitest.Future(4), "details": "Evening draw"}, e.EditorToken); rec.Code != http.StatusForbidden {
		t.Errorf("editor create status = %d", rec.Code)
	}

	// The same date on another game is fine.
	create(t, e, map[string]interface{}{"game": w.Dakar.Slug, "event_date": when, "details": "Evening draw"})
	// So is a past program left unpublished.
	create(t, e, map[string]interface{}{"game": w.Dakar.Slug, "event_date": apitest.Past(2), "details": "Archived draw"})
}

func TestUpdateProgramPublishRule(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	p := create(t, e, map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Past(1), "details": "Archived draw"})
	path := apitest.Path("/admin/programs/%d", p.ID)

	if rec := e.Do(t, http.MethodPatch, path, map[string]interface{}{"is_published": true}, e.AdminToken); rec.Code != http.StatusBadRequest {
		t.Errorf("publishing a past program status = %d", rec.Code)
	}
	rec := e.Do(t, http.MethodPatch, path, map[string]interface{}{"is_published": true, "event_date": apitest.Future(1)}, e.AdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule status = %d, body %s", rec.Code, rec.Body)
	}
	for name, token := range map[string]string{"viewer": e.ViewerToken, "editor": e.EditorToken} {
		if rec := e.Do(t, http.MethodPatch, path, map[string]interface{}{"details": "Changed details"}, token); rec.Code != http.StatusForbidden {
			t.Errorf("%s update status = %d", name, rec.Code)
		}
		if rec := e.Do(t, http.MethodDelete, path, nil, token); rec.Code != http.StatusForbidden {
			t.Errorf("%s delete status = %d", name, rec.Code)
		}
	}
	if rec := e.Do(t, http.MethodDelete, path, nil, e.AdminToken); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodGet, path, nil, e.ViewerToken); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestBulkPublishSkipsPastPrograms(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	future := create(t, e, map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Future(1), "details": "Evening draw"})
	past := create(t, e, map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Past(1), "details": "Archived draw"})

	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/programs/publish"),
		map[string]interface{}{"ids": []uint{future.ID, past.ID}}, e.AdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var res struct{ Updated, Skipped int64 }
	testutil.Decode(t, rec, &res)
	if res.Updated != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 updated 1 skipped", res)
	}
	if rec := e.Do(t, http.MethodPost, apitest.Path("/admin/programs/unpublish"),
		map[string]interface{}{"ids": []uint{future.ID}}, e.EditorToken); rec.Code != http.StatusForbidden {
		t.Errorf("editor unpublish status = %d", rec.Code)
	}

	rec = e.Do(t, http.MethodGet, apitest.Path("/client/programs"), nil, "")
	var items []program.ProgramResponse
	if env := testutil.Decode(t, rec, &items); env.Pagination.TotalItems != 1 || items[0].ID != future.ID {
		t.Errorf("client sees %+v", items)
	}
	if rec := e.Do(t, http.MethodGet, apitest.Path("/client/programs/%d", past.ID), nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished detail status = %d", rec.Code)
	}

	rec = e.Do(t, http.MethodPost, apitest.Path("/admin/programs/unpublish"),
		map[string]interface{}{"ids": []uint{future.ID}}, e.AdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d", rec.Code)
	}
	rec = e.Do(t, http.MethodGet, apitest.Path("/client/programs"), nil, "")
	if env := testutil.Decode(t, rec, nil); env.Pagination.TotalItems != 0 {
		t.Errorf("client total after unpublish = %d", env.Pagination.TotalItems)
	}
}

func TestListProgramFilters(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	first := create(t, e, map[string]interface{}{"game": w.Classique.Slug, "event_date": apitest.Future(1), "details": "Evening draw", "is_published": true})
	create(t, e, map[string]interface{}{"game": w.Dakar.Slug, "event_date": apitest.Future(2), "details": "Stadium night"})

	tests := []struct {
		query string
		total int64
	}{
		{"", 2},
		{"?country=france", 1},
		{"?country=senegal", 1},
		{"?game=le-classique-fra", 1},
		{"?is_published=false", 1},
		{"?event_date=" + apitest.Future(2).Format("2006-01-02"), 1},
		{"?search=stadium", 1},
		{"?search=dakar", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := e.Do(t, http.MethodGet, apitest.Path("/admin/programs%s", tt.query), nil, e.ViewerToken)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if env := testutil.Decode(t, rec, nil); env.Pagination.TotalItems != tt.total {
				t.Errorf("total = %d, want %d", env.Pagination.TotalItems, tt.total)
			}
		})
	}

	rec := e.Do(t, http.MethodGet, apitest.Path("/admin/programs"), nil, e.ViewerToken)
	var items []program.ProgramResponse
	testutil.Decode(t, rec, &items)
	if len(items) != 2 || items[0].ID != first.ID {
		t.Errorf("programs must be soonest first: %+v", items)
	}
}
