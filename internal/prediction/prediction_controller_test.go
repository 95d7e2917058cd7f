package prediction_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/prediction"
	"github.com/wari-app/wari/internal/testutil"
	"github.com/wari-app/wari/internal/testutil/apitest"
)

const longText = "A carefully argued prediction"

func create(t *testing.T, e *apitest.Env, token string, body map[string]interface{}) prediction.PredictionResponse {
	t.Helper()
	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions"), body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var p prediction.PredictionResponse
	testutil.Decode(t, rec, &p)
	return p
}

func TestCreatePredictionStampsAuthorAndTime(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)

	before := time.Now().UTC().Add(-time.Second)
	p := create(t, e, e.EditorToken, map[string]interface{}{
		"game": w.Classique.Slug, "description": "  " + longText + "  ", "is_published": true,
		"predicted_at": "2001-01-01T00:00:00Z",
	})
	if p.AuthorID == nil || *p.AuthorID != e.Editor.ID || p.AuthorDisplay != "editor1" {
		t.Errorf("author not stamped: %+v", p)
	}
	if p.PredictedAt.Before(before) {
		t.Errorf("predicted_at = %s, must be server time", p.PredictedAt)
	}
	if p.Game != "le-classique-fra" || p.GameName != "Le Classique" || p.Description != longText {
		t.Errorf("unexpected response %+v", p)
	}
}

func TestCreatePredictionValidation(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"fourteen characters", map[string]interface{}{"game": w.Classique.Slug, "description": strings.Repeat("a", 14)}, "description"},
		{"padded short", map[string]interface{}{"game": w.Classique.Slug, "description": "   short text   "}, "description"},
		{"unknown game", map[string]interface{}{"game": "nope", "description": longText}, "game"},
		{"missing game", map[string]interface{}{"description": longText}, "game"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions"), tt.body, e.EditorToken)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if env := testutil.Decode(t, rec, nil); env.Errors[tt.field] == "" {
				t.Errorf("missing %s error in %v", tt.field, env.Errors)
			}
		})
	}

	if rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions"),
		map[string]interface{}{"game": w.Classique.Slug, "description": strings.Repeat("a", 15)}, e.EditorToken); rec.Code != http.StatusCreated {
		t.Errorf("fifteen characters status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions"),
		map[string]interface{}{"game": w.Classique.Slug, "description": longText}, e.ViewerToken); rec.Code != http.StatusForbidden {
		t.Errorf("viewer create status = %d", rec.Code)
	}
}

func TestOwnership(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	other := e.CreateUser(t, "editor2", access.RoleEditor)
	otherToken := e.Token(t, other)

	p := create(t, e, e.EditorToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText})
	path := apitest.Path("/admin/predictions/%d", p.ID)

	if rec := e.Do(t, http.MethodPatch, path, map[string]interface{}{"is_published": true}, otherToken); rec.Code != http.StatusForbidden {
		t.Errorf("other editor update status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodDelete, path, nil, otherToken); rec.Code != http.StatusForbidden {
		t.Errorf("other editor delete status = %d", rec.Code)
	}

	rec := e.Do(t, http.MethodPut, path, map[string]interface{}{"is_published": true}, e.EditorToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("author update status = %d, body %s", rec.Code, rec.Body)
	}
	var updated prediction.PredictionResponse
	testutil.Decode(t, rec, &updated)
	if !updated.IsPublished || !updated.PredictedAt.Equal(p.PredictedAt) || updated.Description != longText {
		t.Errorf("update changed the wrong fields: %+v", updated)
	}

	if rec := e.Do(t, http.MethodPatch, path, map[string]interface{}{"game": w.Dakar.Slug}, e.AdminToken); rec.Code != http.StatusOK {
		t.Errorf("admin update status = %d", rec.Code)
	}
	if rec := e.Do(t, http.MethodDelete, path, nil, e.AdminToken); rec.Code != http.StatusOK {
		t.Errorf("admin delete status = %d", rec.Code)
	}
}

func TestBulkPublishSkipsAuthorless(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)

	owned := create(t, e, e.EditorToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText})
	orphan := &prediction.Prediction{GameID: w.Classique.ID, Description: longText}
	if err := e.DB.Create(orphan).Error; err != nil {
		t.Fatal(err)
	}

	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/publish"),
		map[string]interface{}{"ids": []uint{owned.ID, orphan.ID}}, e.EditorToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var res struct{ Updated, Skipped int64 }
	testutil.Decode(t, rec, &res)
	if res.Updated != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 updated 1 skipped", res)
	}

	rec = e.Do(t, http.MethodGet, apitest.Path("/client/predictions"), nil, "")
	var items []prediction.PredictionResponse
	env := testutil.Decode(t, rec, &items)
	if env.Pagination.TotalItems != 1 || items[0].ID != owned.ID {
		t.Errorf("client sees %+v", items)
	}
	if rec := e.Do(t, http.MethodGet, apitest.Path("/client/predictions/%d", orphan.ID), nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished detail status = %d", rec.Code)
	}

	rec = e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/unpublish"),
		map[string]interface{}{"ids": []uint{owned.ID}}, e.AdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d", rec.Code)
	}
	rec = e.Do(t, http.MethodGet, apitest.Path("/client/predictions"), nil, "")
	if env := testutil.Decode(t, rec, nil); env.Pagination.TotalItems != 0 {
		t.Errorf("client total after unpublish = %d", env.Pagination.TotalItems)
	}
}

func TestListPredictionFilters(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)

	create(t, e, e.EditorToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText, "is_published": true})
	create(t, e, e.AdminToken, map[string]interface{}{"game": w.Dakar.Slug, "description": longText})
	today := time.Now().UTC().Format("2006-01-02")

	tests := []struct {
		query string
		total int64
	}{
		{"", 2},
		{"?game=dakar-derby-sen", 1},
		{"?author=editor1", 1},
		{"?is_published=true", 1},
		{"?predicted_at=" + today, 2},
		{"?predicted_at=2001-01-01", 0},
		{"?search=classique", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := e.Do(t, http.MethodGet, apitest.Path("/admin/predictions%s", tt.query), nil, e.ViewerToken)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if env := testutil.Decode(t, rec, nil); env.Pagination.TotalItems != tt.total {
				t.Errorf("total = %d, want %d", env.Pagination.TotalItems, tt.total)
			}
		})
	}

	if rec := e.Do(t, http.MethodGet, apitest.Path("/admin/predictions?predicted_at=yesterday"), nil, e.ViewerToken); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed date status = %d", rec.Code)
	}
}

func TestBulkPublishRespectsOwnership(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	other := e.CreateUser(t, "editor2", access.RoleEditor)
	otherToken := e.Token(t, other)

	mine := create(t, e, e.EditorToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText, "is_published": true})
	theirs := create(t, e, otherToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText})

	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/unpublish"),
		map[string]interface{}{"ids": []uint{mine.ID}}, otherToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d, body %s", rec.Code, rec.Body)
	}
	var res struct{ Updated, Skipped int64 }
	testutil.Decode(t, rec, &res)
	if res.Updated != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 0 updated 1 skipped", res)
	}
	var row prediction.Prediction
	if err := e.DB.First(&row, mine.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !row.IsPublished {
		t.Errorf("another editor unpublished the prediction")
	}

	rec = e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/publish"),
		map[string]interface{}{"ids": []uint{mine.ID, theirs.ID}}, otherToken)
	res = struct{ Updated, Skipped int64 }{}
	testutil.Decode(t, rec, &res)
	if res.Updated != 1 || res.Skipped != 1 {
		t.Errorf("publish result = %+v, want only the caller's row", res)
	}

	rec = e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/unpublish"),
		map[string]interface{}{"ids": []uint{mine.ID, theirs.ID}}, e.AdminToken)
	res = struct{ Updated, Skipped int64 }{}
	testutil.Decode(t, rec, &res)
	if res.Updated != 2 {
		t.Errorf("admin unpublish result = %+v, want 2 updated", res)
	}
}

func TestBulkRejectsDuplicateIDs(t *testing.T) {
	e := apitest.New(t)
	w := e.World(t)
	p := create(t, e, e.EditorToken, map[string]interface{}{"game": w.Classique.Slug, "description": longText})

	rec := e.Do(t, http.MethodPost, apitest.Path("/admin/predictions/publish"),
		map[string]interface{}{"ids": []uint{p.ID, p.ID}}, e.EditorToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if env := testutil.Decode(t, rec, nil); env.Errors["ids"] == "" {
		t.Errorf("missing ids error in %v", env.Errors)
	}
}
