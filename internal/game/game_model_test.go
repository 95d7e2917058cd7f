package game

import (
	"testing"

	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/pkg/apperror"
)

func TestSlugFor(t *testing.T) {
	if got := SlugFor("Le Classique", "FRA"); got != "le-classique-fra" {
		t.Errorf("SlugFor = %q, want le-classique-fra", got)
	}
}

func TestNormalizeKeepsExistingSlug(t *testing.T) {
	g := &Game{Name: " new name ", Slug: "old-slug", Country: &country.Country{Code: "SEN"}}
	g.Normalize()
	if g.Name != "New Name" || g.Slug != "old-slug" {
		t.Errorf("got name=%q slug=%q", g.Name, g.Slug)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		game   Game
		fields []string
	}{
		{"valid", Game{Name: "Loto", Slug: "loto-fra", CountryID: 1, GameTypeID: 1}, nil},
		{"empty name", Game{Slug: "x", CountryID: 1, GameTypeID: 1}, []string{"name"}},
		{"short name", Game{Name: "Ab", Slug: "ab-fra", CountryID: 1, GameTypeID: 1}, []string{"name"}},
		{"missing parents", Game{Name: "Loto", Slug: "loto"}, []string{"country_id", "game_type_id"}},
		{"no slug", Game{Name: "Loto", CountryID: 1, GameTypeID: 1}, []string{"slug"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.game.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			ae, ok := apperror.As(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			for _, f := range tt.fields {
				if ae.Fields[f] == "" {
					t.Errorf("missing field error %q in %v", f, ae.Fields)
				}
			}
		})
	}
}
