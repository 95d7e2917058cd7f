package program

import (
	"testing"
	"time"

	"github.com/wari-app/wari/pkg/apperror"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		p     Program
		field string
	}{
		{"valid future published", Program{GameID: 1, EventDate: now.Add(time.Hour), Details: "Evening draw", IsPublished: true}, ""},
		{"past unpublished", Program{GameID: 1, EventDate: now.Add(-time.Hour), Details: "Evening draw"}, ""},
		{"past published", Program{GameID: 1, EventDate: now.Add(-time.Hour), Details: "Evening draw", IsPublished: true}, "is_published"},
		{"short details", Program{GameID: 1, EventDate: now, Details: "too short"}, "details"},
		{"no date", Program{GameID: 1, Details: "Evening draw"}, "event_date"},
		{"no game", Program{EventDate: now, Details: "Evening draw"}, "game"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate(now)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ae, ok := apperror.As(err)
			if !ok || ae.Fields[tt.field] == "" {
				t.Fatalf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}
