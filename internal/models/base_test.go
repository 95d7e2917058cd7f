package models

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  le classique ", "Le Classique"},
		{"LOTO", "Loto"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Le Classique-fra", "le-classique-fra"},
		{"Sénégal", "senegal"},
		{"  Loto   Bonheur ", "loto-bonheur"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("Bénin"); got != 5 {
		t.Errorf("RuneLen(Bénin) = %d, want 5", got)
	}
}
