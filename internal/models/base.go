// internal/models/base.go
package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BaseModel is embedded by every table. Rows are hard-deleted, so there is
// no DeletedAt column; uniqueness constraints stay meaningful after a delete.
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeName trims surrounding whitespace and title-cases every word.
// A Caser keeps state, so one is built per call.
func NormalizeName(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// Slugify returns the lowercase, hyphenated form of s.
func Slugify(s string) string {
	return slug.Make(s)
}

// RuneLen counts characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
