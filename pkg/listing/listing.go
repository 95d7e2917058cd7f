// Package listing is the shared list contract of every collection endpoint:
// page-based pagination, allow-listed exact-match filters and a free-text
// search over allow-listed columns.
package listing

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wari-app/wari/pkg/apperror"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	dateLayout = "2006-01-02"
)

// Params is a parsed list request.
type Params struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Offset of the first row of the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// FilterFunc narrows q by one query parameter value.
type FilterFunc func(q *gorm.DB, value string) (*gorm.DB, error)

// SearchFunc narrows q by the search term.
type SearchFunc func(q *gorm.DB, term string) *gorm.DB

// Spec describes what a collection accepts.
type Spec struct {
	Filters map[string]FilterFunc
	Search  SearchFunc
	Order   string
	Preload []string // associations loaded for the page, not the count
}

// ParseParams reads page, page_size, search and every filter named in spec.
// Unknown parameters are ignored. Out-of-range paging values are clamped.
func ParseParams(c *gin.Context, spec Spec) Params {
	p := Params{
		Page:     1,
		PageSize: DefaultPageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Filters:  map[string]string{},
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 {
		p.PageSize = min(v, MaxPageSize)
	}
	for name := range spec.Filters {
		if v, ok := c.GetQuery(name); ok && strings.TrimSpace(v) != "" {
			p.Filters[name] = strings.TrimSpace(v)
		}
	}
	return p
}

// Apply adds the filters and the search term to q.
func Apply(q *gorm.DB, spec Spec, p Params) (*gorm.DB, error) {
	fields := map[string]string{}
	for name, value := range p.Filters {
		fn, ok := spec.Filters[name]
		if !ok {
			continue
		}
		next, err := fn(q, value)
		if err != nil {
			fields[name] = err.Error()
			continue
		}
		q = next
	}
	if err := apperror.Validation(fields); err != nil {
		return nil, err
	}
	if p.Search != "" && spec.Search != nil {
		q = spec.Search(q, p.Search)
	}
	return q, nil
}

// Find runs a filtered, counted and paginated query.
func Find[T any](q *gorm.DB, spec Spec, p Params) ([]T, int64, error) {
	q, err := Apply(q, spec, p)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0, p.PageSize)
	if spec.Order != "" {
		q = q.Order(spec.Order)
	}
	for _, assoc := range spec.Preload {
		q = q.Preload(assoc)
	}
	if err := q.Offset(p.Offset()).Limit(p.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Exact matches column = value.
func Exact(column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		return q.Where(column+" = ?", value), nil
	}
}

// ExactFold matches column = value ignoring case.
func ExactFold(column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		return q.Where("LOWER("+column+") = LOWER(?)", value), nil
	}
}

// OneOf matches column = value, rejecting values outside allowed.
func OneOf(column string, allowed ...string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		for _, a := range allowed {
			if a == value {
				return q.Where(column+" = ?", value), nil
			}
		}
		return nil, errInvalid("Must be one of: " + strings.Join(allowed, ", ") + ".")
	}
}

// Bool matches a boolean column; accepts 1/0/t/f/true/false in any case.
func Bool(column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errInvalid("Must be true or false.")
		}
		return q.Where(column+" = ?", b), nil
	}
}

// Day matches a timestamp column falling on the given UTC calendar day
// (YYYY-MM-DD).
func Day(column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		day, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, errInvalid("Enter a valid date (YYYY-MM-DD).")
		}
		return q.Where(column+" >= ? AND "+column+" < ?", day, day.AddDate(0, 0, 1)), nil
	}
}

// Related matches fk IN (SELECT id FROM table WHERE column = value), which is
// how a foreign key is filtered by the parent's slug or name.
func Related(fk, table, column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		return q.Where(fk+" IN (SELECT id FROM "+table+" WHERE "+column+" = ?)", value), nil
	}
}

// RelatedVia matches through two hops: fk points at table, whose viaFK points
// at viaTable, filtered by viaTable.column = value.
func RelatedVia(fk, table, viaFK, viaTable, column string) FilterFunc {
	return func(q *gorm.DB, value string) (*gorm.DB, error) {
		return q.Where(fk+" IN (SELECT id FROM "+table+" WHERE "+viaFK+
			" IN (SELECT id FROM "+viaTable+" WHERE "+column+" = ?))", value), nil
	}
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Columns searches a case-insensitive substring across the given columns.
func Columns(columns ...string) SearchFunc {
	return func(q *gorm.DB, term string) *gorm.DB {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = like
		}
		return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

type invalidValue string

func (e invalidValue) Error() string { return string(e) }

func errInvalid(msg string) error { return invalidValue(msg) }
