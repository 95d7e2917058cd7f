package program

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type ProgramRepository interface {
	CreateProgram(p *Program) error
	GetProgramByID(id uint) (*Program, error)
	FindProgram(gameID uint, eventDate time.Time) (*Program, error)
	ListPrograms(p listing.Params, spec listing.Spec, publishedOnly bool) ([]Program, int64, error)
	UpdateProgram(p *Program) error
	DeleteProgram(id uint) error
	Publish(ids []uint, now time.Time) (int64, error)
	Unpublish(ids []uint) (int64, error)
	GetGameBySlug(slug string) (*game.Game, error)
	WithTransaction(fn func(ProgramRepository) error) error
}

type programRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

var (
	gameFilter    = listing.Related("game_id", "games", "slug")
	countryFilter = listing.RelatedVia("game_id", "games", "country_id", "countries", "slug")
)

var AdminListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":         gameFilter,
		"country":      countryFilter,
		"is_published": listing.Bool("is_published"),
		"event_date":   listing.Day("event_date"),
	},
	Search:  listing.Columns("details", "(SELECT name FROM games WHERE games.id = programs.game_id)"),
	Order:   "event_date ASC, id ASC",
	Preload: []string{"Game"},
}

var ClientListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":       gameFilter,
		"country":    countryFilter,
		"event_date": listing.Day("event_date"),
	},
	Search:  listing.Columns("details", "(SELECT name FROM games WHERE games.id = programs.game_id)"),
	Order:   "event_date ASC, id ASC",
	Preload: []string{"Game"},
}

func (r *programRepository) CreateProgram(p *Program) error {
	return r.db.Omit(clause.Associations).Create(p).Error
}

func (r *programRepository) GetProgramByID(id uint) (*Program, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

func (r *programRepository) FindProgram(gameID uint, eventDate time.Time) (*Program, error) {
	return r.findOne(r.db.Where("game_id = ? AND event_date = ?", gameID, eventDate.UTC()))
}

func (r *programRepository) findOne(q *gorm.DB) (*Program, error) {
	var p Program
	if err := q.Preload("Game").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *programRepository) ListPrograms(p listing.Params, spec listing.Spec, publishedOnly bool) ([]Program, int64, error) {
	q := r.db.Model(&Program{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return listing.Find[Program](q, spec, p)
}

func (r *programRepository) UpdateProgram(p *Program) error {
	return r.db.Omit(clause.Associations).Save(p).Error
}

func (r *programRepository) DeleteProgram(id uint) error {
	res := r.db.Delete(&Program{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Program")
	}
	return nil
}

// Publish only touches programs still in the future.
func (r *programRepository) Publish(ids []uint, now time.Time) (int64, error) {
	res := r.db.Model(&Program{}).
		Where("id IN ? AND event_date >= ?", ids, now.UTC()).
		UpdateColumns(map[string]interface{}{"is_published": true, "updated_at": now.UTC()})
	return res.RowsAffected, res.Error
}

func (r *programRepository) Unpublish(ids []uint) (int64, error) {
	res := r.db.Model(&Program{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{"is_published": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *programRepository) GetGameBySlug(slug string) (*game.Game, error) {
	var g game.Game
	if err := r.db.Where("slug = ?", slug).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *programRepository) WithTransaction(fn func(ProgramRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&programRepository{db: tx})
	})
}
