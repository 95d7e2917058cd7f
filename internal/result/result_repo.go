package result

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type ResultRepository interface {
	CreateResult(r *Result) error
	GetResultByID(id uint) (*Result, error)
	FindResult(gameID uint, resultDate time.Time) (*Result, error)
	ListResults(p listing.Params, spec listing.Spec, public bool) ([]Result, int64, error)
	UpdateResult(r *Result) error
	DeleteResult(id uint) error
	MarkOfficial(ids []uint, validatorID uint) (int64, error)
	MarkPending(ids []uint) (int64, error)
	GetGameBySlug(slug string) (*game.Game, error)
	WithTransaction(fn func(ResultRepository) error) error
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// publicStatuses are visible on the client family.
var publicStatuses = []Status{StatusOfficial, StatusDisputed}

var (
	gameFilter    = listing.Related("game_id", "games", "slug")
	statusFilter  = listing.OneOf("status", string(StatusPending), string(StatusOfficial), string(StatusDisputed))
	searchResults = listing.Columns("outcome", "(SELECT name FROM games WHERE games.id = results.game_id)")
)

var AdminListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":        gameFilter,
		"country":     listing.RelatedVia("game_id", "games", "country_id", "countries", "slug"),
		"status":      statusFilter,
		"result_date": listing.Day("result_date"),
	},
	Search:  searchResults,
	Order:   "result_date DESC, id DESC",
	Preload: []string{"Game", "ValidatedBy"},
}

var ClientListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":        gameFilter,
		"status":      statusFilter,
		"result_date": listing.Day("result_date"),
	},
	Search:  searchResults,
	Order:   "result_date DESC, id DESC",
	Preload: []string{"Game", "ValidatedBy"},
}

func (r *resultRepository) CreateResult(res *Result) error {
	return r.db.Omit(clause.Associations).Create(res).Error
}

func (r *resultRepository) GetResultByID(id uint) (*Result, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

func (r *resultRepository) FindResult(gameID uint, resultDate time.Time) (*Result, error) {
	return r.findOne(r.db.Where("game_id = ? AND result_date = ?", gameID, resultDate.UTC()))
}

func (r *resultRepository) findOne(q *gorm.DB) (*Result, error) {
	var res Result
	if err := q.Preload("Game").Preload("ValidatedBy").First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// ListResults restricts to official and disputed rows when public is set.
func (r *resultRepository) ListResults(p listing.Params, spec listing.Spec, public bool) ([]Result, int64, error) {
	q := r.db.Model(&Result{})
	if public {
		q = q.Where("status IN ?", publicStatuses)
	}
	return listing.Find[Result](q, spec, p)
}

func (r *resultRepository) UpdateResult(res *Result) error {
	return r.db.Omit(clause.Associations).Save(res).Error
}

func (r *resultRepository) DeleteResult(id uint) error {
	res := r.db.Delete(&Result{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Result")
	}
	return nil
}

func (r *resultRepository) MarkOfficial(ids []uint, validatorID uint) (int64, error) {
	res := r.db.Model(&Result{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{
			"status":          StatusOfficial,
			"validated_by_id": validatorID,
			"updated_at":      time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *resultRepository) MarkPending(ids []uint) (int64, error) {
	res := r.db.Model(&Result{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{
			"status":          StatusPending,
			"validated_by_id": gorm.Expr("NULL"),
			"updated_at":      time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *resultRepository) GetGameBySlug(slug string) (*game.Game, error) {
	var g game.Game
	if err := r.db.Where("slug = ?", slug).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *resultRepository) WithTransaction(fn func(ResultRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&resultRepository{db: tx})
	})
}
