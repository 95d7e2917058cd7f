package prediction

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type PredictionRepository interface {
	CreatePrediction(p *Prediction) error
	GetPredictionByID(id uint) (*Prediction, error)
	ListPredictions(p listing.Params, spec listing.Spec, publishedOnly bool) ([]Prediction, int64, error)
	UpdatePrediction(p *Prediction) error
	DeletePrediction(id uint) error
	SetPublished(ids []uint, published bool, ownerID *uint) (int64, error)
	GetGameBySlug(slug string) (*game.Game, error)
	WithTransaction(fn func(PredictionRepository) error) error
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

var gameFilter = listing.Related("game_id", "games", "slug")

var searchGameName = listing.Columns("(SELECT name FROM games WHERE games.id = predictions.game_id)")

var AdminListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":         gameFilter,
		"author":       listing.Related("author_id", "users", "username"),
		"is_published": listing.Bool("is_published"),
		"predicted_at": listing.Day("predicted_at"),
	},
	Search:  searchGameName,
	Order:   "predicted_at DESC, id DESC",
	Preload: []string{"Game", "Author"},
}

var ClientListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"game":         gameFilter,
		"predicted_at": listing.Day("predicted_at"),
	},
	Search:  searchGameName,
	Order:   "predicted_at DESC, id DESC",
	Preload: []string{"Game", "Author"},
}

func (r *predictionRepository) CreatePrediction(p *Prediction) error {
	return r.db.Omit(clause.Associations).Create(p).Error
}

func (r *predictionRepository) GetPredictionByID(id uint) (*Prediction, error) {
	var p Prediction
	if err := r.db.Preload("Game").Preload("Author").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *predictionRepository) ListPredictions(p listing.Params, spec listing.Spec, publishedOnly bool) ([]Prediction, int64, error) {
	q := r.db.Model(&Prediction{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return listing.Find[Prediction](q, spec, p)
}

// UpdatePrediction never rewrites predicted_at.
func (r *predictionRepository) UpdatePrediction(p *Prediction) error {
	return r.db.Omit(clause.Associations, "PredictedAt").Save(p).Error
}

func (r *predictionRepository) DeletePrediction(id uint) error {
	res := r.db.Delete(&Prediction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Prediction")
	}
	return nil
}

// SetPublished flips the flag on the given rows. Publishing leaves
// author-less rows alone. A non-nil ownerID restricts the update to that
// author's rows.
func (r *predictionRepository) SetPublished(ids []uint, published bool, ownerID *uint) (int64, error) {
	q := r.db.Model(&Prediction{}).Where("id IN ?", ids)
	if published {
		q = q.Where("author_id IS NOT NULL")
	}
	if ownerID != nil {
		q = q.Where("author_id = ?", *ownerID)
	}
	res := q.UpdateColumns(map[string]interface{}{"is_published": published, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *predictionRepository) GetGameBySlug(slug string) (*game.Game, error) {
	var g game.Game
	if err := r.db.Where("slug = ?", slug).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *predictionRepository) WithTransaction(fn func(PredictionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&predictionRepository{db: tx})
	})
}
