package game

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

// dependentTables hold rows owned by a game; they go with it.
var dependentTables = []string{"predictions", "programs", "results"}

type GameRepository interface {
	CreateGame(g *Game) error
	GetGameByID(id uint) (*Game, error)
	GetGameBySlug(slug string) (*Game, error)
	FindGameByNameAndCountry(name string, countryID uint) (*Game, error)
	ListGames(p listing.Params, spec listing.Spec, activeOnly bool) ([]Game, int64, error)
	UpdateGame(g *Game) error
	DeleteGame(id uint) error
	SetActive(ids []uint, active bool) (int64, error)

	GetCountry(id uint) (*country.Country, error)
	GetGameType(id uint) (*gametype.GameType, error)

	WithTransaction(fn func(GameRepository) error) error
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

var adminFilters = map[string]listing.FilterFunc{
	"country":   listing.Related("country_id", "countries", "slug"),
	"game_type": listing.Related("game_type_id", "game_types", "slug"),
	"is_active": listing.Bool("is_active"),
	"name":      listing.ExactFold("name"),
}

// AdminListSpec is the allow-list of the admin games collection.
var AdminListSpec = listing.Spec{
	Filters: adminFilters,
	Search:  listing.Columns("name", "description"),
	Order:   "created_at DESC, id DESC",
	Preload: []string{"Country", "GameType"},
}

// ClientListSpec is the allow-list of the public games collection.
var ClientListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"country":   adminFilters["country"],
		"game_type": adminFilters["game_type"],
	},
	Search:  listing.Columns("name", "description"),
	Order:   "name ASC, id ASC",
	Preload: []string{"Country", "GameType"},
}

func (r *gameRepository) CreateGame(g *Game) error {
	return r.db.Omit(clause.Associations).Create(g).Error
}

func (r *gameRepository) GetGameByID(id uint) (*Game, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

func (r *gameRepository) GetGameBySlug(slug string) (*Game, error) {
	return r.findOne(r.db.Where("slug = ?", slug))
}

func (r *gameRepository) FindGameByNameAndCountry(name string, countryID uint) (*Game, error) {
	return r.findOne(r.db.Where("name = ? AND country_id = ?", models.NormalizeName(name), countryID))
}

func (r *gameRepository) findOne(q *gorm.DB) (*Game, error) {
	var g Game
	if err := q.Preload("Country").Preload("GameType").First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) ListGames(p listing.Params, spec listing.Spec, activeOnly bool) ([]Game, int64, error) {
	q := r.db.Model(&Game{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return listing.Find[Game](q, spec, p)
}

func (r *gameRepository) UpdateGame(g *Game) error {
	return r.db.Omit(clause.Associations).Save(g).Error
}

// DeleteGame removes the game and everything attached to it.
func (r *gameRepository) DeleteGame(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range dependentTables {
			if err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Game")
		}
		return nil
	})
}

func (r *gameRepository) SetActive(ids []uint, active bool) (int64, error) {
	res := r.db.Model(&Game{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *gameRepository) GetCountry(id uint) (*country.Country, error) {
	var c country.Country
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *gameRepository) GetGameType(id uint) (*gametype.GameType, error) {
	var g gametype.GameType
	if err := r.db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) WithTransaction(fn func(GameRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gameRepository{db: tx})
	})
}
