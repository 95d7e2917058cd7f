package gametype

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type GameTypeRepository interface {
	CreateGameType(g *GameType) error
	GetGameTypeByID(id uint) (*GameType, error)
	FindGameTypeByName(name string) (*GameType, error)
	ListGameTypes(p listing.Params) ([]GameType, int64, error)
	UpdateGameType(g *GameType) error
	DeleteGameType(id uint) error
	WithTransaction(fn func(GameTypeRepository) error) error
}

type gameTypeRepository struct {
	db *gorm.DB
}

func NewGameTypeRepository(db *gorm.DB) GameTypeRepository {
	return &gameTypeRepository{db: db}
}

var ListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"name": listing.ExactFold("name"),
		"slug": listing.Exact("slug"),
	},
	Search: listing.Columns("name"),
	Order:  "name ASC",
}

func (r *gameTypeRepository) CreateGameType(g *GameType) error {
	return r.db.Create(g).Error
}

func (r *gameTypeRepository) GetGameTypeByID(id uint) (*GameType, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

func (r *gameTypeRepository) FindGameTypeByName(name string) (*GameType, error) {
	return r.findOne(r.db.Where("name = ?", models.NormalizeName(name)))
}

func (r *gameTypeRepository) findOne(q *gorm.DB) (*GameType, error) {
	var g GameType
	if err := q.First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachGameCounts([]*GameType{&g}); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gameTypeRepository) ListGameTypes(p listing.Params) ([]GameType, int64, error) {
	items, total, err := listing.Find[GameType](r.db.Model(&GameType{}), ListSpec, p)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*GameType, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := r.attachGameCounts(ptrs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *gameTypeRepository) attachGameCounts(items []*GameType) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i, g := range items {
		ids[i] = g.ID
	}
	var rows []struct {
		GameTypeID uint
		N          int64
	}
	err := r.db.Table("games").
		Select("game_type_id, COUNT(*) AS n").
		Where("game_type_id IN ?", ids).
		Group("game_type_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.GameTypeID] = row.N
	}
	for _, g := range items {
		g.GameCount = counts[g.ID]
	}
	return nil
}

func (r *gameTypeRepository) UpdateGameType(g *GameType) error {
	return r.db.Save(g).Error
}

// DeleteGameType is delete-protected: it refuses while games use the type.
func (r *gameTypeRepository) DeleteGameType(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var games int64
		if err := tx.Table("games").Where("game_type_id = ?", id).Count(&games).Error; err != nil {
			return err
		}
		if games > 0 {
			return apperror.DependentsExist(games, "games")
		}
		res := tx.Delete(&GameType{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Game type")
		}
		return nil
	})
}

func (r *gameTypeRepository) WithTransaction(fn func(GameTypeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gameTypeRepository{db: tx})
	})
}
