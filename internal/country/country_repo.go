package country

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type CountryRepository interface {
	CreateCountry(c *Country) error
	GetCountryByID(id uint) (*Country, error)
	FindCountryByName(name string) (*Country, error)
	FindCountryByCode(code string) (*Country, error)
	ListCountries(p listing.Params) ([]Country, int64, error)
	UpdateCountry(c *Country) error
	DeleteCountry(id uint) error
	WithTransaction(fn func(CountryRepository) error) error
}

type countryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a new instance of CountryRepository.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

var ListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"name": listing.ExactFold("name"),
		"code": listing.ExactFold("code"),
		"slug": listing.Exact("slug"),
	},
	Search: listing.Columns("name", "code"),
	Order:  "name ASC",
}

func (r *countryRepository) CreateCountry(c *Country) error {
	return r.db.Create(c).Error
}

func (r *countryRepository) GetCountryByID(id uint) (*Country, error) {
	return r.findOne(r.db.Where("id = ?", id))
}

// FindCountryByName looks the name up in its normalized form.
func (r *countryRepository) FindCountryByName(name string) (*Country, error) {
	return r.findOne(r.db.Where("name = ?", models.NormalizeName(name)))
}

func (r *countryRepository) FindCountryByCode(code string) (*Country, error) {
	return r.findOne(r.db.Where("UPPER(code) = UPPER(?)", code))
}

func (r *countryRepository) findOne(q *gorm.DB) (*Country, error) {
	var c Country
	if err := q.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachGameCounts([]*Country{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *countryRepository) ListCountries(p listing.Params) ([]Country, int64, error) {
	items, total, err := listing.Find[Country](r.db.Model(&Country{}), ListSpec, p)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*Country, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := r.attachGameCounts(ptrs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *countryRepository) attachGameCounts(items []*Country) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}
	var rows []struct {
		CountryID uint
		N         int64
	}
	err := r.db.Table("games").
		Select("country_id, COUNT(*) AS n").
		Where("country_id IN ?", ids).
		Group("country_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CountryID] = row.N
	}
	for _, c := range items {
		c.GameCount = counts[c.ID]
	}
	return nil
}

func (r *countryRepository) UpdateCountry(c *Country) error {
	return r.db.Save(c).Error
}

// DeleteCountry refuses while any game references the country.
func (r *countryRepository) DeleteCountry(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var games int64
		if err := tx.Table("games").Where("country_id = ?", id).Count(&games).Error; err != nil {
			return err
		}
		if games > 0 {
			return apperror.DependentsExist(games, "games")
		}
		res := tx.Delete(&Country{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Country")
		}
		return nil
	})
}

func (r *countryRepository) WithTransaction(fn func(CountryRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&countryRepository{db: tx})
	})
}
