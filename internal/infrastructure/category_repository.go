package infrastructure

import (
	"context"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/category"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

const categoriesTable = "categories"

type CategoryRepository struct {
	DB *gorm.DB
}

var _ category.Repository = (*CategoryRepository)(nil)

type categoryDB struct {
	Id          string `gorm:"type:varchar(26);primaryKey"`
	Kind        string `gorm:"type:varchar(20);uniqueIndex:idx_categories_kind_name,priority:1;not null"`
	Name        string `gorm:"size:100;uniqueIndex:idx_categories_kind_name,priority:2;not null"`
	Description string `gorm:"size:255"`
	Icon        string `gorm:"size:50"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (categoryDB) TableName() string { return categoriesTable }

func toDomainCategory(row *categoryDB) (*category.Category, error) {
	id, err := pkg.ParseULID(row.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &category.Category{
		Id:          id,
		Kind:        category.Kind(row.Kind),
		Name:        row.Name,
		Description: row.Description,
		Icon:        row.Icon,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func toDBCategory(c *category.Category) *categoryDB {
	return &categoryDB{
		Id:          c.Id.String(),
		Kind:        string(c.Kind),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Os erros do gorm sobem sem tradução; o serviço de categorias decide entre
// não encontrado, conflito e falha de banco.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	return r.DB.WithContext(ctx).Table(categoriesTable).Create(toDBCategory(c)).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id ulid.ULID) (*category.Category, error) {
	var row categoryDB
	if err := r.DB.WithContext(ctx).Table(categoriesTable).Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}

func (r *CategoryRepository) GetByName(ctx context.Context, kind category.Kind, name string) (*category.Category, error) {
	var row categoryDB
	err := r.DB.WithContext(ctx).Table(categoriesTable).
		Where("kind = ? AND LOWER(name) = LOWER(?)", string(kind), name).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}

func (r *CategoryRepository) List(ctx context.Context, kind *category.Kind) ([]*category.Category, error) {
	query := r.DB.WithContext(ctx).Table(categoriesTable)
	if kind != nil {
		query = query.Where("kind = ?", string(*kind))
	}

	var rows []categoryDB
	if err := query.Order("kind ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*category.Category, 0, len(rows))
	for i := range rows {
		c, err := toDomainCategory(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
