package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/logger"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type Service struct {
	Repository Repository
}

var _ savings.CategoryValidator = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, category *Category) error {
	category.Name = NormalizeName(category.Name)
	if category.Name == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}
	if len([]rune(category.Name)) > 50 {
		return appErrors.NewValidationError("name", "deve ter no máximo 50 caracteres")
	}
	if !category.Kind.IsValid() {
		return appErrors.NewValidationError("kind", "deve ser EXPENSE, INCOME ou SAVINGS")
	}
	category.Description = strings.TrimSpace(category.Description)

	if _, err := s.Repository.GetByName(ctx, category.Kind, category.Name); err == nil {
		return appErrors.ErrConflict.WithDetails(map[string]interface{}{"name": category.Name})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.NewDatabaseError(err)
	}

	now := time.Now()
	category.Id = pkg.GenerateULIDObject()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.Repository.Create(ctx, category); err != nil {
		if isUniqueConstraintError(err) {
			return appErrors.ErrConflict.WithDetails(map[string]interface{}{"name": category.Name})
		}
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id ulid.ULID) (*Category, error) {
	category, err := s.Repository.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return category, nil
}

func (s *Service) List(ctx context.Context, kind *Kind) ([]*Category, error) {
	if kind != nil && !kind.IsValid() {
		return nil, appErrors.NewValidationError("kind", "deve ser EXPENSE, INCOME ou SAVINGS")
	}
	categories, err := s.Repository.List(ctx, kind)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return categories, nil
}

// ValidateSavingsCategory is called before a savings goal is created.
func (s *Service) ValidateSavingsCategory(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
	category, err := s.GetByID(ctx, categoryID)
	if errors.Is(err, appErrors.ErrCategoryNotFound) {
		return nil, appErrors.NewValidationError("categoryId", "Categoria não encontrada")
	}
	if err != nil {
		return nil, err
	}
	if category.Kind != KindSavings {
		return nil, appErrors.NewValidationError("categoryId", "A categoria deve ser do tipo SAVINGS").
			WithDetails(map[string]interface{}{"kind": string(category.Kind)})
	}
	return toRef(category), nil
}

func (s *Service) GetCategoryRef(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
	category, err := s.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toRef(category), nil
}

// EnsureDefaults seeds the default categories. Existing rows are left alone.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	created := 0
	for _, category := range DefaultCategoryList(time.Now()) {
		_, err := s.Repository.GetByID(ctx, category.Id)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.NewDatabaseError(err)
		}
		if err := s.Repository.Create(ctx, category); err != nil {
			if isUniqueConstraintError(err) {
				continue
			}
			return appErrors.NewDatabaseError(err)
		}
		created++
	}

	if created > 0 {
		logger.Info().Int("created", created).Msg("Categorias padrão criadas")
	}
	return nil
}

func toRef(c *Category) *savings.CategoryRef {
	return &savings.CategoryRef{Id: c.Id, Name: c.Name, Kind: string(c.Kind)}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "unique constraint")
}
