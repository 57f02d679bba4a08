package fx

import (
	"context"

	"github.com/1Zamuken1/GastuApp/config"
	"github.com/1Zamuken1/GastuApp/internal/domain/category"
	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	"github.com/1Zamuken1/GastuApp/internal/infrastructure"

	"go.uber.org/fx"
)

// DomainModule fornece os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		newClock,
		newCategoryService,
		newSavingsService,
	),
	fx.Invoke(
		seedDefaultCategories,
	),
)

func newClock(cfg *config.Config) savings.Clock {
	return savings.SystemClock{Location: cfg.Location()}
}

func newCategoryService(repo *infrastructure.CategoryRepository) *category.Service {
	return category.NewService(repo)
}

// O serviço de categorias é o validador de categorias das metas.
func newSavingsService(
	repo *infrastructure.SavingsRepository,
	tx *infrastructure.GormTxManager,
	categorySvc *category.Service,
	clock savings.Clock,
) *savings.Service {
	return savings.NewService(repo, tx, categorySvc, clock)
}

func seedDefaultCategories(lc fx.Lifecycle, categorySvc *category.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return categorySvc.EnsureDefaults(ctx)
		},
	})
}
