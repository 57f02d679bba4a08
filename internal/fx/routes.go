package fx

import (
	"github.com/1Zamuken1/GastuApp/internal/domain/category"
	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	"github.com/1Zamuken1/GastuApp/internal/routes"

	"go.uber.org/fx"
)

// RoutesModule fornece os handlers HTTP
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
	),
)

func newHandler(savingsSvc *savings.Service, categorySvc *category.Service) *routes.Handler {
	return &routes.Handler{
		SavingsService:  savingsSvc,
		CategoryService: categorySvc,
	}
}
