package fx

import (
	"context"

	"github.com/1Zamuken1/GastuApp/config"
	"github.com/1Zamuken1/GastuApp/internal/infrastructure"
	"github.com/1Zamuken1/GastuApp/internal/logger"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newSavingsRepository,
		newCategoryRepository,
		newTxManager,
		newResourceCounter,
	),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infrastructure.NewDb(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			logger.Info().Msg("Fechando conexões com o banco de dados")
			return sqlDB.Close()
		},
	})
	return db, nil
}

func newSavingsRepository(db *gorm.DB) *infrastructure.SavingsRepository {
	return &infrastructure.SavingsRepository{DB: db}
}

func newCategoryRepository(db *gorm.DB) *infrastructure.CategoryRepository {
	return &infrastructure.CategoryRepository{DB: db}
}

func newTxManager(cfg *config.Config, db *gorm.DB) *infrastructure.GormTxManager {
	return &infrastructure.GormTxManager{DB: db, MaxAttempts: cfg.Savings.TxMaxRetries}
}

func newResourceCounter(db *gorm.DB) *infrastructure.ResourceCounter {
	return &infrastructure.ResourceCounter{DB: db}
}
