package infrastructure

import (
	"context"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/logger"

	"gorm.io/gorm"
)

type GormTxManager struct {
	DB          *gorm.DB
	MaxAttempts int
}

var _ savings.TxManager = (*GormTxManager)(nil)

func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo savings.Repository) error) error {
	return retryOnConflict(ctx, m.MaxAttempts, func() error {
		return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, &SavingsRepository{DB: tx, lockRows: true})
		})
	})
}

// retryOnConflict repete op enquanto ela falhar com modificação concorrente,
// até maxAttempts tentativas.
func retryOnConflict(ctx context.Context, maxAttempts int, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = op()
		if err == nil || !appErrors.IsConcurrentModification(err) {
			return err
		}
		logger.Warn().
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Modificação concorrente detectada, repetindo transação")
	}
	return err
}
