package infrastructure

import (
	"context"

	"gorm.io/gorm"
)

// ResourceCounter conta recursos por usuário para os limites da API.
type ResourceCounter struct {
	DB *gorm.DB
}

func (r *ResourceCounter) CountGoals(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Table(savingsGoalsTable).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
