package infrastructure

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	savingsGoalsTable        = "savings_goals"
	savingsInstallmentsTable = "savings_installments"
)

type SavingsRepository struct {
	DB *gorm.DB
	// lockRows é ligado pelo GormTxManager; leituras de metas passam a usar
	// SELECT ... FOR UPDATE dentro da transação.
	lockRows bool
}

var _ savings.Repository = (*SavingsRepository)(nil)

type savingsGoalDB struct {
	Id                string          `gorm:"type:varchar(26);primaryKey"`
	OwnerId           string          `gorm:"type:varchar(26);index;not null"`
	CategoryId        string          `gorm:"type:varchar(26);index;not null"`
	Description       string          `gorm:"type:varchar(100)"`
	TargetAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AccumulatedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Frequency         string          `gorm:"type:varchar(20);not null"`
	CreatedOn         pkg.Date        `gorm:"type:date;not null"`
	TargetDate        pkg.Date        `gorm:"type:date;not null"`
	InstallmentCount  int             `gorm:"not null"`
	Status            string          `gorm:"type:varchar(20);index;not null"`
	Version           int64           `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (savingsGoalDB) TableName() string { return savingsGoalsTable }

type savingsInstallmentDB struct {
	Id                string          `gorm:"type:varchar(26);primaryKey"`
	GoalId            string          `gorm:"type:varchar(26);index:idx_installment_goal_due,priority:1;not null"`
	AssignedAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ContributedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DueDate           pkg.Date        `gorm:"type:date;index:idx_installment_goal_due,priority:2;not null"`
	Status            string          `gorm:"type:varchar(20);not null"`
	RegisteredOn      pkg.Date        `gorm:"type:date;not null"`
	UpdatedAt         time.Time
}

func (savingsInstallmentDB) TableName() string { return savingsInstallmentsTable }

func toDomainSavingsGoal(row *savingsGoalDB) (*savings.Goal, error) {
	id, err := pkg.ParseULID(row.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	ownerID, err := pkg.ParseULID(row.OwnerId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	categoryID, err := pkg.ParseULID(row.CategoryId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &savings.Goal{
		Id:                id,
		OwnerId:           ownerID,
		CategoryId:        categoryID,
		Description:       row.Description,
		TargetAmount:      row.TargetAmount,
		AccumulatedAmount: row.AccumulatedAmount,
		Frequency:         savings.Frequency(row.Frequency),
		CreatedOn:         row.CreatedOn.Time,
		TargetDate:        row.TargetDate.Time,
		InstallmentCount:  row.InstallmentCount,
		Status:            savings.GoalStatus(row.Status),
		Version:           row.Version,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func toDBSavingsGoal(g *savings.Goal) *savingsGoalDB {
	return &savingsGoalDB{
		Id:                g.Id.String(),
		OwnerId:           g.OwnerId.String(),
		CategoryId:        g.CategoryId.String(),
		Description:       g.Description,
		TargetAmount:      g.TargetAmount,
		AccumulatedAmount: g.AccumulatedAmount,
		Frequency:         string(g.Frequency),
		CreatedOn:         pkg.NewDate(g.CreatedOn),
		TargetDate:        pkg.NewDate(g.TargetDate),
		InstallmentCount:  g.InstallmentCount,
		Status:            string(g.Status),
		Version:           g.Version,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
}

func toDomainInstallment(row *savingsInstallmentDB) (*savings.Installment, error) {
	id, err := pkg.ParseULID(row.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	goalID, err := pkg.ParseULID(row.GoalId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &savings.Installment{
		Id:                id,
		GoalId:            goalID,
		AssignedAmount:    row.AssignedAmount,
		ContributedAmount: row.ContributedAmount,
		DueDate:           row.DueDate.Time,
		Status:            savings.InstallmentStatus(row.Status),
		RegisteredOn:      row.RegisteredOn.Time,
	}, nil
}

func toDBInstallment(inst *savings.Installment) *savingsInstallmentDB {
	return &savingsInstallmentDB{
		Id:                inst.Id.String(),
		GoalId:            inst.GoalId.String(),
		AssignedAmount:    inst.AssignedAmount,
		ContributedAmount: inst.ContributedAmount,
		DueDate:           pkg.NewDate(inst.DueDate),
		Status:            string(inst.Status),
		RegisteredOn:      pkg.NewDate(inst.RegisteredOn),
	}
}

func (r *SavingsRepository) goals(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Table(savingsGoalsTable)
}

func (r *SavingsRepository) installments(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Table(savingsInstallmentsTable)
}

func (r *SavingsRepository) FindGoalByIDAndOwner(ctx context.Context, id, ownerID ulid.ULID) (*savings.Goal, error) {
	query := r.goals(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row savingsGoalDB
	if err := query.Where("id = ? AND owner_id = ?", id.String(), ownerID.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrSavingsGoalNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainSavingsGoal(&row)
}

func (r *SavingsRepository) ListGoalsByOwner(ctx context.Context, ownerID ulid.ULID, filters *savings.GoalFilters, pagination *pkg.PaginationParams) ([]*savings.Goal, int64, error) {
	query := r.goals(ctx).Where("owner_id = ?", ownerID.String())
	if filters != nil && filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}

	if pagination == nil {
		var rows []savingsGoalDB
		if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
			return nil, 0, appErrors.NewDatabaseError(err)
		}
		out := make([]*savings.Goal, 0, len(rows))
		for i := range rows {
			g, err := toDomainSavingsGoal(&rows[i])
			if err != nil {
				return nil, 0, err
			}
			out = append(out, g)
		}
		return out, int64(len(out)), nil
	}

	goals, total, err := pkg.Paginate(query, pagination, "created_at DESC", toDomainSavingsGoal)
	if err != nil {
		if _, ok := appErrors.AsAppError(err); ok {
			return nil, 0, err
		}
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return goals, total, nil
}

func (r *SavingsRepository) SearchGoalsByCategoryName(ctx context.Context, ownerID ulid.ULID, text string) ([]*savings.Goal, error) {
	var rows []savingsGoalDB
	err := r.DB.WithContext(ctx).
		Table(savingsGoalsTable+" AS g").
		Select("g.*").
		Joins("JOIN "+categoriesTable+" c ON c.id = g.category_id").
		Where("g.owner_id = ? AND c.name ILIKE ?", ownerID.String(), "%"+escapeLike(text)+"%").
		Order("g.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]*savings.Goal, 0, len(rows))
	for i := range rows {
		g, err := toDomainSavingsGoal(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *SavingsRepository) CountGoalsByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error) {
	var count int64
	if err := r.goals(ctx).Where("owner_id = ?", ownerID.String()).Count(&count).Error; err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}

func (r *SavingsRepository) SaveGoal(ctx context.Context, g *savings.Goal) error {
	if g.Version == 0 {
		row := toDBSavingsGoal(g)
		row.Version = 1
		if err := r.goals(ctx).Create(row).Error; err != nil {
			return appErrors.NewDatabaseError(err)
		}
		g.Version = 1
		return nil
	}

	result := r.goals(ctx).
		Where("id = ? AND version = ?", g.Id.String(), g.Version).
		Updates(map[string]interface{}{
			"category_id":        g.CategoryId.String(),
			"description":        g.Description,
			"target_amount":      g.TargetAmount,
			"accumulated_amount": g.AccumulatedAmount,
			"frequency":          string(g.Frequency),
			"target_date":        pkg.NewDate(g.TargetDate),
			"installment_count":  g.InstallmentCount,
			"status":             string(g.Status),
			"version":            g.Version + 1,
			"updated_at":         g.UpdatedAt,
		})
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrConcurrentModification
	}
	g.Version++
	return nil
}

func (r *SavingsRepository) DeleteGoal(ctx context.Context, g *savings.Goal) error {
	result := r.goals(ctx).Where("id = ? AND version = ?", g.Id.String(), g.Version).Delete(&savingsGoalDB{})
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrConcurrentModification
	}
	return nil
}

func (r *SavingsRepository) ListInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) ([]*savings.Installment, error) {
	var rows []savingsInstallmentDB
	if err := r.installments(ctx).Where("goal_id = ?", goalID.String()).Order("due_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]*savings.Installment, 0, len(rows))
	for i := range rows {
		inst, err := toDomainInstallment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func (r *SavingsRepository) FindInstallmentByIDAndGoal(ctx context.Context, id, goalID ulid.ULID) (*savings.Installment, error) {
	var row savingsInstallmentDB
	if err := r.installments(ctx).Where("id = ? AND goal_id = ?", id.String(), goalID.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrInstallmentNotFound.WithError(err)
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return toDomainInstallment(&row)
}

func (r *SavingsRepository) CountInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) (int64, error) {
	var count int64
	if err := r.installments(ctx).Where("goal_id = ?", goalID.String()).Count(&count).Error; err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}

// SaveInstallments faz upsert por id. A data de registro nunca é reescrita.
func (r *SavingsRepository) SaveInstallments(ctx context.Context, installments []*savings.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	rows := make([]*savingsInstallmentDB, 0, len(installments))
	for _, inst := range installments {
		rows = append(rows, toDBInstallment(inst))
	}

	err := r.installments(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"assigned_amount", "contributed_amount", "due_date", "status", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *SavingsRepository) DeleteInstallments(ctx context.Context, installments []*savings.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	ids := make([]string, 0, len(installments))
	for _, inst := range installments {
		ids = append(ids, inst.Id.String())
	}
	if err := r.installments(ctx).Where("id IN ?", ids).Delete(&savingsInstallmentDB{}).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
