package savings_test

import (
	"context"
	"sort"
	"strings"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// memoryRepository keeps copies of what it stores so callers cannot mutate
// persisted state without saving it.
type memoryRepository struct {
	goals         map[ulid.ULID]savings.Goal
	installments  map[ulid.ULID]savings.Installment
	categoryNames map[ulid.ULID]string

	saveGoalFn func(ctx context.Context, goal *savings.Goal) error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		goals:         map[ulid.ULID]savings.Goal{},
		installments:  map[ulid.ULID]savings.Installment{},
		categoryNames: map[ulid.ULID]string{},
	}
}

func (r *memoryRepository) FindGoalByIDAndOwner(ctx context.Context, id, ownerID ulid.ULID) (*savings.Goal, error) {
	goal, ok := r.goals[id]
	if !ok || goal.OwnerId != ownerID {
		return nil, appErrors.ErrSavingsGoalNotFound
	}
	return &goal, nil
}

func (r *memoryRepository) ListGoalsByOwner(ctx context.Context, ownerID ulid.ULID, filters *savings.GoalFilters, pagination *pkg.PaginationParams) ([]*savings.Goal, int64, error) {
	var out []*savings.Goal
	for _, g := range r.goals {
		goal := g
		if goal.OwnerId != ownerID {
			continue
		}
		if filters != nil && filters.Status != nil && goal.Status != *filters.Status {
			continue
		}
		out = append(out, &goal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memoryRepository) SearchGoalsByCategoryName(ctx context.Context, ownerID ulid.ULID, text string) ([]*savings.Goal, error) {
	var out []*savings.Goal
	for _, g := range r.goals {
		goal := g
		name := strings.ToLower(r.categoryNames[goal.CategoryId])
		if goal.OwnerId == ownerID && strings.Contains(name, strings.ToLower(text)) {
			out = append(out, &goal)
		}
	}
	return out, nil
}

func (r *memoryRepository) CountGoalsByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error) {
	var n int64
	for _, goal := range r.goals {
		if goal.OwnerId == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) SaveGoal(ctx context.Context, goal *savings.Goal) error {
	if r.saveGoalFn != nil {
		if err := r.saveGoalFn(ctx, goal); err != nil {
			return err
		}
	}
	if goal.Version == 0 {
		goal.Version = 1
		r.goals[goal.Id] = *goal
		return nil
	}
	stored, ok := r.goals[goal.Id]
	if !ok || stored.Version != goal.Version {
		return appErrors.ErrConcurrentModification
	}
	goal.Version++
	r.goals[goal.Id] = *goal
	return nil
}

func (r *memoryRepository) DeleteGoal(ctx context.Context, goal *savings.Goal) error {
	delete(r.goals, goal.Id)
	return nil
}

func (r *memoryRepository) ListInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) ([]*savings.Installment, error) {
	out := []*savings.Installment{}
	for _, i := range r.installments {
		inst := i
		if inst.GoalId == goalID {
			out = append(out, &inst)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueDate.Before(out[b].DueDate) })
	return out, nil
}

func (r *memoryRepository) FindInstallmentByIDAndGoal(ctx context.Context, id, goalID ulid.ULID) (*savings.Installment, error) {
	inst, ok := r.installments[id]
	if !ok || inst.GoalId != goalID {
		return nil, appErrors.ErrInstallmentNotFound
	}
	return &inst, nil
}

func (r *memoryRepository) CountInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) (int64, error) {
	list, _ := r.ListInstallmentsByGoal(ctx, goalID)
	return int64(len(list)), nil
}

func (r *memoryRepository) SaveInstallments(ctx context.Context, installments []*savings.Installment) error {
	for _, inst := range installments {
		r.installments[inst.Id] = *inst
	}
	return nil
}

func (r *memoryRepository) DeleteInstallments(ctx context.Context, installments []*savings.Installment) error {
	for _, inst := range installments {
		delete(r.installments, inst.Id)
	}
	return nil
}

// storedInstallments returns the persisted installments of a goal ordered by due date.
func (r *memoryRepository) storedInstallments(goalID ulid.ULID) []*savings.Installment {
	list, _ := r.ListInstallmentsByGoal(context.Background(), goalID)
	return list
}

// directTxManager runs the closure against the memory repository, restoring
// its previous state when the closure fails, and retries on concurrent
// modification like the database-backed manager.
type directTxManager struct {
	repo     *memoryRepository
	attempts int
	calls    int
}

func (m *directTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo savings.Repository) error) error {
	attempts := m.attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.calls++
		goals, installments := m.repo.snapshot()
		err = fn(ctx, m.repo)
		if err == nil {
			return nil
		}
		m.repo.goals, m.repo.installments = goals, installments
		if !appErrors.IsConcurrentModification(err) {
			return err
		}
	}
	return err
}

func (r *memoryRepository) snapshot() (map[ulid.ULID]savings.Goal, map[ulid.ULID]savings.Installment) {
	goals := make(map[ulid.ULID]savings.Goal, len(r.goals))
	for k, v := range r.goals {
		goals[k] = v
	}
	installments := make(map[ulid.ULID]savings.Installment, len(r.installments))
	for k, v := range r.installments {
		installments[k] = v
	}
	return goals, installments
}

type fakeCategoryValidator struct {
	validateFn func(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error)
	getRefFn   func(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error)
	calls      int
}

func (f *fakeCategoryValidator) ValidateSavingsCategory(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
	f.calls++
	if f.validateFn != nil {
		return f.validateFn(ctx, categoryID)
	}
	return &savings.CategoryRef{Id: categoryID, Name: "Viagem", Kind: "SAVINGS"}, nil
}

func (f *fakeCategoryValidator) GetCategoryRef(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
	if f.getRefFn != nil {
		return f.getRefFn(ctx, categoryID)
	}
	return &savings.CategoryRef{Id: categoryID, Name: "Viagem", Kind: "SAVINGS"}, nil
}
