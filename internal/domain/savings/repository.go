package savings

import (
	"context"

	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// Repository persists goals and their installments. Lookups by owner return
// ErrSavingsGoalNotFound both when the goal is missing and when it belongs to
// someone else.
type Repository interface {
	FindGoalByIDAndOwner(ctx context.Context, id, ownerID ulid.ULID) (*Goal, error)
	ListGoalsByOwner(ctx context.Context, ownerID ulid.ULID, filters *GoalFilters, pagination *pkg.PaginationParams) ([]*Goal, int64, error)
	SearchGoalsByCategoryName(ctx context.Context, ownerID ulid.ULID, text string) ([]*Goal, error)
	CountGoalsByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error)
	// SaveGoal inserts a goal with Version 0 and updates it otherwise. Updates
	// only apply when the stored version still matches and fail with
	// ErrConcurrentModification when it does not. The version is bumped in place.
	SaveGoal(ctx context.Context, goal *Goal) error
	DeleteGoal(ctx context.Context, goal *Goal) error

	ListInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) ([]*Installment, error)
	FindInstallmentByIDAndGoal(ctx context.Context, id, goalID ulid.ULID) (*Installment, error)
	CountInstallmentsByGoal(ctx context.Context, goalID ulid.ULID) (int64, error)
	SaveInstallments(ctx context.Context, installments []*Installment) error
	DeleteInstallments(ctx context.Context, installments []*Installment) error
}

// TxManager runs fn inside one database transaction with a Repository bound to
// it. The whole closure is retried when a concurrent modification is detected.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

// CategoryRef is the slice of a category the savings domain cares about.
type CategoryRef struct {
	Id   ulid.ULID
	Name string
	Kind string
}

type CategoryValidator interface {
	// ValidateSavingsCategory fails with a validation error when the category
	// does not exist or is not of kind SAVINGS.
	ValidateSavingsCategory(ctx context.Context, categoryID ulid.ULID) (*CategoryRef, error)
	GetCategoryRef(ctx context.Context, categoryID ulid.ULID) (*CategoryRef, error)
}
