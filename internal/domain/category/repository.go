package category

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id ulid.ULID) (*Category, error)
	GetByName(ctx context.Context, kind Kind, name string) (*Category, error)
	List(ctx context.Context, kind *Kind) ([]*Category, error)
}
