package domain

import "context"

type Category struct {
	ID   int64
	Name string
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindAllPaged(ctx context.Context, spec PageSpec) (*Page[Category], error)
	// Save inserts when the category carries no id and updates otherwise.
	// Updating an absent id fails with NotFoundError, never inserts.
	Save(ctx context.Context, category *Category) (*Category, error)
	// DeleteByID fails with NotFoundError when no row matches and with
	// ConflictError when products still reference the category.
	DeleteByID(ctx context.Context, id int64) error
}
