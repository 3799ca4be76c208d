package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImgURL      string
	Date        time.Time
	// Categories is an owned association: Save replaces the persisted
	// membership with exactly this set, it never merges.
	Categories []Category
}

type ProductRepository interface {
	// FindByID loads the product together with its categories.
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindAllPaged loads scalar fields only; categories are not fetched
	// for listings.
	FindAllPaged(ctx context.Context, spec PageSpec) (*Page[Product], error)
	// Save persists the product and rewrites the category membership in one
	// transaction. A category id with no backing row fails the whole save
	// with NotFoundError naming that id.
	Save(ctx context.Context, product *Product) (*Product, error)
	// DeleteByID removes the product and its category membership atomically.
	DeleteByID(ctx context.Context, id int64) error
}
