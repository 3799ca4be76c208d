package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
)

var categorySortColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = $1`
	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found", id)
			return nil, &domain.NotFoundError{Entity: "category", ID: id}
		}
		r.log.Errorf("Repository: Failed to get category by ID %d: %v", id, err)
		return nil, &domain.StorageError{Op: "find category by id", Err: err}
	}
	return category, nil
}

func (r *postgresCategoryRepository) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[domain.Category], error) {
	orderBy, err := orderByClause(spec, categorySortColumns)
	if err != nil {
		return nil, err
	}
	limit, offset := limitOffset(spec)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		r.log.Errorf("Repository: Failed to count categories: %v", err)
		return nil, &domain.StorageError{Op: "count categories", Err: err}
	}

	query := fmt.Sprintf(`SELECT id, name FROM categories %s LIMIT $1 OFFSET $2`, orderBy)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, &domain.StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, &domain.StorageError{Op: "scan category", Err: err}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during categories iteration: %v", err)
		return nil, &domain.StorageError{Op: "iterate categories", Err: err}
	}

	return &domain.Page[domain.Category]{
		Items:      categories,
		TotalCount: total,
		Page:       spec.Page,
		Size:       limit,
	}, nil
}

func (r *postgresCategoryRepository) Save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.ID == 0 {
		return r.insert(ctx, category)
	}
	return r.update(ctx, category)
}

func (r *postgresCategoryRepository) insert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, category.Name).Scan(&category.ID); err != nil {
		r.log.Errorf("Repository: Failed to create category '%s': %v", category.Name, err)
		return nil, &domain.StorageError{Op: "insert category", Err: err}
	}
	r.log.Infof("Repository: Category created with ID %d", category.ID)
	return category, nil
}

func (r *postgresCategoryRepository) update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	// Existence is verified by the row count of the update itself; an absent
	// id never turns into an insert.
	query := `UPDATE categories SET name = $1 WHERE id = $2 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, category.Name, category.ID).Scan(&category.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found for update", category.ID)
			return nil, &domain.NotFoundError{Entity: "category", ID: category.ID}
		}
		r.log.Errorf("Repository: Failed to update category ID %d: %v", category.ID, err)
		return nil, &domain.StorageError{Op: "update category", Err: err}
	}
	r.log.Infof("Repository: Category updated with ID %d", category.ID)
	return category, nil
}

func (r *postgresCategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.log.Warnf("Repository: Category ID %d is still referenced, delete denied", id)
			return &domain.ConflictError{Entity: "category", ID: id}
		}
		r.log.Errorf("Repository: Failed to delete category ID %d: %v", id, err)
		return &domain.StorageError{Op: "delete category", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting category ID %d: %v", id, err)
		return &domain.StorageError{Op: "confirm category delete", Err: err}
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent category ID %d", id)
		return &domain.NotFoundError{Entity: "category", ID: id}
	}

	r.log.Infof("Repository: Category deleted with ID %d", id)
	return nil
}
