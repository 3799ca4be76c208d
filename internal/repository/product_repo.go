package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
	"catalog_service/pkg/db"
)

var productSortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"price":       "price",
	"date":        "date",
}

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(conn *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  conn,
		log: logger,
	}
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
        SELECT id, name, description, price, img_url, date
        FROM products
        WHERE id = $1`
	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImgURL,
		&product.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, &domain.NotFoundError{Entity: "product", ID: id}
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, &domain.StorageError{Op: "find product by id", Err: err}
	}

	categories, err := r.loadCategories(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	product.Categories = categories
	return product, nil
}

func (r *postgresProductRepository) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[domain.Product], error) {
	orderBy, err := orderByClause(spec, productSortColumns)
	if err != nil {
		return nil, err
	}
	limit, offset := limitOffset(spec)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		r.log.Errorf("Repository: Failed to count products: %v", err)
		return nil, &domain.StorageError{Op: "count products", Err: err}
	}

	query := fmt.Sprintf(`
        SELECT id, name, description, price, img_url, date
        FROM products
        %s
        LIMIT $1 OFFSET $2`, orderBy)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, &domain.StorageError{Op: "list products", Err: err}
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.ImgURL,
			&product.Date,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, &domain.StorageError{Op: "scan product", Err: err}
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products iteration: %v", err)
		return nil, &domain.StorageError{Op: "iterate products", Err: err}
	}

	return &domain.Page[domain.Product]{
		Items:      products,
		TotalCount: total,
		Page:       spec.Page,
		Size:       limit,
	}, nil
}

// Save writes the product row and rewrites its category membership inside one
// transaction. Category ids are not resolved up front: the join-table insert
// carries the foreign-key check, so a dangling id fails the whole transaction
// at flush and is reported as NotFoundError for that id.
func (r *postgresProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	err := db.WithinTx(ctx, r.db, func(tx *sql.Tx) error {
		if product.ID == 0 {
			query := `
                INSERT INTO products (name, description, price, img_url, date)
                VALUES ($1, $2, $3, $4, $5)
                RETURNING id`
			if err := tx.QueryRowContext(ctx, query,
				product.Name, product.Description, product.Price, product.ImgURL, product.Date,
			).Scan(&product.ID); err != nil {
				r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
				return &domain.StorageError{Op: "insert product", Err: err}
			}
		} else {
			query := `
                UPDATE products
                SET name = $1, description = $2, price = $3, img_url = $4, date = $5
                WHERE id = $6
                RETURNING id`
			err := tx.QueryRowContext(ctx, query,
				product.Name, product.Description, product.Price, product.ImgURL, product.Date, product.ID,
			).Scan(&product.ID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					r.log.Warnf("Repository: Product with ID %d not found for update", product.ID)
					return &domain.NotFoundError{Entity: "product", ID: product.ID}
				}
				r.log.Errorf("Repository: Failed to update product ID %d: %v", product.ID, err)
				return &domain.StorageError{Op: "update product", Err: err}
			}
		}

		if err := r.replaceCategories(ctx, tx, product); err != nil {
			return err
		}

		categories, err := r.loadCategories(ctx, tx, product.ID)
		if err != nil {
			return err
		}
		product.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Product saved with ID %d (%d categories)", product.ID, len(product.Categories))
	return product, nil
}

// replaceCategories drops the current membership and inserts the requested
// set, so the persisted association always reflects exactly what the caller
// asked for.
func (r *postgresProductRepository) replaceCategories(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_category WHERE product_id = $1`, product.ID); err != nil {
		r.log.Errorf("Repository: Failed to clear categories for product ID %d: %v", product.ID, err)
		return &domain.StorageError{Op: "clear product categories", Err: err}
	}

	if len(product.Categories) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(product.Categories))
	for _, category := range product.Categories {
		ids = append(ids, category.ID)
	}

	query := `
        INSERT INTO product_category (product_id, category_id)
        SELECT $1, unnest($2::bigint[])`
	if _, err := tx.ExecContext(ctx, query, product.ID, pq.Array(ids)); err != nil {
		if missingID, ok := missingRefID(err); ok {
			r.log.Warnf("Repository: Product ID %d references non-existent category ID %d", product.ID, missingID)
			return &domain.NotFoundError{Entity: "category", ID: missingID}
		}
		r.log.Errorf("Repository: Failed to rewrite categories for product ID %d: %v", product.ID, err)
		return &domain.StorageError{Op: "rewrite product categories", Err: err}
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *postgresProductRepository) loadCategories(ctx context.Context, q querier, productID int64) ([]domain.Category, error) {
	query := `
        SELECT c.id, c.name
        FROM categories c
        JOIN product_category pc ON pc.category_id = c.id
        WHERE pc.product_id = $1
        ORDER BY c.id ASC`
	rows, err := q.QueryContext(ctx, query, productID)
	if err != nil {
		r.log.Errorf("Repository: Failed to load categories for product ID %d: %v", productID, err)
		return nil, &domain.StorageError{Op: "load product categories", Err: err}
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			r.log.Errorf("Repository: Failed to scan category row for product ID %d: %v", productID, err)
			return nil, &domain.StorageError{Op: "scan product category", Err: err}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate product categories", Err: err}
	}
	return categories, nil
}

// DeleteByID removes the product row together with its owned association
// rows, or nothing at all.
func (r *postgresProductRepository) DeleteByID(ctx context.Context, id int64) error {
	err := db.WithinTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_category WHERE product_id = $1`, id); err != nil {
			r.log.Errorf("Repository: Failed to clear categories while deleting product ID %d: %v", id, err)
			return &domain.StorageError{Op: "clear product categories", Err: err}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				r.log.Warnf("Repository: Product ID %d is still referenced, delete denied", id)
				return &domain.ConflictError{Entity: "product", ID: id}
			}
			r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
			return &domain.StorageError{Op: "delete product", Err: err}
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return &domain.StorageError{Op: "confirm product delete", Err: err}
		}
		if rowsAffected == 0 {
			r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Infof("Repository: Product deleted with ID %d", id)
	return nil
}
