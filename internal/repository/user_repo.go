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

var userSortColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
}

type postgresUserRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresUserRepository(conn *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		db:  conn,
		log: logger,
	}
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
        SELECT id, first_name, last_name, email, password_hash
        FROM users
        WHERE id = $1`
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, &domain.NotFoundError{Entity: "user", ID: id}
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, &domain.StorageError{Op: "find user by id", Err: err}
	}

	roles, err := r.loadRoles(ctx, r.db, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
        SELECT id, first_name, last_name, email, password_hash
        FROM users
        WHERE email = $1`
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with email %s not found", email)
			return nil, &domain.NotFoundError{Entity: "user"}
		}
		r.log.Errorf("Repository: Failed to get user by email %s: %v", email, err)
		return nil, &domain.StorageError{Op: "find user by email", Err: err}
	}

	roles, err := r.loadRoles(ctx, r.db, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

func (r *postgresUserRepository) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[domain.User], error) {
	orderBy, err := orderByClause(spec, userSortColumns)
	if err != nil {
		return nil, err
	}
	limit, offset := limitOffset(spec)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		r.log.Errorf("Repository: Failed to count users: %v", err)
		return nil, &domain.StorageError{Op: "count users", Err: err}
	}

	query := fmt.Sprintf(`
        SELECT id, first_name, last_name, email, password_hash
        FROM users
        %s
        LIMIT $1 OFFSET $2`, orderBy)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list users: %v", err)
		return nil, &domain.StorageError{Op: "list users", Err: err}
	}
	defer rows.Close()

	users := []domain.User{}
	ids := []int64{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.PasswordHash,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan user row: %v", err)
			return nil, &domain.StorageError{Op: "scan user", Err: err}
		}
		users = append(users, user)
		ids = append(ids, user.ID)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during users iteration: %v", err)
		return nil, &domain.StorageError{Op: "iterate users", Err: err}
	}

	if err := r.attachRoles(ctx, users, ids); err != nil {
		return nil, err
	}

	return &domain.Page[domain.User]{
		Items:      users,
		TotalCount: total,
		Page:       spec.Page,
		Size:       limit,
	}, nil
}

// attachRoles loads the roles of every user on the page with a single query.
func (r *postgresUserRepository) attachRoles(ctx context.Context, users []domain.User, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
        SELECT ur.user_id, r.id, r.authority
        FROM roles r
        JOIN user_role ur ON ur.role_id = r.id
        WHERE ur.user_id = ANY($1)
        ORDER BY r.id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.log.Errorf("Repository: Failed to load roles for user page: %v", err)
		return &domain.StorageError{Op: "load user roles", Err: err}
	}
	defer rows.Close()

	rolesByUser := make(map[int64][]domain.Role, len(ids))
	for rows.Next() {
		var userID int64
		var role domain.Role
		if err := rows.Scan(&userID, &role.ID, &role.Authority); err != nil {
			return &domain.StorageError{Op: "scan user role", Err: err}
		}
		rolesByUser[userID] = append(rolesByUser[userID], role)
	}
	if err := rows.Err(); err != nil {
		return &domain.StorageError{Op: "iterate user roles", Err: err}
	}

	for i := range users {
		users[i].Roles = rolesByUser[users[i].ID]
	}
	return nil
}

// Save writes the user row and rewrites the role membership in one
// transaction. The password hash is only written on insert; updates leave the
// stored hash untouched.
func (r *postgresUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := db.WithinTx(ctx, r.db, func(tx *sql.Tx) error {
		if user.ID == 0 {
			query := `
                INSERT INTO users (first_name, last_name, email, password_hash)
                VALUES ($1, $2, $3, $4)
                RETURNING id`
			if err := tx.QueryRowContext(ctx, query,
				user.FirstName, user.LastName, user.Email, user.PasswordHash,
			).Scan(&user.ID); err != nil {
				if isUniqueViolation(err) {
					r.log.Warnf("Repository: Attempted to create user with duplicate email: %s", user.Email)
					return &domain.ValidationError{Field: "email", Message: "email already exists"}
				}
				r.log.Errorf("Repository: Failed to create user '%s': %v", user.Email, err)
				return &domain.StorageError{Op: "insert user", Err: err}
			}
		} else {
			query := `
                UPDATE users
                SET first_name = $1, last_name = $2, email = $3
                WHERE id = $4
                RETURNING id`
			err := tx.QueryRowContext(ctx, query,
				user.FirstName, user.LastName, user.Email, user.ID,
			).Scan(&user.ID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					r.log.Warnf("Repository: User with ID %d not found for update", user.ID)
					return &domain.NotFoundError{Entity: "user", ID: user.ID}
				}
				if isUniqueViolation(err) {
					r.log.Warnf("Repository: Attempted to update user ID %d to duplicate email: %s", user.ID, user.Email)
					return &domain.ValidationError{Field: "email", Message: "email already exists"}
				}
				r.log.Errorf("Repository: Failed to update user ID %d: %v", user.ID, err)
				return &domain.StorageError{Op: "update user", Err: err}
			}
		}

		if err := r.replaceRoles(ctx, tx, user); err != nil {
			return err
		}

		roles, err := r.loadRoles(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		user.Roles = roles
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Infof("Repository: User saved with ID %d (%d roles)", user.ID, len(user.Roles))
	return user, nil
}

func (r *postgresUserRepository) replaceRoles(ctx context.Context, tx *sql.Tx, user *domain.User) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_role WHERE user_id = $1`, user.ID); err != nil {
		r.log.Errorf("Repository: Failed to clear roles for user ID %d: %v", user.ID, err)
		return &domain.StorageError{Op: "clear user roles", Err: err}
	}

	if len(user.Roles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(user.Roles))
	for _, role := range user.Roles {
		ids = append(ids, role.ID)
	}

	query := `
        INSERT INTO user_role (user_id, role_id)
        SELECT $1, unnest($2::bigint[])`
	if _, err := tx.ExecContext(ctx, query, user.ID, pq.Array(ids)); err != nil {
		if missingID, ok := missingRefID(err); ok {
			r.log.Warnf("Repository: User ID %d references non-existent role ID %d", user.ID, missingID)
			return &domain.NotFoundError{Entity: "role", ID: missingID}
		}
		r.log.Errorf("Repository: Failed to rewrite roles for user ID %d: %v", user.ID, err)
		return &domain.StorageError{Op: "rewrite user roles", Err: err}
	}
	return nil
}

func (r *postgresUserRepository) loadRoles(ctx context.Context, q querier, userID int64) ([]domain.Role, error) {
	query := `
        SELECT r.id, r.authority
        FROM roles r
        JOIN user_role ur ON ur.role_id = r.id
        WHERE ur.user_id = $1
        ORDER BY r.id ASC`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to load roles for user ID %d: %v", userID, err)
		return nil, &domain.StorageError{Op: "load user roles", Err: err}
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Authority); err != nil {
			return nil, &domain.StorageError{Op: "scan user role", Err: err}
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate user roles", Err: err}
	}
	return roles, nil
}

func (r *postgresUserRepository) DeleteByID(ctx context.Context, id int64) error {
	err := db.WithinTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_role WHERE user_id = $1`, id); err != nil {
			r.log.Errorf("Repository: Failed to clear roles while deleting user ID %d: %v", id, err)
			return &domain.StorageError{Op: "clear user roles", Err: err}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				r.log.Warnf("Repository: User ID %d is still referenced, delete denied", id)
				return &domain.ConflictError{Entity: "user", ID: id}
			}
			r.log.Errorf("Repository: Failed to delete user ID %d: %v", id, err)
			return &domain.StorageError{Op: "delete user", Err: err}
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return &domain.StorageError{Op: "confirm user delete", Err: err}
		}
		if rowsAffected == 0 {
			r.log.Warnf("Repository: Attempted to delete non-existent user ID %d", id)
			return &domain.NotFoundError{Entity: "user", ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Infof("Repository: User deleted with ID %d", id)
	return nil
}

func (r *postgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		r.log.Errorf("Repository: Failed to check email existence for %s: %v", email, err)
		return false, &domain.StorageError{Op: "check email existence", Err: err}
	}
	return exists, nil
}
