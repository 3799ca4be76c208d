package domain

import "context"

type Role struct {
	ID        int64
	Authority string
}

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	// Roles is an owned association, fully replaced on Save like
	// Product.Categories.
	Roles []Role
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllPaged(ctx context.Context, spec PageSpec) (*Page[User], error)
	Save(ctx context.Context, user *User) (*User, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
