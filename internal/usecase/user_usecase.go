package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"catalog_service/internal/domain"
	"catalog_service/internal/dto"
)

type UserUseCase interface {
	FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.UserDTO], error)
	FindByID(ctx context.Context, id int64) (dto.UserDTO, error)
	Insert(ctx context.Context, d dto.UserInsertDTO) (dto.UserDTO, error)
	Update(ctx context.Context, id int64, d dto.UserDTO) (dto.UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type userUseCase struct {
	users      domain.UserRepository
	bcryptCost int
	log        *logrus.Logger
}

func NewUserUseCase(users domain.UserRepository, bcryptCost int, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		users:      users,
		bcryptCost: bcryptCost,
		log:        logger,
	}
}

func (uc *userUseCase) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.UserDTO], error) {
	page, err := uc.users.FindAllPaged(ctx, spec)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list users: %v", err)
		return nil, err
	}
	return domain.MapPage(page, func(u domain.User) dto.UserDTO {
		return dto.NewUserDTO(&u)
	}), nil
}

func (uc *userUseCase) FindByID(ctx context.Context, id int64) (dto.UserDTO, error) {
	entity, err := uc.users.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get user ID %d: %v", id, err)
		return dto.UserDTO{}, err
	}
	return dto.NewUserDTO(entity), nil
}

// Insert validates email availability against the committed state, hashes the
// plaintext password and persists the new user with its role set.
func (uc *userUseCase) Insert(ctx context.Context, d dto.UserInsertDTO) (dto.UserDTO, error) {
	taken, err := uc.users.ExistsByEmail(ctx, d.Email)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to check email availability for %s: %v", d.Email, err)
		return dto.UserDTO{}, err
	}
	if taken {
		uc.log.Warnf("Use Case: Attempted to register duplicate email: %s", d.Email)
		return dto.UserDTO{}, &domain.ValidationError{Field: "email", Message: "email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), uc.bcryptCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", d.Email, err)
		return dto.UserDTO{}, fmt.Errorf("internal error processing password: %w", err)
	}

	entity := &domain.User{}
	applyUserDTO(d.UserDTO, entity)
	entity.PasswordHash = string(hash)

	saved, err := uc.users.Save(ctx, entity)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to insert user %s: %v", d.Email, err)
		return dto.UserDTO{}, err
	}

	uc.log.Infof("Use Case: User inserted with ID %d", saved.ID)
	return dto.NewUserDTO(saved), nil
}

// Update does not re-check email availability; the unique index on
// users.email still rejects a duplicate at commit time.
func (uc *userUseCase) Update(ctx context.Context, id int64, d dto.UserDTO) (dto.UserDTO, error) {
	entity := &domain.User{ID: id}
	applyUserDTO(d, entity)

	saved, err := uc.users.Save(ctx, entity)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update user ID %d: %v", id, err)
		return dto.UserDTO{}, err
	}

	uc.log.Infof("Use Case: User updated with ID %d", saved.ID)
	return dto.NewUserDTO(saved), nil
}

func (uc *userUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.users.DeleteByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete user ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: User deleted with ID %d", id)
	return nil
}

// applyUserDTO copies the scalar fields and replaces the role membership with
// the requested id set. The password hash is never touched here; the insert
// path sets it separately.
func applyUserDTO(d dto.UserDTO, entity *domain.User) {
	entity.FirstName = d.FirstName
	entity.LastName = d.LastName
	entity.Email = d.Email

	entity.Roles = entity.Roles[:0]
	seen := make(map[int64]bool, len(d.Roles))
	for _, role := range d.Roles {
		if seen[role.ID] {
			continue
		}
		seen[role.ID] = true
		entity.Roles = append(entity.Roles, domain.Role{ID: role.ID})
	}
}
