// Package dto holds the transfer shapes exchanged with API clients. They
// mirror the entities minus internal-only fields: associated entities appear
// as {id, ...} projections, never as full nested aggregates, and the stored
// password hash is replaced by a plaintext password on the insert-only shape.
package dto

import (
	"time"

	"catalog_service/internal/domain"
)

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

type ProductDTO struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	ImgURL      string        `json:"imgUrl"`
	Date        time.Time     `json:"date"`
	Categories  []CategoryDTO `json:"categories"`
}

type UserDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Roles     []RoleDTO `json:"roles"`
}

// UserInsertDTO is the insert-only user shape: UserDTO plus the plaintext
// password, which is hashed before anything is persisted.
type UserInsertDTO struct {
	UserDTO
	Password string `json:"password"`
}

func NewCategoryDTO(entity *domain.Category) CategoryDTO {
	return CategoryDTO{ID: entity.ID, Name: entity.Name}
}

// NewProductDTO projects scalar fields only; listings do not carry the
// category membership.
func NewProductDTO(entity *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		ImgURL:      entity.ImgURL,
		Date:        entity.Date,
		Categories:  []CategoryDTO{},
	}
}

// NewProductWithCategoriesDTO additionally projects the category set.
func NewProductWithCategoriesDTO(entity *domain.Product) ProductDTO {
	d := NewProductDTO(entity)
	for _, cat := range entity.Categories {
		d.Categories = append(d.Categories, CategoryDTO{ID: cat.ID, Name: cat.Name})
	}
	return d
}

func NewUserDTO(entity *domain.User) UserDTO {
	d := UserDTO{
		ID:        entity.ID,
		FirstName: entity.FirstName,
		LastName:  entity.LastName,
		Email:     entity.Email,
		Roles:     []RoleDTO{},
	}
	for _, role := range entity.Roles {
		d.Roles = append(d.Roles, RoleDTO{ID: role.ID, Authority: role.Authority})
	}
	return d
}
