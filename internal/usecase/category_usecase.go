package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
	"catalog_service/internal/dto"
)

type CategoryUseCase interface {
	FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.CategoryDTO], error)
	FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error)
	Insert(ctx context.Context, d dto.CategoryDTO) (dto.CategoryDTO, error)
	Update(ctx context.Context, id int64, d dto.CategoryDTO) (dto.CategoryDTO, error)
	Delete(ctx context.Context, id int64) error
}

type categoryUseCase struct {
	categories domain.CategoryRepository
	log        *logrus.Logger
}

func NewCategoryUseCase(categories domain.CategoryRepository, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		categories: categories,
		log:        logger,
	}
}

func (uc *categoryUseCase) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.CategoryDTO], error) {
	page, err := uc.categories.FindAllPaged(ctx, spec)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list categories: %v", err)
		return nil, err
	}
	return domain.MapPage(page, func(c domain.Category) dto.CategoryDTO {
		return dto.NewCategoryDTO(&c)
	}), nil
}

func (uc *categoryUseCase) FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error) {
	entity, err := uc.categories.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get category ID %d: %v", id, err)
		return dto.CategoryDTO{}, err
	}
	return dto.NewCategoryDTO(entity), nil
}

func (uc *categoryUseCase) Insert(ctx context.Context, d dto.CategoryDTO) (dto.CategoryDTO, error) {
	entity := &domain.Category{}
	applyCategoryDTO(d, entity)

	saved, err := uc.categories.Save(ctx, entity)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to insert category '%s': %v", d.Name, err)
		return dto.CategoryDTO{}, err
	}

	uc.log.Infof("Use Case: Category inserted with ID %d", saved.ID)
	return dto.NewCategoryDTO(saved), nil
}

// Update mutates a lightweight handle carrying only the identity; the
// repository verifies existence when the change is flushed, so an absent id
// fails with NotFoundError without a prior read.
func (uc *categoryUseCase) Update(ctx context.Context, id int64, d dto.CategoryDTO) (dto.CategoryDTO, error) {
	entity := &domain.Category{ID: id}
	applyCategoryDTO(d, entity)

	saved, err := uc.categories.Save(ctx, entity)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update category ID %d: %v", id, err)
		return dto.CategoryDTO{}, err
	}

	uc.log.Infof("Use Case: Category updated with ID %d", saved.ID)
	return dto.NewCategoryDTO(saved), nil
}

func (uc *categoryUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.categories.DeleteByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete category ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Category deleted with ID %d", id)
	return nil
}

// applyCategoryDTO copies every field owned by the transfer shape onto the
// entity; identity is left untouched.
func applyCategoryDTO(d dto.CategoryDTO, entity *domain.Category) {
	entity.Name = d.Name
}
