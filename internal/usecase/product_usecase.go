package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"catalog_service/internal/domain"
	"catalog_service/internal/dto"
)

type ProductUseCase interface {
	FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.ProductDTO], error)
	FindByID(ctx context.Context, id int64) (dto.ProductDTO, error)
	Insert(ctx context.Context, d dto.ProductDTO) (dto.ProductDTO, error)
	Update(ctx context.Context, id int64, d dto.ProductDTO) (dto.ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type productUseCase struct {
	products domain.ProductRepository
	log      *logrus.Logger
}

func NewProductUseCase(products domain.ProductRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		products: products,
		log:      logger,
	}
}

// FindAllPaged projects scalar fields only; listings never fetch the
// category membership.
func (uc *productUseCase) FindAllPaged(ctx context.Context, spec domain.PageSpec) (*domain.Page[dto.ProductDTO], error) {
	page, err := uc.products.FindAllPaged(ctx, spec)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list products: %v", err)
		return nil, err
	}
	return domain.MapPage(page, func(p domain.Product) dto.ProductDTO {
		return dto.NewProductDTO(&p)
	}), nil
}

func (uc *productUseCase) FindByID(ctx context.Context, id int64) (dto.ProductDTO, error) {
	entity, err := uc.products.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get product ID %d: %v", id, err)
		return dto.ProductDTO{}, err
	}
	return dto.NewProductWithCategoriesDTO(entity), nil
}

func (uc *productUseCase) Insert(ctx context.Context, d dto.ProductDTO) (dto.ProductDTO, error) {
	entity := &domain.Product{}
	applyProductDTO(d, entity)

	saved, err := uc.products.Save(ctx, entity)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to insert product '%s': %v", d.Name, err)
		return dto.ProductDTO{}, err
	}

	uc.log.Infof("Use Case: Product inserted with ID %d", saved.ID)
	return dto.NewProductWithCategoriesDTO(saved), nil
}

func (uc *productUseCase) Update(ctx context.Context, id int64, d dto.ProductDTO) (dto.ProductDTO, error) {
	entity := &domain.Product{ID: id}
	applyProductDTO(d, entity)

	saved, err := uc.products.Save(ctx, entity)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update product ID %d: %v", id, err)
		return dto.ProductDTO{}, err
	}

	uc.log.Infof("Use Case: Product updated with ID %d", saved.ID)
	return dto.NewProductWithCategoriesDTO(saved), nil
}

func (uc *productUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.products.DeleteByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete product ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted with ID %d", id)
	return nil
}

// applyProductDTO copies the scalar fields verbatim and replaces the category
// membership with the requested id set. Ids are carried as lightweight
// references; whether they point at live rows is settled when the save
// flushes the join rows.
func applyProductDTO(d dto.ProductDTO, entity *domain.Product) {
	entity.Name = d.Name
	entity.Description = d.Description
	entity.Price = d.Price
	entity.ImgURL = d.ImgURL
	entity.Date = d.Date

	entity.Categories = entity.Categories[:0]
	seen := make(map[int64]bool, len(d.Categories))
	for _, cat := range d.Categories {
		if seen[cat.ID] {
			continue
		}
		seen[cat.ID] = true
		entity.Categories = append(entity.Categories, domain.Category{ID: cat.ID})
	}
}
