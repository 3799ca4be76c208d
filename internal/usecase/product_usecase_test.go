package usecase

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_service/internal/domain"
	"catalog_service/internal/dto"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeProductRepo implements domain.ProductRepository in memory with the same
// contract as the postgres implementation: updates of absent ids fail, saves
// rewrite the category membership, deletes of referenced rows conflict.
type fakeProductRepo struct {
	products   map[int64]domain.Product
	categories map[int64]string
	dependent  map[int64]bool
	nextID     int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   map[int64]domain.Product{},
		categories: map[int64]string{},
		dependent:  map[int64]bool{},
		nextID:     1,
	}
}

func (f *fakeProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	copied := product
	copied.Categories = append([]domain.Category(nil), product.Categories...)
	return &copied, nil
}

func (f *fakeProductRepo) FindAllPaged(_ context.Context, spec domain.PageSpec) (*domain.Page[domain.Product], error) {
	ids := make([]int64, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	size := spec.Size
	if size <= 0 {
		size = 10
	}
	start := spec.Page * size
	items := []domain.Product{}
	for i := start; i < start+size && i < len(ids); i++ {
		items = append(items, f.products[ids[i]])
	}
	return &domain.Page[domain.Product]{
		Items:      items,
		TotalCount: int64(len(ids)),
		Page:       spec.Page,
		Size:       size,
	}, nil
}

func (f *fakeProductRepo) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID == 0 {
		product.ID = f.nextID
		f.nextID++
	} else if _, ok := f.products[product.ID]; !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: product.ID}
	}

	resolved := make([]domain.Category, 0, len(product.Categories))
	for _, category := range product.Categories {
		name, ok := f.categories[category.ID]
		if !ok {
			return nil, &domain.NotFoundError{Entity: "category", ID: category.ID}
		}
		resolved = append(resolved, domain.Category{ID: category.ID, Name: name})
	}
	product.Categories = resolved

	stored := *product
	stored.Categories = append([]domain.Category(nil), resolved...)
	f.products[product.ID] = stored
	return product, nil
}

func (f *fakeProductRepo) DeleteByID(_ context.Context, id int64) error {
	if f.dependent[id] {
		return &domain.ConflictError{Entity: "product", ID: id}
	}
	if _, ok := f.products[id]; !ok {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	delete(f.products, id)
	return nil
}

func productDTOFixture() dto.ProductDTO {
	return dto.ProductDTO{
		Name:        "SmartPhone",
		Description: "Cool Phone",
		Price:       1000.0,
		ImgURL:      "https://img.com/img.png",
		Date:        time.Date(2022, 12, 23, 11, 0, 0, 0, time.UTC),
		Categories:  []dto.CategoryDTO{{ID: 2}},
	}
}

func TestProductUseCase_Insert_AssignsID(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	first, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)
	second, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "SmartPhone", first.Name)
	require.Len(t, first.Categories, 1)
	assert.Equal(t, "Electronics", first.Categories[0].Name)
}

func TestProductUseCase_Insert_UnknownCategoryFails(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, testLogger())

	_, err := uc.Insert(context.Background(), productDTOFixture())

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Entity)
	assert.Equal(t, int64(2), notFound.ID)
	assert.Empty(t, repo.products)
}

func TestProductUseCase_Update_PreservesIdentity(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	created, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)

	changed := productDTOFixture()
	changed.Name = "Tablet"
	changed.Price = 750.0
	updated, err := uc.Update(context.Background(), created.ID, changed)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Tablet", updated.Name)
	assert.Equal(t, 750.0, updated.Price)
}

func TestProductUseCase_Update_NonExistingIDFails(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	_, err := uc.Update(context.Background(), 9999, productDTOFixture())

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)
	assert.Equal(t, int64(9999), notFound.ID)
}

func TestProductUseCase_Update_ReplacesCategorySet(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	repo.categories[3] = "Books"
	uc := NewProductUseCase(repo, testLogger())

	created, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)

	changed := productDTOFixture()
	changed.Categories = []dto.CategoryDTO{{ID: 3}}
	updated, err := uc.Update(context.Background(), created.ID, changed)
	require.NoError(t, err)

	require.Len(t, updated.Categories, 1)
	assert.Equal(t, int64(3), updated.Categories[0].ID)

	// Replacing with the same set again yields the same membership.
	again, err := uc.Update(context.Background(), created.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, updated.Categories, again.Categories)
}

func TestProductUseCase_Update_DeduplicatesCategoryIDs(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	d := productDTOFixture()
	d.Categories = []dto.CategoryDTO{{ID: 2}, {ID: 2}, {ID: 2}}
	created, err := uc.Insert(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, created.Categories, 1)
	assert.Equal(t, int64(2), created.Categories[0].ID)
}

func TestProductUseCase_FindByID(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	created, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)

	found, err := uc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Categories, 1)
	assert.Equal(t, "Electronics", found.Categories[0].Name)

	_, err = uc.FindByID(context.Background(), 9999)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestProductUseCase_FindAllPaged(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	for i := 0; i < 25; i++ {
		_, err := uc.Insert(context.Background(), productDTOFixture())
		require.NoError(t, err)
	}

	page, err := uc.FindAllPaged(context.Background(), domain.PageSpec{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.TotalCount)

	empty, err := uc.FindAllPaged(context.Background(), domain.PageSpec{Page: 100, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, int64(25), empty.TotalCount)
}

func TestProductUseCase_Delete(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	created, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))

	err = uc.Delete(context.Background(), created.ID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestProductUseCase_Delete_DependentIDConflicts(t *testing.T) {
	repo := newFakeProductRepo()
	repo.categories[2] = "Electronics"
	uc := NewProductUseCase(repo, testLogger())

	created, err := uc.Insert(context.Background(), productDTOFixture())
	require.NoError(t, err)
	repo.dependent[created.ID] = true

	err = uc.Delete(context.Background(), created.ID)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	_, stillThere := repo.products[created.ID]
	assert.True(t, stillThere)
}
