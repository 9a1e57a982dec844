package clients

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"catalogadmin/internal/models"
)

// MockCatalogClient is an in-memory implementation of CatalogClient.
// It backs the application when no backend URL is configured and the
// handler tests, behaving like the real backend: id assignment on
// create, id-ordered paging, page metadata.
type MockCatalogClient struct {
	products   map[int64]models.Product
	categories []models.Category
	nextID     int64
	mu         sync.RWMutex
}

// NewMockCatalogClient creates a new empty MockCatalogClient.
func NewMockCatalogClient() *MockCatalogClient {
	return &MockCatalogClient{
		products: make(map[int64]models.Product),
		nextID:   1,
	}
}

// SeedCategories replaces the category list served by ListCategories.
func (c *MockCatalogClient) SeedCategories(categories []models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
}

// ListProducts returns the requested slice of the id-ordered product
// collection, with the same page metadata shape the backend produces.
func (c *MockCatalogClient) ListProducts(_ context.Context, page, size int) (*models.Page[models.Product], error) {
	if page < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: invalid page request (page=%d, size=%d)", ErrRequestFailed, page, size)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return *all[i].ID < *all[j].ID })

	totalPages := (len(all) + size - 1) / size
	start := page * size
	end := start + size
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	return &models.Page[models.Product]{
		Content:       all[start:end],
		TotalPages:    totalPages,
		TotalElements: int64(len(all)),
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page+1 >= totalPages,
		Pageable: models.Pageable{
			PageNumber: page,
			PageSize:   size,
			Offset:     page * size,
			Paged:      true,
			Sort:       models.Sort{Unsorted: true, Empty: true},
		},
	}, nil
}

// CreateProduct stores a new product, assigning the next free id.
func (c *MockCatalogClient) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created := *product
	id := c.nextID
	c.nextID++
	created.ID = &id
	c.products[id] = created
	return &created, nil
}

// UpdateProduct replaces an existing product.
func (c *MockCatalogClient) UpdateProduct(_ context.Context, id int64, product *models.Product) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[id]; !ok {
		return nil, fmt.Errorf("%w: product with ID %d not found for update", ErrRequestFailed, id)
	}
	updated := *product
	updated.ID = &id
	c.products[id] = updated
	return &updated, nil
}

// DeleteProduct removes a product by its id.
func (c *MockCatalogClient) DeleteProduct(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[id]; !ok {
		return fmt.Errorf("%w: product with ID %d not found for deletion", ErrRequestFailed, id)
	}
	delete(c.products, id)
	return nil
}

// ListCategories returns the seeded category list.
func (c *MockCatalogClient) ListCategories(_ context.Context) ([]models.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := make([]models.Category, len(c.categories))
	copy(categories, c.categories)
	return categories, nil
}
