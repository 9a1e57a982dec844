package clients

import (
	"context"
	"errors"

	"catalogadmin/internal/models"
)

// ErrRequestFailed marks any transport or HTTP failure against the
// catalog backend. Callers do not distinguish failure kinds beyond this;
// the HTTP status and body detail is logged, not propagated.
var ErrRequestFailed = errors.New("catalog request failed")

// CatalogClient defines the interface for product and category access on
// the remote catalog backend. Each method is a single best-effort round
// trip: no retries, no caching.
type CatalogClient interface {
	// ListProducts fetches one page of the product collection.
	ListProducts(ctx context.Context, page, size int) (*models.Page[models.Product], error)
	// CreateProduct persists a new product and returns the server-assigned record.
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct replaces an existing product. The backend resolves the
	// target from the body's id field; see the collection-path note on the
	// HTTP implementation.
	UpdateProduct(ctx context.Context, id int64, product *models.Product) (*models.Product, error)
	// DeleteProduct removes the product with the given id.
	DeleteProduct(ctx context.Context, id int64) error
	// ListCategories fetches the full, unpaginated category list.
	ListCategories(ctx context.Context) ([]models.Category, error)
}
