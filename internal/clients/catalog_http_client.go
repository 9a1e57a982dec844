package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalogadmin/internal/auth"
	"catalogadmin/internal/models"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection details for the catalog backend.
// Credentials are injected here rather than defaulted inside the client,
// so the fallback values live in one place (the application config).
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// HTTPCatalogClient is the HTTP implementation of CatalogClient. Every
// request carries the basic-auth Authorization header, and the client
// keeps a cookie jar so session cookies issued by the backend are
// replayed on subsequent requests (the server-side counterpart of the
// browser's credentialed cross-origin mode).
type HTTPCatalogClient struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewHTTPCatalogClient creates a new HTTPCatalogClient.
func NewHTTPCatalogClient(cfg Config) (*HTTPCatalogClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &HTTPCatalogClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: auth.BasicAuthHeader(cfg.Username, cfg.Password),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// ListProducts fetches one page of products from the catalog backend.
func (c *HTTPCatalogClient) ListProducts(ctx context.Context, page, size int) (*models.Page[models.Product], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var result models.Page[models.Product]
	if err := c.do(ctx, http.MethodGet, "/product?"+params.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &result, nil
}

// CreateProduct posts a new product and returns the created record,
// including the server-assigned id.
func (c *HTTPCatalogClient) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/product", product, &created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &created, nil
}

// UpdateProduct puts the product body to the collection endpoint. The
// backend's contract keeps the id out of the path for updates (unlike
// delete) and derives the target record from the body's id field, so the
// id argument only guards against an unset body id.
func (c *HTTPCatalogClient) UpdateProduct(ctx context.Context, id int64, product *models.Product) (*models.Product, error) {
	if product.ID == nil {
		product.ID = &id
	}
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/product", product, &updated); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteProduct removes the product with the given id.
func (c *HTTPCatalogClient) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/product/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// ListCategories fetches the flat category list.
func (c *HTTPCatalogClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/product/category", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// do performs a single round trip: marshals the optional body, attaches
// the auth header, and decodes a 2xx response into out (when non-nil).
// Any transport error or non-2xx status is reported as ErrRequestFailed.
func (c *HTTPCatalogClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
