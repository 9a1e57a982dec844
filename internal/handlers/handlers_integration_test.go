package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/clients"
	"catalogadmin/internal/handlers"
	"catalogadmin/internal/models"
	"catalogadmin/internal/services"
)

// setupApp builds a Fiber app over a seeded in-memory catalog, the same
// wiring main uses when no backend is configured.
func setupApp(t *testing.T) (*fiber.App, *services.CatalogViewService) {
	t.Helper()

	mock := clients.NewMockCatalogClient()
	mock.SeedCategories([]models.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Accessories"},
	})
	seed := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: 1200, Available: true},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75, Available: true},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25, Available: false},
	}
	for i := range seed {
		_, err := mock.CreateProduct(context.Background(), &seed[i])
		require.NoError(t, err)
	}

	view := services.NewCatalogViewService(mock, services.Config{PageSize: 10})
	view.Activate(context.Background())

	app := fiber.New()
	handlers.NewViewHandler(view).RegisterRoutes(app)
	return app, view
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, services.ViewState) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var state services.ViewState
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	}
	resp.Body.Close()
	return resp, state
}

func TestRootRedirectsHome(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))
}

func TestHomeReturnsState(t *testing.T) {
	app, _ := setupApp(t)

	resp, state := doJSON(t, app, http.MethodGet, "/home", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, state.Products, 3)
	assert.Len(t, state.FilteredProducts, 3)
	assert.Len(t, state.Categories, 2)
	assert.Equal(t, 1, state.TotalPages)
	assert.False(t, state.IsLoading)
}

func TestCategoriesEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Len(t, categories, 2)
}

func TestSearchEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/search", handlers.SearchRequest{Query: "laptop"})
	require.Len(t, state.FilteredProducts, 1)
	assert.Equal(t, "Laptop", state.FilteredProducts[0].Name)
	assert.Equal(t, "laptop", state.SearchQuery)

	_, state = doJSON(t, app, http.MethodPost, "/search", handlers.SearchRequest{Query: ""})
	assert.Len(t, state.FilteredProducts, 3)
}

func TestSortEndpointToggles(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/sort/price", nil)
	require.Len(t, state.FilteredProducts, 3)
	assert.Equal(t, "Mouse", state.FilteredProducts[0].Name)
	assert.Equal(t, services.SortAsc, state.SortDirection)

	_, state = doJSON(t, app, http.MethodPost, "/sort/price", nil)
	assert.Equal(t, "Laptop", state.FilteredProducts[0].Name)
	assert.Equal(t, services.SortDesc, state.SortDirection)
}

func TestPaginationEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	// A single page: next is a no-op.
	_, state := doJSON(t, app, http.MethodPost, "/products/next", nil)
	assert.Equal(t, 0, state.CurrentPage)

	_, state = doJSON(t, app, http.MethodPost, "/products/prev", nil)
	assert.Equal(t, 0, state.CurrentPage)

	resp, _ := doJSON(t, app, http.MethodPost, "/products/page/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitEndpoint_CreateFlow(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/products/new", nil)
	assert.True(t, state.ShowForm)
	assert.False(t, state.EditMode)

	_, state = doJSON(t, app, http.MethodPost, "/products/submit", models.Product{
		Name:      "Webcam",
		Price:     49.90,
		Available: true,
	})

	assert.Equal(t, "Product created", state.SuccessMessage)
	assert.False(t, state.ShowForm)
	assert.Len(t, state.Products, 4, "page reloaded with the new product")
}

func TestSubmitEndpoint_RejectsInvalidProduct(t *testing.T) {
	app, view := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/products/submit", models.Product{
		Name:  "", // required
		Price: 10,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, view.Snapshot().Products, 3, "nothing was submitted")

	resp, _ = doJSON(t, app, http.MethodPost, "/products/submit", models.Product{
		Name:  "Bargain",
		Price: -1, // gte=0
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditEndpoint_Flow(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/products/1/edit", nil)
	require.True(t, state.EditMode)
	require.NotNil(t, state.CurrentProduct.ID)
	require.Equal(t, int64(1), *state.CurrentProduct.ID)

	edited := state.CurrentProduct
	edited.Name = "Laptop Pro"
	_, state = doJSON(t, app, http.MethodPost, "/products/submit", edited)

	assert.Equal(t, "Product updated", state.SuccessMessage)
	assert.False(t, state.ShowForm)

	found := false
	for _, p := range state.Products {
		if p.ID != nil && *p.ID == 1 {
			found = true
			assert.Equal(t, "Laptop Pro", p.Name)
		}
	}
	assert.True(t, found)
}

func TestEditEndpoint_UnknownProduct(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/products/99/edit", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/products/xyz/edit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteEndpoints_ConfirmFlow(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/products/2/delete", nil)
	require.True(t, state.ShowDeleteConfirmation)
	require.NotNil(t, state.ProductToDelete)

	_, state = doJSON(t, app, http.MethodPost, "/products/delete/confirm", nil)
	assert.Equal(t, "Product deleted", state.SuccessMessage)
	assert.False(t, state.ShowDeleteConfirmation)
	assert.Nil(t, state.ProductToDelete)
	assert.Len(t, state.Products, 2)
}

func TestDeleteEndpoints_CancelFlow(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/products/2/delete", nil)
	require.True(t, state.ShowDeleteConfirmation)

	_, state = doJSON(t, app, http.MethodPost, "/products/delete/cancel", nil)
	assert.False(t, state.ShowDeleteConfirmation)
	assert.Nil(t, state.ProductToDelete)
	assert.Len(t, state.Products, 3, "nothing was deleted")
}

func TestCancelEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	_, state := doJSON(t, app, http.MethodPost, "/products/new", nil)
	require.True(t, state.ShowForm)

	_, state = doJSON(t, app, http.MethodPost, "/products/cancel", nil)
	assert.False(t, state.ShowForm)
}

func TestLoadEndpoint_ReloadsCurrentPage(t *testing.T) {
	app, view := setupApp(t)

	snapshot := view.Snapshot()
	require.Len(t, snapshot.Products, 3)

	_, state := doJSON(t, app, http.MethodPost, "/products/load", nil)
	assert.Len(t, state.Products, 3)
	assert.Empty(t, state.ErrorMessage)
}
