package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"catalogadmin/internal/models"
	"catalogadmin/internal/services"
)

// ViewHandler exposes the catalog view-model over HTTP. Every
// state-changing route replies with a fresh state snapshot so a thin
// browser page can re-render from each response.
type ViewHandler struct {
	view     *services.CatalogViewService
	validate *validator.Validate
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(view *services.CatalogViewService) *ViewHandler {
	return &ViewHandler{
		view:     view,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the UI routes with the Fiber app. Literal
// product routes are registered before the parameterized ones so
// "submit" or "delete" can never be captured as a product id.
func (h *ViewHandler) RegisterRoutes(router fiber.Router) {
	// The fixed landing route.
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/home", fiber.StatusFound)
	})
	router.Get("/home", h.HandleState)
	router.Get("/categories", h.HandleCategories)

	products := router.Group("/products")
	products.Post("/load", h.HandleLoad)
	products.Post("/next", h.HandleNextPage)
	products.Post("/prev", h.HandlePrevPage)
	products.Post("/page/:page", h.HandleGoToPage)
	products.Post("/new", h.HandleBeginCreate)
	products.Post("/submit", h.HandleSubmit)
	products.Post("/cancel", h.HandleCancelEdit)
	products.Post("/delete/confirm", h.HandleConfirmDelete)
	products.Post("/delete/cancel", h.HandleCancelDelete)
	products.Post("/:id/edit", h.HandleBeginEdit)
	products.Post("/:id/delete", h.HandleRequestDelete)

	router.Post("/search", h.HandleSearch)
	router.Post("/sort/:field", h.HandleSort)
}

// HandleState returns the current view-model state.
func (h *ViewHandler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.view.Snapshot())
}

// HandleCategories returns the loaded category list.
func (h *ViewHandler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(h.view.Snapshot().Categories)
}

// HandleLoad reloads the current product page.
func (h *ViewHandler) HandleLoad(c *fiber.Ctx) error {
	h.view.LoadProducts(c.Context())
	return c.JSON(h.view.Snapshot())
}

// HandleNextPage advances to the next page, if one exists.
func (h *ViewHandler) HandleNextPage(c *fiber.Ctx) error {
	h.view.NextPage(c.Context())
	return c.JSON(h.view.Snapshot())
}

// HandlePrevPage steps back to the previous page, if not on the first.
func (h *ViewHandler) HandlePrevPage(c *fiber.Ctx) error {
	h.view.PrevPage(c.Context())
	return c.JSON(h.view.Snapshot())
}

// HandleGoToPage jumps to the page given in the path.
func (h *ViewHandler) HandleGoToPage(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Params("page"))
	if err != nil || page < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid page number",
		})
	}
	h.view.GoToPage(c.Context(), page)
	return c.JSON(h.view.Snapshot())
}

// HandleBeginCreate opens the form with an empty edit buffer.
func (h *ViewHandler) HandleBeginCreate(c *fiber.Ctx) error {
	h.view.BeginCreate()
	return c.JSON(h.view.Snapshot())
}

// HandleBeginEdit opens the form pre-filled with the product from the
// currently loaded page whose id is given in the path.
func (h *ViewHandler) HandleBeginEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	product, ok := h.findProduct(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found on the current page",
		})
	}
	h.view.BeginEdit(product)
	return c.JSON(h.view.Snapshot())
}

// HandleSubmit validates the submitted form body, stages it as the edit
// buffer and submits it. Validation failures keep the view-model
// untouched and report per-field messages.
func (h *ViewHandler) HandleSubmit(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product form body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	h.view.SetEditBuffer(product)
	h.view.SubmitProduct(c.Context())
	return c.JSON(h.view.Snapshot())
}

// HandleCancelEdit closes the form and discards unsaved input.
func (h *ViewHandler) HandleCancelEdit(c *fiber.Ctx) error {
	h.view.CancelEdit()
	return c.JSON(h.view.Snapshot())
}

// HandleRequestDelete opens the delete confirmation for the product from
// the currently loaded page whose id is given in the path.
func (h *ViewHandler) HandleRequestDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	product, ok := h.findProduct(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found on the current page",
		})
	}
	h.view.RequestDelete(product)
	return c.JSON(h.view.Snapshot())
}

// HandleConfirmDelete deletes the marked product.
func (h *ViewHandler) HandleConfirmDelete(c *fiber.Ctx) error {
	h.view.ConfirmDelete(c.Context())
	return c.JSON(h.view.Snapshot())
}

// HandleCancelDelete closes the confirmation without deleting.
func (h *ViewHandler) HandleCancelDelete(c *fiber.Ctx) error {
	h.view.CancelDelete()
	return c.JSON(h.view.Snapshot())
}

// SearchRequest is the body for the search route.
type SearchRequest struct {
	Query string `json:"query"`
}

// HandleSearch re-derives the filtered view for the given query.
func (h *ViewHandler) HandleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing search request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	h.view.Search(req.Query)
	return c.JSON(h.view.Snapshot())
}

// HandleSort selects or toggles the sort field given in the path.
func (h *ViewHandler) HandleSort(c *fiber.Ctx) error {
	h.view.SetSortField(c.Params("field"))
	return c.JSON(h.view.Snapshot())
}

// findProduct looks the id up on the currently loaded page. Actions on
// rows always refer to products the user can currently see, so the page
// is the only search space.
func (h *ViewHandler) findProduct(id int64) (models.Product, bool) {
	for _, p := range h.view.Snapshot().Products {
		if p.ID != nil && *p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
