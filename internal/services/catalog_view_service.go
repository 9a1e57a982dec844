package services

import (
	"context"
	"log"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogadmin/internal/clients"
	"catalogadmin/internal/models"
)

// SortDirection is the ordering applied to the filtered product view.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	defaultPageSize   = 10
	defaultMessageTTL = 3 * time.Second
)

// Config tunes a CatalogViewService. Zero values fall back to the
// defaults above.
type Config struct {
	PageSize   int
	MessageTTL time.Duration
}

// ViewState is a copy of everything the UI can observe. Handlers return
// it as JSON after every operation so a page can re-render from it.
type ViewState struct {
	Products         []models.Product  `json:"products"`
	FilteredProducts []models.Product  `json:"filteredProducts"`
	Categories       []models.Category `json:"categories"`

	CurrentProduct  models.Product  `json:"currentProduct"`
	ProductToDelete *models.Product `json:"productToDelete,omitempty"`

	IsLoading              bool `json:"isLoading"`
	ShowForm               bool `json:"showForm"`
	EditMode               bool `json:"editMode"`
	ShowDeleteConfirmation bool `json:"showDeleteConfirmation"`

	SuccessMessage string `json:"successMessage"`
	ErrorMessage   string `json:"errorMessage"`

	SearchQuery   string        `json:"searchQuery"`
	SortField     string        `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`

	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	TotalPagesKnown bool `json:"totalPagesKnown"`
}

// CatalogViewService is the list view-model for the product catalog UI.
// It owns all UI-observable state and coordinates calls into the
// CatalogClient, applying search and sort locally to the currently
// loaded page only - neither is ever pushed to the backend.
//
// Methods are safe for concurrent use: the HTTP layer serves each user
// action on its own goroutine, so two actions can be in flight at once.
// Remote calls run outside the lock, and each remotely-loaded state slot
// (products, categories) carries a request sequence number; a completion
// older than the slot's latest issued request is discarded rather than
// applied, so a slow first load can never clobber a newer one.
type CatalogViewService struct {
	client     clients.CatalogClient
	messageTTL time.Duration

	mu sync.Mutex

	products         []models.Product
	filteredProducts []models.Product
	categories       []models.Category

	currentProduct  models.Product
	productToDelete *models.Product

	isLoading              bool
	showForm               bool
	editMode               bool
	showDeleteConfirmation bool

	successMessage string
	errorMessage   string

	searchQuery   string
	sortField     string
	sortDirection SortDirection

	currentPage     int
	pageSize        int
	totalPages      int
	totalPagesKnown bool

	productsSeq   uint64
	categoriesSeq uint64
	messageToken  uuid.UUID
}

// NewCatalogViewService creates a new CatalogViewService.
func NewCatalogViewService(client clients.CatalogClient, cfg Config) *CatalogViewService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	ttl := cfg.MessageTTL
	if ttl <= 0 {
		ttl = defaultMessageTTL
	}

	return &CatalogViewService{
		client:         client,
		messageTTL:     ttl,
		currentProduct: models.EmptyProduct(),
		sortField:      "id",
		sortDirection:  SortAsc,
		pageSize:       pageSize,
	}
}

// Activate runs the initial transition: load the first product page and
// the category list. The HTTP layer handles the companion concern of
// landing the user on the home route.
func (s *CatalogViewService) Activate(ctx context.Context) {
	s.LoadProducts(ctx)
	s.LoadCategories(ctx)
}

// LoadProducts fetches the current page from the catalog backend and
// replaces the product collection and its filtered view with the page
// content. On failure the prior data stays in place and a generic
// message is surfaced; the loading flag is cleared either way.
func (s *CatalogViewService) LoadProducts(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.errorMessage = ""
	s.productsSeq++
	seq := s.productsSeq
	page, size := s.currentPage, s.pageSize
	s.mu.Unlock()

	result, err := s.client.ListProducts(ctx, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.productsSeq {
		// A newer load was issued while this one was in flight; its
		// completion owns the state slot now.
		return
	}
	if err != nil {
		log.Printf("Error loading products: %v", err)
		s.errorMessage = "Failed to load products."
		s.isLoading = false
		return
	}

	s.products = result.Content
	s.filteredProducts = slices.Clone(result.Content)
	s.totalPages = result.TotalPages
	s.totalPagesKnown = true
	s.isLoading = false
}

// LoadCategories fetches the category list. It is independent of the
// product loading flag; failure only surfaces a generic message.
func (s *CatalogViewService) LoadCategories(ctx context.Context) {
	s.mu.Lock()
	s.categoriesSeq++
	seq := s.categoriesSeq
	s.mu.Unlock()

	categories, err := s.client.ListCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.categoriesSeq {
		return
	}
	if err != nil {
		log.Printf("Error loading categories: %v", err)
		s.errorMessage = "Failed to load categories."
		return
	}
	s.categories = categories
}

// NextPage advances to the next page and reloads, if a next page exists.
func (s *CatalogViewService) NextPage(ctx context.Context) {
	s.mu.Lock()
	if s.currentPage+1 >= s.totalPages {
		s.mu.Unlock()
		return
	}
	s.currentPage++
	s.mu.Unlock()

	s.LoadProducts(ctx)
}

// PrevPage steps back one page and reloads, if not already on the first.
func (s *CatalogViewService) PrevPage(ctx context.Context) {
	s.mu.Lock()
	if s.currentPage == 0 {
		s.mu.Unlock()
		return
	}
	s.currentPage--
	s.mu.Unlock()

	s.LoadProducts(ctx)
}

// GoToPage jumps directly to the given page and reloads.
func (s *CatalogViewService) GoToPage(ctx context.Context, page int) {
	s.mu.Lock()
	s.currentPage = page
	s.mu.Unlock()

	s.LoadProducts(ctx)
}

// PageRange lists the addressable page indexes: [0, totalPages).
func (s *CatalogViewService) PageRange() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages := make([]int, s.totalPages)
	for i := range pages {
		pages[i] = i
	}
	return pages
}

// BeginCreate opens the form with an empty edit buffer.
func (s *CatalogViewService) BeginCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editMode = false
	s.currentProduct = models.EmptyProduct()
	s.showForm = true
}

// BeginEdit opens the form with a copy of the given product as the edit
// buffer. The copy is shallow: the category reference is shared with the
// listed product, which is fine because categories are read-only here.
func (s *CatalogViewService) BeginEdit(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editMode = true
	s.currentProduct = product
	s.showForm = true
}

// SetEditBuffer replaces the edit buffer with the given product while
// keeping the create/edit mode established by BeginCreate or BeginEdit.
// This is how form input reaches the view-model before submission.
func (s *CatalogViewService) SetEditBuffer(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentProduct = product
}

// RequestDelete marks the given product for deletion and opens the
// confirmation prompt. No remote call happens yet.
func (s *CatalogViewService) RequestDelete(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.productToDelete = &product
	s.showDeleteConfirmation = true
}

// CancelDelete closes the confirmation prompt without deleting anything.
func (s *CatalogViewService) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.productToDelete = nil
	s.showDeleteConfirmation = false
}

// ConfirmDelete deletes the marked product. It is a no-op when no target
// is stored or the target was never persisted. The confirmation prompt
// closes and the target is cleared once the call settles, success or not.
func (s *CatalogViewService) ConfirmDelete(ctx context.Context) {
	s.mu.Lock()
	if s.productToDelete == nil || s.productToDelete.ID == nil {
		s.mu.Unlock()
		return
	}
	id := *s.productToDelete.ID
	s.isLoading = true
	s.mu.Unlock()

	err := s.client.DeleteProduct(ctx, id)

	s.mu.Lock()
	s.showDeleteConfirmation = false
	s.productToDelete = nil
	if err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		s.errorMessage = "Failed to delete product"
		s.isLoading = false
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.showSuccess("Product deleted")
	s.LoadProducts(ctx)
}

// SubmitProduct persists the edit buffer: an update when editing a
// persisted product, a create otherwise. On success the form closes and
// the current page reloads; on failure the form stays open with the
// user's input intact.
func (s *CatalogViewService) SubmitProduct(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	buffer := s.currentProduct
	editMode := s.editMode
	update := editMode && buffer.ID != nil
	s.mu.Unlock()

	var err error
	if update {
		_, err = s.client.UpdateProduct(ctx, *buffer.ID, &buffer)
	} else {
		_, err = s.client.CreateProduct(ctx, &buffer)
	}

	if err != nil {
		log.Printf("Error saving product: %v", err)
		s.mu.Lock()
		s.errorMessage = "Failed to save product"
		s.isLoading = false
		s.mu.Unlock()
		return
	}

	if editMode {
		s.showSuccess("Product updated")
	} else {
		s.showSuccess("Product created")
	}
	s.LoadProducts(ctx)
	s.CancelEdit()
}

// CancelEdit closes the form and discards unsaved input.
func (s *CatalogViewService) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.showForm = false
	s.currentProduct = models.EmptyProduct()
}

// Search stores the query and re-derives the filtered view from the
// currently loaded page: case-insensitive substring match against name
// or description. An empty query yields the full page.
func (s *CatalogViewService) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchQuery = query
	s.applyFiltersAndSort()
}

// SetSortField selects the sort field for the filtered view. Selecting
// the active field flips the direction; selecting a new field starts it
// ascending. The view is re-sorted either way.
func (s *CatalogViewService) SetSortField(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sortField == field {
		if s.sortDirection == SortAsc {
			s.sortDirection = SortDesc
		} else {
			s.sortDirection = SortAsc
		}
	} else {
		s.sortField = field
		s.sortDirection = SortAsc
	}
	s.sortProducts()
}

// Snapshot returns a copy of the observable state.
func (s *CatalogViewService) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := ViewState{
		Products:               slices.Clone(s.products),
		FilteredProducts:       slices.Clone(s.filteredProducts),
		Categories:             slices.Clone(s.categories),
		CurrentProduct:         s.currentProduct,
		IsLoading:              s.isLoading,
		ShowForm:               s.showForm,
		EditMode:               s.editMode,
		ShowDeleteConfirmation: s.showDeleteConfirmation,
		SuccessMessage:         s.successMessage,
		ErrorMessage:           s.errorMessage,
		SearchQuery:            s.searchQuery,
		SortField:              s.sortField,
		SortDirection:          s.sortDirection,
		CurrentPage:            s.currentPage,
		PageSize:               s.pageSize,
		TotalPages:             s.totalPages,
		TotalPagesKnown:        s.totalPagesKnown,
	}
	if s.productToDelete != nil {
		target := *s.productToDelete
		state.ProductToDelete = &target
	}
	return state
}

// showSuccess displays a transient success message. Each message gets a
// fresh token; the deferred clear only blanks the message if its token
// is still current, so a timer left over from an earlier message can
// never wipe a newer one.
func (s *CatalogViewService) showSuccess(message string) {
	s.mu.Lock()
	s.successMessage = message
	token := uuid.New()
	s.messageToken = token
	ttl := s.messageTTL
	s.mu.Unlock()

	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.messageToken == token {
			s.successMessage = ""
		}
	})
}

// applyFiltersAndSort re-derives the filtered view from the loaded page.
// Callers must hold s.mu.
func (s *CatalogViewService) applyFiltersAndSort() {
	query := strings.ToLower(s.searchQuery)

	filtered := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			(p.Description != "" && strings.Contains(strings.ToLower(p.Description), query)) {
			filtered = append(filtered, p)
		}
	}
	s.filteredProducts = filtered
	s.sortProducts()
}

// sortProducts orders the filtered view by the selected field and
// direction. The comparison is a strict two-way one: equal keys are
// "not less", so equal-valued entries may land in any relative order.
// Callers must hold s.mu.
func (s *CatalogViewService) sortProducts() {
	field := s.sortField
	asc := s.sortDirection == SortAsc

	sort.Slice(s.filteredProducts, func(i, j int) bool {
		a, b := s.filteredProducts[i], s.filteredProducts[j]
		if asc {
			return productLess(a, b, field)
		}
		return productLess(b, a, field)
	})
}

// productLess compares two products on the given sort field: numeric for
// id and price, folded-case lexicographic for the text fields. A missing
// id counts as 0; a missing description or category as the empty string.
// An unrecognized field falls back to comparing names.
func productLess(a, b models.Product, field string) bool {
	switch field {
	case "id":
		return idOrZero(a) < idOrZero(b)
	case "price":
		return a.Price < b.Price
	case "description":
		return strings.ToLower(a.Description) < strings.ToLower(b.Description)
	case "category":
		return strings.ToLower(categoryName(a)) < strings.ToLower(categoryName(b))
	case "name":
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

func idOrZero(p models.Product) int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

func categoryName(p models.Product) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
