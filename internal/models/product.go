package models

// Category classifies a product. Categories are read-only in this
// application; they are fetched from the catalog backend as-is.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product represents a product record in the remote catalog.
// A Product without an ID has not been persisted yet.
type Product struct {
	ID          *int64    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"gte=0"`
	Available   bool      `json:"available"`
	Category    *Category `json:"category,omitempty"`
}

// EmptyProduct returns the blank edit buffer used when creating a new
// product: no ID, zeroed text fields, available by default.
func EmptyProduct() Product {
	return Product{
		Name:        "",
		Description: "",
		Price:       0,
		Available:   true,
	}
}
