package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"catalogadmin/internal/clients"
	"catalogadmin/internal/handlers"
	"catalogadmin/internal/models"
	"catalogadmin/internal/services"
)

// NewApp builds the Fiber application and the view-model behind it from
// the current viper configuration. When no backend URL is configured the
// app runs against a seeded in-memory catalog, which keeps local
// development independent of a running backend.
func NewApp() (*fiber.App, *services.CatalogViewService, error) {
	// --- Configuration defaults ---
	// The admin/admin pair is the backend's stock development login.
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("CATALOG_API_URL", "")
	viper.SetDefault("CATALOG_USERNAME", "admin")
	viper.SetDefault("CATALOG_PASSWORD", "admin")
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("HTTP_TIMEOUT", "10s")
	viper.SetDefault("SUCCESS_MESSAGE_TTL", "3s")
	viper.AutomaticEnv() // Load environment variables

	// --- Catalog client ---
	var catalogClient clients.CatalogClient
	apiURL := viper.GetString("CATALOG_API_URL")
	if apiURL != "" {
		httpClient, err := clients.NewHTTPCatalogClient(clients.Config{
			BaseURL:  apiURL,
			Username: viper.GetString("CATALOG_USERNAME"),
			Password: viper.GetString("CATALOG_PASSWORD"),
			Timeout:  viper.GetDuration("HTTP_TIMEOUT"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create catalog client: %w", err)
		}
		catalogClient = httpClient
		log.Printf("Using catalog backend at %s", apiURL)
	} else {
		mock := clients.NewMockCatalogClient()
		seedCatalog(mock)
		catalogClient = mock
		log.Println("CATALOG_API_URL not set, using seeded in-memory catalog")
	}

	// --- View-model ---
	view := services.NewCatalogViewService(catalogClient, services.Config{
		PageSize:   viper.GetInt("PAGE_SIZE"),
		MessageTTL: viper.GetDuration("SUCCESS_MESSAGE_TTL"),
	})

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	viewHandler := handlers.NewViewHandler(view)
	viewHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, view, nil
}

func main() {
	// Command-line flags override the environment.
	pflag.String("port", "", "address for the UI server to listen on")
	pflag.String("api-url", "", "base URL of the catalog backend")
	pflag.Parse()
	bindFlag("APP_PORT", "port")
	bindFlag("CATALOG_API_URL", "api-url")

	app, view, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// Initial transition: first product page plus the category list.
	view.Activate(context.Background())

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting catalog admin UI on %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// bindFlag wires a pflag into viper under the given key, but only when
// the flag was actually set, so empty flags do not mask env values.
func bindFlag(key, flag string) {
	f := pflag.Lookup(flag)
	if f != nil && f.Changed {
		if err := viper.BindPFlag(key, f); err != nil {
			log.Printf("Failed to bind flag %s: %v", flag, err)
		}
	}
}

// seedCatalog populates the in-memory catalog with some initial data.
func seedCatalog(mock *clients.MockCatalogClient) {
	categories := []models.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Accessories"},
	}
	mock.SeedCategories(categories)

	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: 1200.00, Available: true, Category: &categories[0]},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Available: true, Category: &categories[1]},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Available: false, Category: &categories[1]},
	}
	for i := range products {
		if _, err := mock.CreateProduct(context.Background(), &products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
}
