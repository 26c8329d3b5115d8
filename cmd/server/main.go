package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lebenbrewing/backend/internal/config"
	"github.com/lebenbrewing/backend/internal/handlers"
	appMiddleware "github.com/lebenbrewing/backend/internal/middleware"
	"github.com/lebenbrewing/backend/internal/services"
	"github.com/lebenbrewing/backend/internal/storage"
	"github.com/lebenbrewing/backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Firebase Auth (server-side verification of ID tokens)
	authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsJSON: cfg.FirebaseCredentialsJSON,
	})
	if err != nil {
		log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
	}

	// Pick the store. Without Mongo the server degrades to the in-memory
	// store, seeded with the house menu so the public page still renders.
	var (
		menuStore      store.Adapter
		degradedReason string
	)
	if cfg.MongoConfigured() {
		switch cfg.StorageLayout {
		case config.LayoutFlat:
			menuStore, err = store.NewMongoFlatStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		default:
			menuStore, err = store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		}
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
	} else {
		degradedReason = "MONGO_URI not set; running on the in-memory store"
		log.Printf("Warning: %s", degradedReason)

		snapshot, err := storage.NewJSONStore(cfg.DataDir, "menu.json")
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		memStore, err := store.NewPersistentMemoryStore(snapshot)
		if err != nil {
			log.Fatalf("Failed to restore snapshot: %v", err)
		}
		if err := store.Seed(memStore); err != nil {
			log.Fatalf("Failed to seed menu: %v", err)
		}
		menuStore = memStore
	}

	// Live in-memory mirror of the whole menu.
	aggregator, err := services.NewAggregator(menuStore)
	if err != nil {
		log.Fatalf("Failed to start menu aggregator: %v", err)
	}
	defer aggregator.Close()

	menuService := services.NewMenuService(menuStore, aggregator)
	categoryService := services.NewCategoryService(menuStore)
	settingsService := services.NewSettingsService(menuStore)

	if err := categoryService.EnsureDefaults(ctx); err != nil {
		log.Printf("Warning: failed to seed default categories: %v", err)
	}

	menuHandler := handlers.NewMenuHandler(menuService, aggregator)
	publicHandler := handlers.NewPublicHandler(aggregator, settingsService, degradedReason)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	authHandler := handlers.NewAuthHandler(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTExpiration)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public menu
		r.Get("/status", publicHandler.GetStatus)
		r.Get("/menu", publicHandler.GetMenu)
		r.Get("/menu/live", publicHandler.StreamMenu)

		// Auth
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.SessionAuth(authClient, cfg.JWTSecret))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/items", menuHandler.ListItems)
				r.Get("/menu", menuHandler.GetGrouping)
				r.Post("/items", menuHandler.CreateItem)
				r.Post("/items/reorder", menuHandler.BulkReorder)

				r.Route("/items/{itemId}", func(r chi.Router) {
					r.Put("/", menuHandler.UpdateItem)
					r.Delete("/", menuHandler.DeleteItem)
					r.Put("/visibility", menuHandler.SetVisibility)
				})

				r.Get("/categories", categoryHandler.ListCategories)
				r.Post("/categories", categoryHandler.CreateCategory)
				r.Post("/categories/reorder", categoryHandler.ReorderCategories)

				r.Get("/settings", settingsHandler.GetSettings)
				r.Put("/settings", settingsHandler.UpdateSettings)
			})
		})
	})

	log.Printf("🍺 Leben menu API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
