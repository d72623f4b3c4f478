package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"shoppit/internal/config"
	"shoppit/internal/database"
	"shoppit/internal/handlers"
	"shoppit/internal/middleware"
	"shoppit/internal/repositories"
	"shoppit/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Run pending migrations on startup
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.DB)
	productRepo := repositories.NewProductRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)

	// Initialize payment gateways
	flutterwave := buildFlutterwaveGateway(cfg)
	paypal := buildPayPalGateway(cfg)

	// Initialize services
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(
		cartRepo, transactionRepo,
		cfg.Checkout.Currency, cfg.Checkout.FixedTax,
		flutterwave, paypal,
	)
	verifierService := services.NewVerifierService(transactionRepo, flutterwave, paypal)

	// Start the stale-transaction sweeper
	sweeper := services.NewSweeperService(transactionRepo, cfg.Sweeper.Interval, cfg.Sweeper.MaxAge)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	// Initialize handlers
	cartHandler := handlers.NewCartHandler(cartService)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, verifierService)

	sessionAuth := middleware.NewSessionAuth(sessionStore, userRepo)

	// Initialize router
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins)))
	r.Use(sessionAuth.LoadUser)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	// Cart routes
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Get("/stats", cartHandler.GetCartStats)
		r.Get("/contains", cartHandler.ContainsProduct)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{itemID}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{itemID}", cartHandler.DeleteItem)
	})

	// Checkout and callback routes
	r.With(middleware.RequireUser).Post("/api/checkout/{gateway}", paymentHandler.InitiatePayment)
	r.Get("/api/payment/callback", paymentHandler.FlutterwaveCallback)
	r.Get("/api/payment/paypal/callback", paymentHandler.PayPalCallback)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on http://%s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// buildFlutterwaveGateway returns the live client when a secret key is
// configured, otherwise a local mock so development works without
// credentials.
func buildFlutterwaveGateway(cfg *config.Config) services.PaymentGateway {
	if cfg.Flutterwave.SecretKey == "" {
		log.Println("Flutterwave credentials not configured, using mock gateway")
		return services.NewMockGateway("flutterwave")
	}
	return services.NewFlutterwaveGateway(services.FlutterwaveConfig{
		SecretKey:   cfg.Flutterwave.SecretKey,
		RedirectURL: cfg.Flutterwave.RedirectURL,
	})
}

func buildPayPalGateway(cfg *config.Config) services.PaymentGateway {
	if cfg.PayPal.ClientID == "" || cfg.PayPal.ClientSecret == "" {
		log.Println("PayPal credentials not configured, using mock gateway")
		return services.NewMockGateway("paypal")
	}
	return services.NewPayPalGateway(services.PayPalConfig{
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Environment:  cfg.PayPal.Environment,
		ReturnURL:    cfg.PayPal.ReturnURL,
		CancelURL:    cfg.PayPal.CancelURL,
	})
}
