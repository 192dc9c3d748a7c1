package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/CyberG247/cafebyabujacar/internal/config"
	"github.com/CyberG247/cafebyabujacar/internal/handlers"
	"github.com/CyberG247/cafebyabujacar/internal/payment"
	"github.com/CyberG247/cafebyabujacar/internal/store"
	"github.com/CyberG247/cafebyabujacar/internal/tracking"
)

func main() {
	// Configure slog before anything else logs.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	if err := db.InitSchema(); err != nil {
		slog.Error("Failed to init schema", "error", err)
		os.Exit(1)
	}
	if err := db.SeedProducts(context.Background()); err != nil {
		slog.Error("Failed to seed menu", "error", err)
		os.Exit(1)
	}
	db.Notifier = store.NewNotifier()

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Status source: time-derived simulation, or the store when staff
	// updates are authoritative.
	var source tracking.StatusSource = tracking.TimeSource{}
	if cfg.StatusMode == config.StatusModeLive {
		source = tracking.StoreSource{}
	}
	tracker := tracking.NewTracker(db, source)

	// 5. Payment gateway
	var gateway payment.Gateway
	if cfg.SimulatePayment {
		slog.Info("Payment gateway running in simulation mode", "settle_delay", cfg.SettleDelay)
		gateway = &payment.SimulatedGateway{Delay: cfg.SettleDelay}
	} else {
		gateway = payment.NewPaystackGateway(cfg.PaystackSecretKey)
	}

	// 6. Setup Handlers
	menuHandler := &handlers.MenuHandler{Store: db}
	cartHandler := &handlers.CartHandler{Store: db, SessionStore: sessionStore}
	orderHandler := handlers.NewOrderHandler(db, sessionStore, tracker, gateway)
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		SessionStore: sessionStore,
		UploadDir:    cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Static Files (uploaded product images)
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter on order-placing actions
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("GET /api/menu", menuHandler.List)
	mux.HandleFunc("GET /api/menu/{id}", menuHandler.Get)

	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart", cartHandler.Update)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)

	mux.HandleFunc("POST /api/checkout", rateLimiter.Middleware(orderHandler.Checkout))

	// Order tracking + receipt (guest token via ?token= or creating session)
	mux.HandleFunc("GET /api/orders/{ref}", orderHandler.Track)
	mux.HandleFunc("GET /api/orders/{ref}/events", orderHandler.Events)
	mux.HandleFunc("GET /api/orders/{ref}/receipt", orderHandler.Receipt)

	// Payment flow
	mux.HandleFunc("GET /api/orders/{ref}/payment", orderHandler.PaymentState)
	mux.HandleFunc("POST /api/orders/{ref}/payment/select", orderHandler.SelectMethod)
	mux.HandleFunc("POST /api/orders/{ref}/payment/back", orderHandler.BackToSelection)
	mux.HandleFunc("POST /api/orders/{ref}/payment/confirm", orderHandler.ConfirmPayment)
	mux.HandleFunc("POST /api/orders/{ref}/payment/verify", orderHandler.VerifyPayment)
	mux.HandleFunc("POST /api/orders/{ref}/payment/cancel", orderHandler.CancelPayment)

	// Admin Routes. These sit behind CSRF protection: clients fetch a
	// token from GET /api/admin/csrf and send it back in the
	// X-CSRF-Token header on every admin POST, including login.
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/admin/csrf", handlers.CSRFToken)
	adminMux.HandleFunc("POST /api/admin/login", adminHandler.Login)
	adminMux.HandleFunc("POST /api/admin/logout", adminHandler.Logout)

	adminMux.HandleFunc("GET /api/admin/dashboard", adminHandler.AuthMiddleware(adminHandler.Dashboard))
	adminMux.HandleFunc("GET /api/admin/orders", adminHandler.AuthMiddleware(adminHandler.ListOrders))
	adminMux.HandleFunc("POST /api/admin/orders/{ref}/status", adminHandler.AuthMiddleware(adminHandler.UpdateOrderStatus))

	adminMux.HandleFunc("GET /api/admin/products", adminHandler.AuthMiddleware(adminHandler.ListProducts))
	adminMux.HandleFunc("POST /api/admin/products", adminHandler.AuthMiddleware(adminHandler.CreateProduct))
	adminMux.HandleFunc("POST /api/admin/products/{id}", adminHandler.AuthMiddleware(adminHandler.UpdateProduct))
	adminMux.HandleFunc("POST /api/admin/products/{id}/archive", adminHandler.AuthMiddleware(adminHandler.ArchiveProduct))

	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)
	mux.Handle("/api/admin/", CSRF(adminMux))

	// Chain: Logger -> Security Headers -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(mux),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "status_mode", cfg.StatusMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
