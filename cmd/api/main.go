package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/checkout"
	"go-retail-pos/internal/config"
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.UsingDefaultPasswords() {
		slog.Warn("default till passwords in use; set ADMIN_PASSWORD and CASHIER_PASSWORD")
	}

	mode, err := service.ParseCommitMode(cfg.CommitMode)
	if err != nil {
		slog.Error("invalid CHECKOUT_COMMIT_MODE", "error", err)
		os.Exit(1)
	}

	// 2. Setup Database. The server still starts without one; data routes answer 500.
	db, err := database.ConnectDB(cfg.DatabaseURL, cfg.LogLevel == slog.LevelDebug)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		db = nil
	} else if err := model.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		db = nil
	}
	ready := func() bool { return db != nil }

	// 3. Setup WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	handlers, err := wire(db, cfg, mode, wsHub)
	if err != nil {
		slog.Error("wiring failed", "error", err)
		os.Exit(1)
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Retail POS v1.0",
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 6. Routes
	handler.RegisterRoutes(app.Group("/api/v1"), handlers, ready)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Attach(ctx, c) {
			return
		}
		defer wsHub.Detach(ctx, c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	stop()
	slog.Info("server exited")
}

func wire(db *gorm.DB, cfg *config.Config, mode service.CommitMode, hub *ws.Hub) (handler.Handlers, error) {
	productRepo := repository.NewProductRepo(db)
	archiveRepo := repository.NewDeletedProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	invService := service.NewInventoryService(productRepo, archiveRepo, db, hub)
	salesService := service.NewSalesService(productRepo, txRepo, db, service.SalesConfig{
		Mode:        mode,
		WalkInLabel: cfg.Store.WalkInLabel,
	})
	staffService := service.NewStaffService(staffRepo)
	reportService := service.NewReportService(txRepo, productRepo)
	authService, err := service.NewAuthService(cfg.AdminPassword, cfg.CashierPassword)
	if err != nil {
		return handler.Handlers{}, err
	}

	registry := checkout.NewRegistry(salesService, hub, cfg.Store)
	slog.Info("checkout ready", "commit_mode", mode)

	return handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Inventory:   handler.NewInventoryHandler(invService),
		Transaction: handler.NewTransactionHandler(salesService, hub, cfg.Store, cfg.ReceiptWidth),
		Checkout:    handler.NewCheckoutHandler(registry, invService, cfg.ReceiptWidth),
		Staff:       handler.NewStaffHandler(staffService),
		Report:      handler.NewReportHandler(reportService),
	}, nil
}
