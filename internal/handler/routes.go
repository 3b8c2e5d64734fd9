package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth        *AuthHandler
	Inventory   *InventoryHandler
	Transaction *TransactionHandler
	Checkout    *CheckoutHandler
	Staff       *StaffHandler
	Report      *ReportHandler
}

// RegisterRoutes mounts the API on api, normally the /api/v1 group. ready reports
// whether the database is usable; data routes answer 500 while it is not.
func RegisterRoutes(api fiber.Router, h Handlers, ready func() bool) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(Response{Success: true, Data: fiber.Map{"status": "ok", "database": ready()}})
	})

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireStore(ready), middleware.RequireAuth())
	admin := middleware.RequireRole(jwt.RoleAdmin)

	// Products
	protected.Get("/products", h.Inventory.GetProducts)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Post("/products", admin, h.Inventory.CreateProduct)
	protected.Delete("/products/:id", admin, h.Inventory.DeleteProduct)
	protected.Get("/deleted-products", admin, h.Inventory.GetDeletedProducts)
	protected.Post("/deleted-products/:productId/restore", admin, h.Inventory.RestoreProduct)
	protected.Post("/update-stock", h.Inventory.UpdateStock)

	// Transactions
	protected.Get("/transactions", h.Transaction.GetTransactions)
	protected.Get("/transactions/:id", h.Transaction.GetTransaction)
	protected.Get("/transactions/:id/receipt", h.Transaction.GetReceipt)
	protected.Post("/transactions", h.Transaction.CreateTransaction)

	// Checkout sessions
	sessions := protected.Group("/checkout/sessions")
	sessions.Post("", h.Checkout.CreateSession)
	sessions.Get("/:id", h.Checkout.GetSession)
	sessions.Delete("/:id", h.Checkout.DeleteSession)
	sessions.Post("/:id/items", h.Checkout.AddItem)
	sessions.Put("/:id/items/:productId", h.Checkout.UpdateItem)
	sessions.Delete("/:id/items/:productId", h.Checkout.RemoveItem)
	sessions.Put("/:id/options", h.Checkout.SetOptions)
	sessions.Post("/:id/confirm", h.Checkout.Confirm)
	sessions.Post("/:id/cancel", h.Checkout.Cancel)
	sessions.Post("/:id/complete", h.Checkout.Complete)
	sessions.Get("/:id/receipt", h.Checkout.Receipt)

	// Staff and reports
	protected.Get("/staff", admin, h.Staff.GetStaff)
	protected.Post("/staff", admin, h.Staff.CreateStaff)
	protected.Get("/reports/summary", admin, h.Report.GetSummary)
	protected.Get("/reports/daily-sales", admin, h.Report.GetDailySales)
}
