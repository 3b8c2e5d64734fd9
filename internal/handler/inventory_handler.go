package handler

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// productRequest mirrors model.Product but takes the expiry date as text so the
// form's empty string can be stored as NULL.
type productRequest struct {
	Name                     string          `json:"name"`
	Category                 string          `json:"category"`
	Price                    decimal.Decimal `json:"price"`
	WholesalePrice           decimal.Decimal `json:"wholesale_price"`
	WholesalePriceWithProfit decimal.Decimal `json:"wholesale_price_with_profit"`
	Quantity                 int             `json:"quantity"`
	MinStock                 int             `json:"min_stock"`
	BrandName                string          `json:"brand_name"`
	ExpiryDate               string          `json:"expiry_date"`
	Description              string          `json:"description"`
	Image                    string          `json:"image"`
}

func (r productRequest) toModel() (*model.Product, error) {
	expiry, err := parseDate(r.ExpiryDate)
	if err != nil {
		return nil, &service.ValidationError{Field: "ExpiryDate", Tag: "date"}
	}
	return &model.Product{
		Name:                     r.Name,
		Category:                 r.Category,
		Price:                    r.Price,
		WholesalePrice:           r.WholesalePrice,
		WholesalePriceWithProfit: r.WholesalePriceWithProfit,
		Quantity:                 r.Quantity,
		MinStock:                 r.MinStock,
		BrandName:                r.BrandName,
		ExpiryDate:               expiry,
		Description:              r.Description,
		Image:                    r.Image,
	}, nil
}

type deleteProductRequest struct {
	DeletedBy string `json:"deleted_by"`
	Reason    string `json:"reason"`
}

type updateStockRequest struct {
	Items []service.StockAdjustment `json:"items"`
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return fail(c, 400, "Invalid product ID")
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	product, err := req.toModel()
	if err != nil {
		return failWith(c, err)
	}
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return failWith(c, err)
	}

	return c.Status(201).JSON(Response{Success: true, Message: "Product created", Data: product})
}

// DeleteProduct archives the product. The body is optional; without a deleted_by the
// signed-in name is recorded.
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return fail(c, 400, "Invalid product ID")
	}

	var req deleteProductRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, 400, "Invalid JSON")
		}
	}
	if req.DeletedBy == "" {
		req.DeletedBy = getUserName(c)
	}

	archived, err := h.service.DeleteProduct(c.UserContext(), id, req.DeletedBy, req.Reason)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(Response{Success: true, Message: "Product deleted", Data: archived})
}

func (h *InventoryHandler) GetDeletedProducts(c *fiber.Ctx) error {
	archived, err := h.service.GetDeletedProducts(c.UserContext())
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, archived)
}

func (h *InventoryHandler) RestoreProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("productId"))
	if err != nil {
		return fail(c, 400, "Invalid product ID")
	}

	product, err := h.service.RestoreProduct(c.UserContext(), id)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(Response{Success: true, Message: "Product restored", Data: product})
}

func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var req updateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	result, err := h.service.UpdateStockByName(c.UserContext(), req.Items)
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, result)
}
