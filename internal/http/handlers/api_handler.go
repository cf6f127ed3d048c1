package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"novastock/internal/domain"
	"novastock/internal/log"
	"novastock/internal/services"
	"novastock/internal/validate"
)

type APIHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

type productJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Amount        int             `json:"amount"`
	Stock         string          `json:"stock"`
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	OfferPrice    decimal.Decimal `json:"offer_price"`
	OnOffer       bool            `json:"on_offer"`
	Specification string          `json:"specification"`
	HasImage      bool            `json:"has_image"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toJSON(p domain.Product) productJSON {
	return productJSON{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Amount:        p.Amount,
		Stock:         p.Stock(),
		BuyPrice:      p.BuyPrice,
		SellPrice:     p.SellPrice,
		OfferPrice:    p.OfferPrice,
		OnOffer:       p.OnOffer(),
		Specification: p.Specification,
		HasImage:      p.HasImage(),
		CreatedAt:     p.CreatedAt,
	}
}

// GET /api/v1/products?q=
func (h *APIHandler) Products(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid q"})
	}
	products, err := h.Catalog.List(q)
	if err != nil {
		log.Error(c, "api.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toJSON(p))
	}
	return c.JSON(fiber.Map{"count": len(out), "products": out})
}

// GET /api/v1/lookup?barcode=
func (h *APIHandler) Lookup(c *fiber.Ctx) error {
	code, ok := validate.Barcode(c.Query("barcode"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing barcode"})
	}
	res, err := h.Catalog.Resolve(code)
	if err != nil {
		log.Error(c, "api.lookup.fail", err, map[string]any{"barcode": code})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	if !res.Found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"found": false, "barcode": code})
	}
	return c.JSON(fiber.Map{"found": true, "product": toJSON(res.Product)})
}

// GET /api/v1/availability?barcode=
func (h *APIHandler) Availability(c *fiber.Ctx) error {
	code, ok := validate.Barcode(c.Query("barcode"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing barcode"})
	}
	avail, found, err := h.Inv.CheckAvailability(code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"found": found, "status": avail.Status, "qty": avail.Qty})
}
