package handlers

import (
	"errors"
	"net/url"

	"novastock/internal/log"
	"novastock/internal/scanner"
	"novastock/internal/services"
	"novastock/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ScanHandler struct {
	Catalog *services.CatalogService
	Flow    *services.ScanFlow
	Source  *scanner.ChannelSource
}

// GET /scan
func (h *ScanHandler) Form(c *fiber.Ctx) error {
	data := fiber.Map{}
	if last, ok, lastErr := h.Flow.Last(); ok || lastErr != nil {
		data["Last"] = last
		data["HasLast"] = ok
		if ok && !last.Found {
			data["CreateURL"] = createURL(last.Barcode)
		}
		if lastErr != nil {
			data["ScanErr"] = "The scanner stopped: " + lastErr.Error()
		}
	}
	return render(c, "scan", data)
}

// POST /scan/discard drops the last background resolution.
func (h *ScanHandler) Discard(c *fiber.Ctx) error {
	h.Flow.Discard()
	return c.Redirect("/scan")
}

func createURL(barcode string) string {
	return "/products/new?barcode=" + url.QueryEscape(barcode)
}

// POST /scan resolves one code: a hit goes straight to the product, a miss
// offers to create it or to scan again.
func (h *ScanHandler) Resolve(c *fiber.Ctx) error {
	raw := c.FormValue("barcode")
	code, ok := validate.Barcode(raw)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "barcode"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "scan", fiber.Map{"Err": "Scan or type a barcode"})
	}
	res, err := h.Catalog.Resolve(code)
	if err != nil {
		log.Error(c, "scan.resolve.fail", err, map[string]any{"barcode": code})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not look up the barcode. Please retry."})
	}
	if res.Found {
		log.Info(c, "scan.hit", map[string]any{"barcode": code, "product": res.Product.ID})
		return c.Redirect("/products/" + res.Product.ID)
	}
	log.Info(c, "scan.miss", map[string]any{"barcode": code})
	return render(c, "scan_result", fiber.Map{
		"Barcode":   code,
		"CreateURL": createURL(code),
	})
}

type pushRequest struct {
	Barcode string `json:"barcode" form:"barcode"`
}

// POST /api/v1/scans queues a code decoded on the device for the scan loop.
func (h *ScanHandler) Push(c *fiber.Ctx) error {
	var req pushRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	code, ok := validate.Barcode(req.Barcode)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "barcode"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing barcode"})
	}
	// the scan loop reads the code after this request's buffers are reused
	if err := h.Source.Push(utils.CopyString(code)); err != nil {
		if errors.Is(err, scanner.ErrBusy) {
			log.Security(c, "scan.queue.full", map[string]any{"barcode": code})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": true, "barcode": code})
}
