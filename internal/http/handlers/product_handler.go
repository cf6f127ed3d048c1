package handlers

import (
	"errors"
	"net/http"

	"novastock/internal/domain"
	"novastock/internal/log"
	"novastock/internal/services"
	"novastock/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog       *services.CatalogService
	MaxImageBytes int
}

// GET /products?q=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.Status(fiber.StatusBadRequest).Render("products", fiber.Map{
			"Q": "", "Products": []domain.Product{}, "Count": 0, "Err": "Search text is too long",
		})
	}
	products, err := h.Catalog.List(q)
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	return render(c, "products", fiber.Map{"Q": q, "Products": products, "Count": len(products)})
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	lc, ok := h.open(c)
	if !ok {
		return notFound(c, "This product no longer exists")
	}
	return render(c, "product", fiber.Map{"P": lc.Product()})
}

// GET /products/:id/edit
func (h *ProductHandler) EditForm(c *fiber.Ctx) error {
	lc, ok := h.open(c)
	if !ok {
		return notFound(c, "This product no longer exists")
	}
	if err := lc.BeginEdit(); err != nil {
		return err
	}
	return render(c, "product_edit", fiber.Map{"P": lc.Product(), "F": lc.Draft()})
}

// POST /products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	lc, ok := h.open(c)
	if !ok {
		return notFound(c, "This product no longer exists")
	}
	if err := lc.BeginEdit(); err != nil {
		return err
	}
	draft, err := readProductForm(c, lc.Draft(), h.MaxImageBytes)
	if err == nil {
		if err = lc.SetDraft(draft); err == nil {
			_, err = lc.Save()
		}
	}
	if err != nil {
		status := h.failStatus(c, "products.update.fail", err, lc.Product().ID)
		c.Status(status)
		return render(c, "product_edit", fiber.Map{"P": lc.Product(), "F": draft, "Err": err.Error()})
	}
	log.Info(c, "products.update", map[string]any{"product": lc.Product().ID})
	return c.Redirect("/products/" + lc.Product().ID)
}

// GET /products/new?barcode=
func (h *ProductHandler) NewForm(c *fiber.Ctx) error {
	lc := h.Catalog.NewProduct(c.Query("barcode"))
	return render(c, "product_new", fiber.Map{"F": lc.Draft()})
}

// POST /products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	lc := h.Catalog.NewProduct(c.FormValue("barcode"))
	draft, err := readProductForm(c, lc.Draft(), h.MaxImageBytes)
	var p domain.Product
	if err == nil {
		if err = lc.SetDraft(draft); err == nil {
			p, err = lc.Create()
		}
	}
	if err != nil {
		status := h.failStatus(c, "products.create.fail", err, "")
		c.Status(status)
		return render(c, "product_new", fiber.Map{"F": draft, "Err": err.Error()})
	}
	log.Info(c, "products.create", map[string]any{"product": p.ID, "barcode": p.Barcode})
	return c.Redirect("/products/" + p.ID)
}

// POST /products/:id/delete
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "This product no longer exists")
	}
	if err := h.Catalog.Delete(id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return notFound(c, "This product no longer exists")
		}
		log.Error(c, "products.delete.fail", err, map[string]any{"product": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": err.Error()})
	}
	log.Info(c, "products.delete", map[string]any{"product": id})
	return c.Redirect("/products")
}

// GET /products/:id/image
func (h *ProductHandler) Image(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || !p.HasImage() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, http.DetectContentType(p.Image))
	return c.Send(p.Image)
}

func (h *ProductHandler) open(c *fiber.Ctx) (*services.Lifecycle, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return nil, false
	}
	lc, err := h.Catalog.Open(id)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			log.Error(c, "products.load.fail", err, map[string]any{"product": id})
		}
		return nil, false
	}
	return lc, true
}

// failStatus logs a failed create/save and picks the response status.
// Validation problems are the operator's to fix; store failures are passed through.
func (h *ProductHandler) failStatus(c *fiber.Ctx, action string, err error, id string) int {
	if ve, ok := asValidation(err); ok {
		log.Info(c, "validation.fail", map[string]any{"field": ve.Field, "product": id})
		return fiber.StatusBadRequest
	}
	log.Error(c, action, err, map[string]any{"product": id})
	if errors.Is(err, domain.ErrProductNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
