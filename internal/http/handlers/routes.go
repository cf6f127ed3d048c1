package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "novastock/internal/log"
	"novastock/internal/services"
)

// Routes mounts every page and API endpoint. Global middleware (request id,
// csrf, LoadOperator) is the caller's job.
func Routes(app *fiber.App, d *Deps, auth *services.OperatorAuth) {
	authH := &AuthHandler{Auth: auth}
	requireOperator := RequireOperator(auth)

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/products") })

	// Catalog pages; /products/new must precede /products/:id
	app.Get("/products", d.ProductHandler.List)
	app.Get("/products/new", requireOperator, d.ProductHandler.NewForm)
	app.Post("/products", requireOperator, d.ProductHandler.Create)
	app.Get("/products/:id", d.ProductHandler.Detail)
	app.Get("/products/:id/image", d.ProductHandler.Image)
	app.Get("/products/:id/edit", requireOperator, d.ProductHandler.EditForm)
	app.Post("/products/:id", requireOperator, d.ProductHandler.Update)
	app.Post("/products/:id/delete", requireOperator, d.ProductHandler.Delete)

	// Scanning
	app.Get("/scan", d.ScanHandler.Form)
	app.Post("/scan", d.ScanHandler.Resolve)
	app.Post("/scan/discard", d.ScanHandler.Discard)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", d.APIHandler.Products)
	api.Get("/lookup", d.APIHandler.Lookup)
	api.Get("/availability", d.APIHandler.Availability)
	api.Post("/scans", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 10 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|scans"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.scans.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.ScanHandler.Push)

	// Auth (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
