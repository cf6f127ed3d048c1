package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"novastock/internal/config"
	"novastock/internal/http/handlers"
	applog "novastock/internal/log"
	"novastock/internal/repos"
	"novastock/internal/scanner"
	"novastock/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional rotating file log next to stdout
	if cfg.LogFile != "" {
		rot := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		defer rot.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, rot))
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.EnsureOperator(db, cfg.OperatorEmail, "Operator", cfg.OperatorPass); err != nil {
		log.Fatal(err)
	}
	if cfg.SeedDemo {
		if err := repos.SeedDemo(db); err != nil {
			log.Fatal(err)
		}
	}

	bus := EventBus.New()
	if err := services.SubscribeAudit(bus); err != nil {
		log.Fatal(err)
	}

	auth := services.NewOperatorAuth(repos.NewUserRepo(db))
	deps := handlers.NewDeps(db, cfg, bus)

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.LoadOperator(auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/image")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	handlers.Routes(app, deps, auth)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	// ---------- Scan loop ----------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := []scanner.Source{deps.Pushed}
	if cfg.ScannerInput == "stdin" {
		log.Printf("[scanner] reading codes from stdin")
		sources = append(sources, scanner.NewLineSource(os.Stdin))
	}
	go func() {
		if err := deps.Flow.Run(ctx, scanner.Merge(sources...)); err != nil && !errors.Is(err, context.Canceled) {
			applog.Error(nil, "scan.loop.stop", err, nil)
		}
	}()

	go func() {
		<-ctx.Done()
		deps.Pushed.Close()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
