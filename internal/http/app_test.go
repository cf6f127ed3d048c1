package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"novastock/internal/config"
	"novastock/internal/domain"
	"novastock/internal/http/handlers"
	"novastock/internal/repos"
	"novastock/internal/services"
)

const (
	operatorEmail = "operator@novastock.test"
	operatorPass  = "Passw0rd!"
)

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	db   *sqlx.DB
}

// newTestEnv wires the real routes the way main does, minus the global limiter.
func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.EnsureOperator(db, operatorEmail, "Operator", operatorPass))

	bus := EventBus.New()
	require.NoError(t, services.SubscribeAudit(bus))
	auth := services.NewOperatorAuth(repos.NewUserRepo(db))
	deps := handlers.NewDeps(db, cfg, bus)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Use(handlers.LoadOperator(auth))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	handlers.Routes(app, deps, auth)
	return &testEnv{app: app, deps: deps, db: db}
}

// seed creates a product through the lifecycle, bypassing HTTP.
func (e *testEnv) seed(t *testing.T, name, barcode string, amount int) domain.Product {
	t.Helper()
	lc := e.deps.Catalog.NewProduct(barcode)
	f := lc.Draft()
	f.Name = name
	f.Amount = amount
	f.BuyPrice = decimal.RequireFromString("1.20")
	f.SellPrice = decimal.RequireFromString("1.99")
	require.NoError(t, lc.SetDraft(f))
	p, err := lc.Create()
	require.NoError(t, err)
	return p
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM products`))
	return n
}

type client struct {
	t    *testing.T
	app  *fiber.App
	csrf string
	sid  string
}

// newClient fetches a csrf cookie the way a browser would before its first form post.
func newClient(t *testing.T, app *fiber.App) *client {
	t.Helper()
	cl := &client{t: t, app: app}
	resp := cl.get("/login")
	cl.csrf = cookie(resp, "csrf_")
	require.NotEmpty(t, cl.csrf, "csrf token missing")
	return cl
}

func (cl *client) login() {
	cl.t.Helper()
	resp := cl.postForm("/login", url.Values{"email": {operatorEmail}, "password": {operatorPass}})
	require.Equal(cl.t, http.StatusFound, resp.StatusCode)
	cl.sid = cookie(resp, "sid")
	require.NotEmpty(cl.t, cl.sid, "sid cookie missing")
}

func (cl *client) do(req *http.Request) *http.Response {
	cl.t.Helper()
	if cl.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: cl.csrf})
	}
	if cl.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cl.sid})
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	return resp
}

func (cl *client) get(path string) *http.Response {
	return cl.do(httptest.NewRequest("GET", path, nil))
}

func (cl *client) postForm(path string, form url.Values) *http.Response {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", cl.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postMultipart(path string, fields url.Values, image []byte) *http.Response {
	cl.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(cl.t, w.WriteField("csrf", cl.csrf))
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(cl.t, w.WriteField(k, v))
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "photo.png")
		require.NoError(cl.t, err)
		_, err = fw.Write(image)
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, w.Close())
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return cl.do(req)
}

func (cl *client) postJSON(path, body string) *http.Response {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func productForm(name, barcode, buy, sell string) url.Values {
	return url.Values{
		"name":          {name},
		"barcode":       {barcode},
		"amount":        {"3"},
		"buy_price":     {buy},
		"sell_price":    {sell},
		"offer_price":   {"0"},
		"specification": {""},
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

// captureLogs swaps the standard logger output for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	mu.Lock()
	defer mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
