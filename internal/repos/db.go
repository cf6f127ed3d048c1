package repos

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite catalog and makes sure the schema exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products; created_at (fixed-width UTC text) orders the catalog for barcode tie-breaks
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (name <> ''),
  barcode TEXT NOT NULL DEFAULT '',
  image BLOB,
  amount INTEGER NOT NULL DEFAULT 0,
  buy_price TEXT NOT NULL,
  sell_price TEXT NOT NULL,
  offer_price TEXT NOT NULL DEFAULT '0',
  specification TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode);
CREATE INDEX IF NOT EXISTS idx_products_name    ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_created ON products(created_at);

-- Operator & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// EnsureOperator creates the operator account if the email is not taken yet (idempotent).
func EnsureOperator(db *sqlx.DB, email, name, password string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash)
		VALUES(?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`, "u-"+uuid.NewString(), email, name, string(h))
	return err
}

// SeedDemo inserts a few demo products when the catalog is empty.
func SeedDemo(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	type demo struct {
		name, barcode, spec string
		amount              int
		buy, sell, offer    string
	}
	demos := []demo{
		{"Apple Juice 1L", "6260100300015", "Pasteurized, no added sugar", 12, "18", "25", "0"},
		{"Olive Soap", "6260100300022", "Handmade, 120g", 3, "10", "15", "12"},
		{"Green Tea 100g", "6260100300039", "Loose leaf", 0, "40", "55", "0"},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i, d := range demos {
		_, err := tx.Exec(`
			INSERT INTO products(id,name,barcode,amount,buy_price,sell_price,offer_price,specification,created_at)
			VALUES(?,?,?,?,?,?,?,?,?)
		`, uuid.NewString(), d.name, d.barcode, d.amount,
			decimal.RequireFromString(d.buy), decimal.RequireFromString(d.sell), decimal.RequireFromString(d.offer),
			d.spec, formatTime(now.Add(time.Duration(i)*time.Millisecond)))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// timeLayout keeps every fraction digit so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
