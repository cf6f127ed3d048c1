package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"novastock/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Barcode       string          `db:"barcode"`
	Image         []byte          `db:"image"`
	Amount        int             `db:"amount"`
	BuyPrice      decimal.Decimal `db:"buy_price"`
	SellPrice     decimal.Decimal `db:"sell_price"`
	OfferPrice    decimal.Decimal `db:"offer_price"`
	Specification string          `db:"specification"`
	CreatedAt     string          `db:"created_at"`
}

func (r productRow) product() domain.Product {
	return domain.Product{
		ID: r.ID,
		ProductFields: domain.ProductFields{
			Name:          r.Name,
			Barcode:       r.Barcode,
			Image:         r.Image,
			Amount:        r.Amount,
			BuyPrice:      r.BuyPrice,
			SellPrice:     r.SellPrice,
			OfferPrice:    r.OfferPrice,
			Specification: r.Specification,
		},
		CreatedAt: parseTime(r.CreatedAt),
	}
}

const productCols = `id, name, barcode, image, amount, buy_price, sell_price, offer_price, specification, created_at`

// ListAll returns every product in creation order; rowid only breaks ties
// between equal timestamps.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT `+productCols+` FROM products ORDER BY created_at, rowid`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.product(), nil
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(`+productCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Barcode, p.Image, p.Amount, p.BuyPrice, p.SellPrice, p.OfferPrice,
		p.Specification, formatTime(p.CreatedAt))
	return err
}

// Update rewrites every mutable column; id and created_at are never touched.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET name = ?, barcode = ?, image = ?, amount = ?, buy_price = ?, sell_price = ?,
		    offer_price = ?, specification = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Barcode, p.Image, p.Amount, p.BuyPrice, p.SellPrice, p.OfferPrice, p.Specification, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
