package domain

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// Stock statuses derived from Product.Amount.
const (
	StockIn  = "IN_STOCK"
	StockLow = "LOW_STOCK"
	StockOut = "OUT_OF_STOCK"
)

// ProductFields holds every mutable attribute of a product. It doubles as the
// working copy used while creating or editing.
type ProductFields struct {
	Name          string
	Barcode       string
	Image         []byte
	Amount        int
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	OfferPrice    decimal.Decimal
	Specification string
}

// Product is the canonical catalog record.
type Product struct {
	ID string
	ProductFields
	CreatedAt time.Time
}

// DefaultFields returns the values a new product starts with.
func DefaultFields(barcode string) ProductFields {
	return ProductFields{
		Barcode:    barcode,
		BuyPrice:   decimal.Zero,
		SellPrice:  decimal.Zero,
		OfferPrice: decimal.Zero,
	}
}

// Clone returns a copy that shares no memory with f.
func (f ProductFields) Clone() ProductFields {
	if f.Image != nil {
		f.Image = bytes.Clone(f.Image)
	}
	return f
}

// HasImage reports whether a photo is attached.
func (f ProductFields) HasImage() bool { return len(f.Image) > 0 }

// OnOffer reports whether the offer price is active. Zero or negative means no offer.
func (f ProductFields) OnOffer() bool { return f.OfferPrice.IsPositive() }

// Stock converts Amount to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (f ProductFields) Stock() string {
	switch {
	case f.Amount >= 5:
		return StockIn
	case f.Amount > 0:
		return StockLow
	}
	return StockOut
}

// Availability is the JSON view of a product's stock.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
