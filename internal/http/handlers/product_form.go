package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"novastock/internal/domain"
	"novastock/internal/validate"
)

var errImageTooLarge = &domain.ValidationError{Field: "image", Message: "Photo is too large"}

// readProductForm overlays the submitted form onto base. Fields the form does
// not carry (the photo, when none is uploaded) keep base's value.
func readProductForm(c *fiber.Ctx, base domain.ProductFields, maxImage int) (domain.ProductFields, error) {
	f := base

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return f, &domain.ValidationError{Field: "name", Message: "Product name is too long"}
	}
	f.Name = name

	// the barcode is kept verbatim so lookups stay exact
	f.Barcode = c.FormValue("barcode")
	if f.Barcode != "" {
		if _, ok := validate.Barcode(f.Barcode); !ok {
			return f, &domain.ValidationError{Field: "barcode", Message: "Barcode is not valid"}
		}
	}

	spec, ok := validate.Specification(c.FormValue("specification"))
	if !ok {
		return f, &domain.ValidationError{Field: "specification", Message: "Specification is too long"}
	}
	f.Specification = spec

	amount, err := validate.Amount(c.FormValue("amount"))
	if err != nil {
		return f, &domain.ValidationError{Field: "amount", Message: "Amount must be a whole number"}
	}
	f.Amount = amount

	for _, p := range []struct {
		key, label string
		dst        *decimal.Decimal
	}{
		{"buy_price", "Buy price", &f.BuyPrice},
		{"sell_price", "Sell price", &f.SellPrice},
		{"offer_price", "Offer price", &f.OfferPrice},
	} {
		d, err := validate.Price(c.FormValue(p.key))
		if err != nil {
			return f, &domain.ValidationError{Field: p.key, Message: p.label + " must be a number"}
		}
		*p.dst = d
	}

	if c.FormValue("remove_image") == "1" {
		f.Image = nil
	}
	img, err := readImage(c, maxImage)
	if err != nil {
		return f, err
	}
	if img != nil {
		f.Image = img
	}
	return f, nil
}

// readImage returns nil when no photo was uploaded.
func readImage(c *fiber.Ctx, max int) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > int64(max) {
		return nil, errImageTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	b, err := io.ReadAll(io.LimitReader(file, int64(max)+1))
	if err != nil {
		return nil, err
	}
	if len(b) > max {
		return nil, errImageTooLarge
	}
	return b, nil
}

func asValidation(err error) (*domain.ValidationError, bool) {
	var ve *domain.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
