package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	ErrNotANumber = errors.New("must be a number")
)

const (
	maxQ       = 100
	maxBarcode = 256
	maxName    = 200
	maxSpec    = 4000
	maxAmount  = 1_000_000_000
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q caps a search query. An empty query is valid and lists everything.
func Q(s string) (string, bool) {
	if len(s) > maxQ {
		return "", false
	}
	return s, !hasControl(s)
}

// Barcode accepts a decoded code as-is: no trimming, any symbology, no control characters.
func Barcode(s string) (string, bool) {
	if s == "" || len(s) > maxBarcode {
		return "", false
	}
	return s, !hasControl(s)
}

// ID validates a product id (uuid).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}

// Name trims a product name. An empty result is left for the lifecycle rules to reject.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= maxName
}

func Specification(s string) (string, bool) {
	return s, len(s) <= maxSpec
}

// Price parses a decimal form value; blank means 0.
func Price(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	return d, nil
}

// Amount parses a stock count; blank means 0.
func Amount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxAmount || n < -maxAmount {
		return 0, ErrNotANumber
	}
	return n, nil
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
