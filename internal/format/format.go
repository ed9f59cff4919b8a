// Package format renders amounts and dates for display in the pt-BR locale.
// Stored values are never rounded; rounding happens only here.
package format

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

const (
	minQuantityDigits = 2
	maxQuantityDigits = 8
)

// BRL formats value as Brazilian reais with two decimals, e.g. R$1.234,56
func BRL(value decimal.Decimal) string {
	cents := value.Round(2).Shift(2).IntPart()
	return money.New(cents, money.BRL).Display()
}

// Quantity formats an asset amount or rate with pt-BR separators and 2 to 8 fraction digits
func Quantity(value decimal.Decimal) string {
	rounded := value.Round(maxQuantityDigits)

	digits := minQuantityDigits
	if _, frac, ok := strings.Cut(rounded.String(), "."); ok && len(frac) > digits {
		digits = len(frac)
	}

	f := money.NewFormatter(digits, ",", ".", "", "1")
	return f.Format(rounded.Shift(int32(digits)).IntPart())
}

// Date formats d as DD/MM/YYYY; the zero Date formats as ""
func Date(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), int(d.Month()), d.Year())
}
