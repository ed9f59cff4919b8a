package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeRate is the exchange commission (0.1%) applied to every trade
// It is captured into AssetTrade at entry time and re-applied by the KPI totals
var FeeRate = decimal.New(1, -3)

// TradeType represents the side of an asset trade
type TradeType string

const (
	TradeTypeBuy  TradeType = "COMPRA"
	TradeTypeSell TradeType = "VENTA"
)

// Valid reports whether t is a known trade type
func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// AssetTrade represents a BRL <-> crypto-asset trade
// Amount, Fee, FeeValue, NetAmount and FinalRate are derived from BRLValue and Rate when the
// trade is entered and then stored verbatim; they are never recomputed on read
type AssetTrade struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Type      TradeType       `json:"type"`
	Date      Date            `json:"date"`
	BRLValue  decimal.Decimal `json:"brlValue"`
	Rate      decimal.Decimal `json:"rate"`      // BRL per asset unit
	Amount    decimal.Decimal `json:"amount"`    // Gross units: BRLValue / Rate
	Fee       decimal.Decimal `json:"fee"`       // Fee in asset units
	FeeValue  decimal.Decimal `json:"feeValue"`  // Fee in BRL
	NetAmount decimal.Decimal `json:"netAmount"` // Units after fee
	FinalRate decimal.Decimal `json:"finalRate"` // Effective BRL per unit after fee
}

func (t AssetTrade) RecordID() string { return t.ID }
func (t AssetTrade) RecordDate() Date { return t.Date }
func (t AssetTrade) WithID(id string) AssetTrade {
	t.ID = id
	return t
}

// Validate ensures the trade carries the fields required to be stored
func (t *AssetTrade) Validate() error {
	if t.Currency == "" {
		return fmt.Errorf("%w: trade currency is required", ErrValidation)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: trade type must be COMPRA or VENTA", ErrValidation)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: trade date is required", ErrValidation)
	}
	return nil
}
