package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BRLMovement represents a fiat cash deposit into or withdrawal out of the tracked account
type BRLMovement struct {
	ID       string          `json:"id"`
	Type     MovementType    `json:"type"`
	Date     Date            `json:"date"`
	BRLValue decimal.Decimal `json:"brlValue"`
	Proof    string          `json:"proof"` // Free text reference (receipt, transfer id)
}

func (m BRLMovement) RecordID() string { return m.ID }
func (m BRLMovement) RecordDate() Date { return m.Date }
func (m BRLMovement) WithID(id string) BRLMovement {
	m.ID = id
	return m
}

// Validate ensures the movement carries the fields required to be stored
// Amounts are not range checked: negative values are accepted as entered
func (m *BRLMovement) Validate() error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: movement type must be DEPOSITO or RETIRO", ErrValidation)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: movement date is required", ErrValidation)
	}
	return nil
}

// AssetMovement represents crypto-asset units entering or leaving the tracked wallet
type AssetMovement struct {
	ID         string          `json:"id"`
	Currency   string          `json:"currency"`
	Type       MovementType    `json:"type"`
	Date       Date            `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	NetworkFee decimal.Decimal `json:"networkFee"` // Charged on top of Amount for RETIRO
	Hash       string          `json:"hash"`       // Free text on-chain reference
}

func (m AssetMovement) RecordID() string { return m.ID }
func (m AssetMovement) RecordDate() Date { return m.Date }
func (m AssetMovement) WithID(id string) AssetMovement {
	m.ID = id
	return m
}

// Validate ensures the movement carries the fields required to be stored
func (m *AssetMovement) Validate() error {
	if m.Currency == "" {
		return fmt.Errorf("%w: asset movement currency is required", ErrValidation)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: movement type must be DEPOSITO or RETIRO", ErrValidation)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: asset movement date is required", ErrValidation)
	}
	return nil
}
