package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Records are persisted and exchanged with numeric fields as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// MovementType represents the direction of a BRL or asset movement
type MovementType string

const (
	MovementTypeDeposit  MovementType = "DEPOSITO"
	MovementTypeWithdraw MovementType = "RETIRO"
)

// Valid reports whether t is a known movement type
func (t MovementType) Valid() bool {
	return t == MovementTypeDeposit || t == MovementTypeWithdraw
}

// Collection keys in the key-value store
const (
	KeyBRLMovements   = "brlMovements"
	KeyAssetTrades    = "assetTrades"
	KeyAssetMovements = "assetMovements"
)

// Id prefixes, one namespace per collection
const (
	PrefixBRLMovement   = "brl-"
	PrefixAssetTrade    = "trade-"
	PrefixAssetMovement = "asset-"
)

// PresetCurrencies are the tickers offered by default; any other ticker is accepted too
var PresetCurrencies = []string{"USDT", "TRX", "BTC"}

var (
	// ErrValidation marks user input rejected before anything is saved
	ErrValidation = errors.New("validation failed")

	// ErrRecordNotFound is returned when an update targets an id that does not exist
	ErrRecordNotFound = errors.New("record not found")

	// ErrKeyNotFound is returned by a KeyValueStore when nothing is stored under the key
	ErrKeyNotFound = errors.New("key not found")

	// ErrNoData is returned when an export range matches no record
	ErrNoData = errors.New("no data in the selected date range")
)

// Record is implemented by the three persisted record kinds
// T is the record type itself so WithID can return a copy of the concrete value
type Record[T any] interface {
	RecordID() string
	RecordDate() Date
	WithID(id string) T
}

// Kind identifies one of the three record collections
type Kind string

const (
	KindBRLMovement   Kind = "brl"
	KindAssetTrade    Kind = "trade"
	KindAssetMovement Kind = "asset"
)

// ParseKind parses a collection kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBRLMovement, KindAssetTrade, KindAssetMovement:
		return k, nil
	default:
		return "", fmt.Errorf("%w: invalid kind %q, must be brl, trade or asset", ErrValidation, s)
	}
}
