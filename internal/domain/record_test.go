package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBRLMovement_Validate(t *testing.T) {
	tests := []struct {
		name     string
		movement BRLMovement
		wantErr  bool
		errMsg   string
	}{
		{
			name: "valid deposit",
			movement: BRLMovement{
				Type:     MovementTypeDeposit,
				Date:     MustParseDate("2024-01-10"),
				BRLValue: decimal.NewFromInt(1000),
			},
		},
		{
			name: "negative value is accepted as entered",
			movement: BRLMovement{
				Type:     MovementTypeWithdraw,
				Date:     MustParseDate("2024-01-10"),
				BRLValue: decimal.NewFromInt(-50),
			},
		},
		{
			name: "unknown type should fail",
			movement: BRLMovement{
				Type:     MovementType("TRANSFER"),
				Date:     MustParseDate("2024-01-10"),
				BRLValue: decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "movement type must be DEPOSITO or RETIRO",
		},
		{
			name: "missing date should fail",
			movement: BRLMovement{
				Type:     MovementTypeDeposit,
				BRLValue: decimal.NewFromInt(10),
			},
			wantErr: true,
			errMsg:  "movement date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetTrade_Validate(t *testing.T) {
	valid := AssetTrade{
		Currency: "USDT",
		Type:     TradeTypeBuy,
		Date:     MustParseDate("2024-01-10"),
		BRLValue: decimal.NewFromInt(1000),
		Rate:     decimal.NewFromInt(5),
	}
	assert.NoError(t, valid.Validate())

	noCurrency := valid
	noCurrency.Currency = ""
	assert.ErrorIs(t, noCurrency.Validate(), ErrValidation)

	badType := valid
	badType.Type = TradeType("SWAP")
	err := badType.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "trade type must be COMPRA or VENTA")

	noDate := valid
	noDate.Date = Date{}
	assert.ErrorIs(t, noDate.Validate(), ErrValidation)
}

func TestAssetMovement_Validate(t *testing.T) {
	valid := AssetMovement{
		Currency: "BTC",
		Type:     MovementTypeWithdraw,
		Date:     MustParseDate("2024-01-10"),
		Amount:   decimal.RequireFromString("0.5"),
	}
	assert.NoError(t, valid.Validate())

	noCurrency := valid
	noCurrency.Currency = ""
	err := noCurrency.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "currency is required")
}

func TestRecord_WithIDLeavesOriginalUntouched(t *testing.T) {
	original := AssetTrade{Currency: "BTC"}
	stored := original.WithID("trade-1")

	assert.Equal(t, "trade-1", stored.RecordID())
	assert.Empty(t, original.ID)
}

func TestRecord_PersistedLayout(t *testing.T) {
	trade := AssetTrade{
		ID:        "trade-1",
		Currency:  "USDT",
		Type:      TradeTypeBuy,
		Date:      MustParseDate("2024-01-10"),
		BRLValue:  decimal.NewFromInt(1000),
		Rate:      decimal.NewFromInt(5),
		Amount:    decimal.NewFromInt(200),
		Fee:       decimal.RequireFromString("0.2"),
		FeeValue:  decimal.NewFromInt(1),
		NetAmount: decimal.RequireFromString("199.8"),
		FinalRate: decimal.RequireFromString("5.005"),
	}

	data, err := json.Marshal(trade)
	require.NoError(t, err)

	// Numbers are JSON numbers and dates are plain YYYY-MM-DD strings
	assert.JSONEq(t, `{
		"id": "trade-1", "currency": "USDT", "type": "COMPRA", "date": "2024-01-10",
		"brlValue": 1000, "rate": 5, "amount": 200, "fee": 0.2, "feeValue": 1,
		"netAmount": 199.8, "finalRate": 5.005
	}`, string(data))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("trade")
	require.NoError(t, err)
	assert.Equal(t, KindAssetTrade, kind)

	_, err = ParseKind("stocks")
	assert.ErrorIs(t, err, ErrValidation)
}
