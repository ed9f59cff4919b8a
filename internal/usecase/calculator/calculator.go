package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// Result holds the fields derived from a trade's BRL value and rate
type Result struct {
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	FeeValue  decimal.Decimal `json:"feeValue"`
	NetAmount decimal.Decimal `json:"netAmount"`
	FinalRate decimal.Decimal `json:"finalRate"`
}

// Calculate derives the trade figures from the BRL value and the exchange rate
// Logic:
//   - Amount    = BRLValue / Rate
//   - Fee       = Amount * FeeRate (asset units)
//   - FeeValue  = BRLValue * FeeRate (BRL)
//   - NetAmount = Amount - Fee
//   - FinalRate = BRLValue / NetAmount, or 0 when NetAmount is not positive
//
// A rate <= 0 is invalid input and yields the zero Result. Nothing is rounded here;
// rounding only happens when values are displayed
func Calculate(brlValue, rate decimal.Decimal) Result {
	if !rate.IsPositive() {
		return Result{}
	}

	amount := brlValue.Div(rate)
	fee := amount.Mul(domain.FeeRate)
	feeValue := brlValue.Mul(domain.FeeRate)
	netAmount := amount.Sub(fee)

	finalRate := decimal.Zero
	if netAmount.IsPositive() {
		finalRate = brlValue.Div(netAmount)
	}

	return Result{
		Amount:    amount,
		Fee:       fee,
		FeeValue:  feeValue,
		NetAmount: netAmount,
		FinalRate: finalRate,
	}
}

// CalculateFromInput is Calculate for raw user input, as typed into a trade form
// Missing or non-numeric values yield the zero Result, so a live preview resets to zero
func CalculateFromInput(brlValue, rate string) Result {
	brl, err := decimal.NewFromString(strings.TrimSpace(brlValue))
	if err != nil {
		return Result{}
	}
	r, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		return Result{}
	}
	return Calculate(brl, r)
}

// IsZero reports whether every derived field is zero
func (r Result) IsZero() bool {
	return r.Amount.IsZero() && r.Fee.IsZero() && r.FeeValue.IsZero() &&
		r.NetAmount.IsZero() && r.FinalRate.IsZero()
}

// Apply copies the derived fields onto trade
func (r Result) Apply(trade *domain.AssetTrade) {
	trade.Amount = r.Amount
	trade.Fee = r.Fee
	trade.FeeValue = r.FeeValue
	trade.NetAmount = r.NetAmount
	trade.FinalRate = r.FinalRate
}
