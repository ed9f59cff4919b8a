package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// DustThreshold is the balance at or below which a holding is hidden from the summary
var DustThreshold = decimal.New(1, -8)

// AssetSummary represents the current position in a single currency
type AssetSummary struct {
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	AvgBuyPrice decimal.Decimal `json:"avgBuyPrice"`
}

// position accumulates the running figures of one currency
type position struct {
	balance           decimal.Decimal
	totalBRLSpent     decimal.Decimal
	totalAmountBought decimal.Decimal
}

// Summarize folds trades and asset movements into one AssetSummary per currency
// Logic:
//   - COMPRA: balance += NetAmount, spent += BRLValue, bought += Amount
//     (holdings shrink by the fee but the cost basis uses gross spend over gross amount)
//   - VENTA: balance -= Amount (sell-side fees are not modeled)
//   - DEPOSITO movement: balance += Amount
//   - RETIRO movement: balance -= Amount + NetworkFee
//   - AvgBuyPrice = spent / bought, or 0 when nothing was bought
//
// Balances are not checked against overdraft and may go negative. Currencies whose balance is
// at or below DustThreshold are dropped and the result is sorted by currency ticker.
// Summarize keeps no state between calls: the same inputs always give the same output
func Summarize(trades []domain.AssetTrade, movements []domain.AssetMovement) []AssetSummary {
	positions := make(map[string]*position)
	order := make([]string, 0)

	get := func(currency string) *position {
		p, ok := positions[currency]
		if !ok {
			p = &position{}
			positions[currency] = p
			order = append(order, currency)
		}
		return p
	}

	for _, trade := range trades {
		p := get(trade.Currency)
		if trade.Type == domain.TradeTypeBuy {
			p.balance = p.balance.Add(trade.NetAmount)
			p.totalBRLSpent = p.totalBRLSpent.Add(trade.BRLValue)
			p.totalAmountBought = p.totalAmountBought.Add(trade.Amount)
		} else {
			p.balance = p.balance.Sub(trade.Amount)
		}
	}

	for _, movement := range movements {
		p := get(movement.Currency)
		if movement.Type == domain.MovementTypeDeposit {
			p.balance = p.balance.Add(movement.Amount)
		} else {
			p.balance = p.balance.Sub(movement.Amount.Add(movement.NetworkFee))
		}
	}

	summaries := make([]AssetSummary, 0, len(order))
	for _, currency := range order {
		p := positions[currency]
		if p.balance.LessThanOrEqual(DustThreshold) {
			continue
		}

		avgBuyPrice := decimal.Zero
		if p.totalAmountBought.IsPositive() {
			avgBuyPrice = p.totalBRLSpent.Div(p.totalAmountBought)
		}

		summaries = append(summaries, AssetSummary{
			Currency:    currency,
			Balance:     p.balance,
			AvgBuyPrice: avgBuyPrice,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Currency < summaries[j].Currency
	})

	return summaries
}
