package kpi

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// KPIs represents the aggregate BRL figures of the dashboard
type KPIs struct {
	TotalDeposited    decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn    decimal.Decimal `json:"totalWithdrawn"`
	TotalBRLInvested  decimal.Decimal `json:"totalBRLInvested"`
	TotalBRLFromSales decimal.Decimal `json:"totalBRLFromSales"`
	TotalFees         decimal.Decimal `json:"totalFees"`
	BRLBalance        decimal.Decimal `json:"brlBalance"`
}

// TradeFee returns the fee of a trade at the current FeeRate
func TradeFee(brlValue decimal.Decimal) decimal.Decimal {
	return brlValue.Mul(domain.FeeRate)
}

// Compute folds BRL movements and asset trades into the dashboard totals
// Logic:
//   - TotalDeposited / TotalWithdrawn: BRLValue of DEPOSITO / RETIRO movements
//   - TotalBRLInvested / TotalBRLFromSales: BRLValue of COMPRA / VENTA trades
//   - TotalFees: TradeFee(BRLValue) over every trade, buys and sells alike. The stored
//     FeeValue is ignored on purpose: totals follow the current FeeRate
//   - BRLBalance = TotalDeposited - TotalBRLInvested (withdrawals and sale proceeds are not netted)
func Compute(movements []domain.BRLMovement, trades []domain.AssetTrade) KPIs {
	var k KPIs

	for _, m := range movements {
		switch m.Type {
		case domain.MovementTypeDeposit:
			k.TotalDeposited = k.TotalDeposited.Add(m.BRLValue)
		case domain.MovementTypeWithdraw:
			k.TotalWithdrawn = k.TotalWithdrawn.Add(m.BRLValue)
		}
	}

	for _, t := range trades {
		switch t.Type {
		case domain.TradeTypeBuy:
			k.TotalBRLInvested = k.TotalBRLInvested.Add(t.BRLValue)
		case domain.TradeTypeSell:
			k.TotalBRLFromSales = k.TotalBRLFromSales.Add(t.BRLValue)
		}
		k.TotalFees = k.TotalFees.Add(TradeFee(t.BRLValue))
	}

	k.BRLBalance = k.TotalDeposited.Sub(k.TotalBRLInvested)

	return k
}
