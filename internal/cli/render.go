package cli

import (
	"fmt"
	"strings"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/format"
	"github.com/simaogato/coinflow-backend/internal/usecase/calculator"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
)

func renderBRLMovements(title string, records []domain.BRLMovement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(records) == 0 {
		b.WriteString("_No records._\n")
		return b.String()
	}

	b.WriteString("| Date | Type | Value | Proof | Id |\n|---|---|---:|---|---|\n")
	for _, m := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | `%s` |\n",
			format.Date(m.Date), m.Type, format.BRL(m.BRLValue), cell(m.Proof), m.ID)
	}
	return b.String()
}

func renderTrades(title string, records []domain.AssetTrade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(records) == 0 {
		b.WriteString("_No records._\n")
		return b.String()
	}

	b.WriteString("| Date | Type | Currency | BRL | Rate | Amount | Fee | Net | Final rate | Id |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---:|---:|---:|---|\n")
	for _, t := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			format.Date(t.Date), t.Type, t.Currency, format.BRL(t.BRLValue), format.Quantity(t.Rate),
			format.Quantity(t.Amount), format.BRL(t.FeeValue), format.Quantity(t.NetAmount),
			format.Quantity(t.FinalRate), t.ID)
	}
	return b.String()
}

func renderAssetMovements(title string, records []domain.AssetMovement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(records) == 0 {
		b.WriteString("_No records._\n")
		return b.String()
	}

	b.WriteString("| Date | Type | Currency | Amount | Network fee | Hash | Id |\n|---|---|---|---:|---:|---|---|\n")
	for _, m := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | `%s` |\n",
			format.Date(m.Date), m.Type, m.Currency, format.Quantity(m.Amount),
			format.Quantity(m.NetworkFee), cell(m.Hash), m.ID)
	}
	return b.String()
}

func renderPreview(r calculator.Result) string {
	var b strings.Builder
	b.WriteString("## Trade preview\n\n| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Amount | %s |\n", format.Quantity(r.Amount))
	fmt.Fprintf(&b, "| Fee (units) | %s |\n", format.Quantity(r.Fee))
	fmt.Fprintf(&b, "| Fee (BRL) | %s |\n", format.BRL(r.FeeValue))
	fmt.Fprintf(&b, "| Net amount | %s |\n", format.Quantity(r.NetAmount))
	fmt.Fprintf(&b, "| Final rate | %s |\n", format.Quantity(r.FinalRate))
	return b.String()
}

func renderDashboard(r *dashboard.Result) string {
	var b strings.Builder
	if r.From.IsZero() {
		fmt.Fprintf(&b, "# Dashboard (%s)\n\n", r.Period)
	} else {
		fmt.Fprintf(&b, "# Dashboard (%s, since %s)\n\n", r.Period, format.Date(r.From))
	}

	k := r.KPIs
	b.WriteString("| KPI | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| BRL balance | %s |\n", format.BRL(k.BRLBalance))
	fmt.Fprintf(&b, "| Total deposited | %s |\n", format.BRL(k.TotalDeposited))
	fmt.Fprintf(&b, "| Total withdrawn | %s |\n", format.BRL(k.TotalWithdrawn))
	fmt.Fprintf(&b, "| BRL invested | %s |\n", format.BRL(k.TotalBRLInvested))
	fmt.Fprintf(&b, "| BRL from sales | %s |\n", format.BRL(k.TotalBRLFromSales))
	fmt.Fprintf(&b, "| Fees | %s |\n", format.BRL(k.TotalFees))

	b.WriteString("\n## Holdings\n\n")
	if len(r.Assets) == 0 {
		b.WriteString("_No holdings._\n")
		return b.String()
	}
	b.WriteString("| Currency | Balance | Avg. buy price |\n|---|---:|---:|\n")
	for _, a := range r.Assets {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Currency, format.Quantity(a.Balance), format.BRL(a.AvgBuyPrice))
	}
	return b.String()
}

// cell escapes text for a markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
