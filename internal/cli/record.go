package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/entry"
)

type brlCmd struct {
	env          *Env
	name         string
	synopsis     string
	movementType domain.MovementType

	date  string
	value string
	proof string
}

func (c *brlCmd) Name() string     { return c.name }
func (c *brlCmd) Synopsis() string { return c.synopsis }
func (c *brlCmd) Usage() string {
	return `coinflow ` + c.name + ` -value <brl> [-date <YYYY-MM-DD>] [-proof <text>]

  Records a BRL movement of type ` + string(c.movementType) + `. The date defaults to today.
`
}

func (c *brlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Movement date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.value, "value", "", "Amount in BRL.")
	f.StringVar(&c.proof, "proof", "", "Optional reference, e.g. a receipt or transfer id.")
}

func (c *brlCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := entry.BRLMovementInput{
		Type:     string(c.movementType),
		Date:     orDefault(c.date, c.env.today()),
		BRLValue: c.value,
		Proof:    c.proof,
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		movement, err := a.EntryService.RecordBRLMovement(ctx, input)
		if err != nil {
			return err
		}
		c.env.printMarkdown(renderBRLMovements("Saved", []domain.BRLMovement{*movement}))
		return nil
	})
}

type tradeCmd struct {
	env       *Env
	name      string
	synopsis  string
	tradeType domain.TradeType

	currency string
	date     string
	value    string
	rate     string
}

func (c *tradeCmd) Name() string     { return c.name }
func (c *tradeCmd) Synopsis() string { return c.synopsis }
func (c *tradeCmd) Usage() string {
	return `coinflow ` + c.name + ` -currency <ticker> -value <brl> -rate <brl per unit> [-date <YYYY-MM-DD>]

  Records a ` + string(c.tradeType) + ` trade. Amount, fee, net amount and effective rate are
  derived from the BRL value and the rate.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", presetHint())
	f.StringVar(&c.date, "date", "", "Trade date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.value, "value", "", "BRL value of the trade.")
	f.StringVar(&c.rate, "rate", "", "Exchange rate in BRL per unit.")
}

func (c *tradeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := entry.AssetTradeInput{
		Currency: c.currency,
		Type:     string(c.tradeType),
		Date:     orDefault(c.date, c.env.today()),
		BRLValue: c.value,
		Rate:     c.rate,
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		trade, err := a.EntryService.RecordTrade(ctx, input)
		if err != nil {
			return err
		}
		c.env.printMarkdown(renderTrades("Saved", []domain.AssetTrade{*trade}))
		return nil
	})
}

type assetCmd struct {
	env          *Env
	name         string
	synopsis     string
	movementType domain.MovementType

	currency string
	date     string
	amount   string
	fee      string
	hash     string
}

func (c *assetCmd) Name() string     { return c.name }
func (c *assetCmd) Synopsis() string { return c.synopsis }
func (c *assetCmd) Usage() string {
	return `coinflow ` + c.name + ` -currency <ticker> -amount <units> [-fee <units>] [-hash <tx>] [-date <YYYY-MM-DD>]

  Records an asset movement of type ` + string(c.movementType) + `. For RETIRO the network fee
  is deducted from the balance on top of the amount.
`
}

func (c *assetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", presetHint())
	f.StringVar(&c.date, "date", "", "Movement date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.amount, "amount", "", "Amount in asset units.")
	f.StringVar(&c.fee, "fee", "0", "Network fee in asset units.")
	f.StringVar(&c.hash, "hash", "", "Optional on-chain transaction reference.")
}

func (c *assetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := entry.AssetMovementInput{
		Currency:   c.currency,
		Type:       string(c.movementType),
		Date:       orDefault(c.date, c.env.today()),
		Amount:     c.amount,
		NetworkFee: c.fee,
		Hash:       c.hash,
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		movement, err := a.EntryService.RecordAssetMovement(ctx, input)
		if err != nil {
			return err
		}
		c.env.printMarkdown(renderAssetMovements("Saved", []domain.AssetMovement{*movement}))
		return nil
	})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
