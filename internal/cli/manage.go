package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/coinflow-backend/internal/usecase/entry"
	"github.com/simaogato/coinflow-backend/internal/usecase/export"
)

type previewCmd struct {
	env   *Env
	value string
	rate  string
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "compute a trade's amount and fees without saving it" }
func (*previewCmd) Usage() string {
	return `coinflow preview -value <brl> -rate <brl per unit>
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.value, "value", "", "BRL value of the trade.")
	f.StringVar(&c.rate, "rate", "", "Exchange rate in BRL per unit.")
}

func (c *previewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app.App) error {
		c.env.printMarkdown(renderPreview(a.EntryService.PreviewTrade(c.value, c.rate)))
		return nil
	})
}

type updateCmd struct {
	env  *Env
	kind string
	id   string

	recordType string
	date       string
	value      string
	proof      string
	currency   string
	rate       string
	amount     string
	fee        string
	hash       string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "edit a record; omitted fields keep their current value" }
func (*updateCmd) Usage() string {
	return `coinflow update -kind <brl|trade|asset> -id <id> [field flags]

  Replaces the record with the given id. Fields not given on the command line keep
  their current value; trade amounts and fees are recomputed.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Record kind: brl, trade or asset.")
	f.StringVar(&c.id, "id", "", "Id of the record to edit.")
	f.StringVar(&c.recordType, "type", "", "DEPOSITO/RETIRO for movements, COMPRA/VENTA for trades.")
	f.StringVar(&c.date, "date", "", "Date (YYYY-MM-DD).")
	f.StringVar(&c.value, "value", "", "BRL value (brl, trade).")
	f.StringVar(&c.proof, "proof", "", "Reference (brl).")
	f.StringVar(&c.currency, "currency", "", "Currency ticker (trade, asset).")
	f.StringVar(&c.rate, "rate", "", "Exchange rate (trade).")
	f.StringVar(&c.amount, "amount", "", "Amount in asset units (asset).")
	f.StringVar(&c.fee, "fee", "", "Network fee (asset).")
	f.StringVar(&c.hash, "hash", "", "On-chain reference (asset).")
}

func (c *updateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := domain.ParseKind(c.kind)
	if err != nil || c.id == "" {
		fmt.Fprintln(c.env.Err, "Error: -kind (brl, trade or asset) and -id are required.")
		return subcommands.ExitUsageError
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		switch kind {
		case domain.KindBRLMovement:
			current, err := find(ctx, a.BRLMovements, c.id)
			if err != nil {
				return err
			}
			updated, err := a.EntryService.EditBRLMovement(ctx, c.id, entry.BRLMovementInput{
				Type:     orDefault(c.recordType, string(current.Type)),
				Date:     orDefault(c.date, current.Date.String()),
				BRLValue: orDefault(c.value, current.BRLValue.String()),
				Proof:    orDefault(c.proof, current.Proof),
			})
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderBRLMovements("Updated", []domain.BRLMovement{*updated}))

		case domain.KindAssetTrade:
			current, err := find(ctx, a.AssetTrades, c.id)
			if err != nil {
				return err
			}
			updated, err := a.EntryService.EditTrade(ctx, c.id, entry.AssetTradeInput{
				Currency: orDefault(c.currency, current.Currency),
				Type:     orDefault(c.recordType, string(current.Type)),
				Date:     orDefault(c.date, current.Date.String()),
				BRLValue: orDefault(c.value, current.BRLValue.String()),
				Rate:     orDefault(c.rate, current.Rate.String()),
			})
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderTrades("Updated", []domain.AssetTrade{*updated}))

		case domain.KindAssetMovement:
			current, err := find(ctx, a.AssetMovements, c.id)
			if err != nil {
				return err
			}
			updated, err := a.EntryService.EditAssetMovement(ctx, c.id, entry.AssetMovementInput{
				Currency:   orDefault(c.currency, current.Currency),
				Type:       orDefault(c.recordType, string(current.Type)),
				Date:       orDefault(c.date, current.Date.String()),
				Amount:     orDefault(c.amount, current.Amount.String()),
				NetworkFee: orDefault(c.fee, current.NetworkFee.String()),
				Hash:       orDefault(c.hash, current.Hash),
			})
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderAssetMovements("Updated", []domain.AssetMovement{*updated}))
		}
		return nil
	})
}

// find returns the record with the given id
func find[T domain.Record[T]](ctx context.Context, repo domain.RecordRepository[T], id string) (T, error) {
	records, err := repo.List(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", id, domain.ErrRecordNotFound)
}

type deleteCmd struct {
	env  *Env
	kind string
	id   string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a record" }
func (*deleteCmd) Usage() string {
	return `coinflow delete -kind <brl|trade|asset> -id <id>
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Record kind: brl, trade or asset.")
	f.StringVar(&c.id, "id", "", "Id of the record to delete.")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := domain.ParseKind(c.kind)
	if err != nil || c.id == "" {
		fmt.Fprintln(c.env.Err, "Error: -kind (brl, trade or asset) and -id are required.")
		return subcommands.ExitUsageError
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		if err := a.EntryService.Delete(ctx, kind, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Deleted %s\n", c.id)
		return nil
	})
}

type listCmd struct {
	env  *Env
	kind string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the records of one kind, most recent first" }
func (*listCmd) Usage() string {
	return `coinflow list [-kind <brl|trade|asset>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "brl", "Record kind: brl, trade or asset.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := domain.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		switch kind {
		case domain.KindBRLMovement:
			records, err := a.EntryService.ListBRLMovements(ctx)
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderBRLMovements("BRL movements", records))
		case domain.KindAssetTrade:
			records, err := a.EntryService.ListTrades(ctx)
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderTrades("Trades", records))
		case domain.KindAssetMovement:
			records, err := a.EntryService.ListAssetMovements(ctx)
			if err != nil {
				return err
			}
			c.env.printMarkdown(renderAssetMovements("Asset movements", records))
		}
		return nil
	})
}

type dashboardCmd struct {
	env    *Env
	period string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show KPIs and holdings" }
func (*dashboardCmd) Usage() string {
	return `coinflow dashboard [-period <all|today|month|year>]
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "all", "Only count records on or after the start of this period.")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := dashboard.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		if c.env.Now != nil {
			a.DashboardService.Now = c.env.Now
		}
		result, err := a.DashboardService.GetDashboard(ctx, period)
		if err != nil {
			return err
		}
		c.env.printMarkdown(renderDashboard(result))
		return nil
	})
}

type exportCmd struct {
	env    *Env
	kind   string
	start  string
	end    string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the records of a date range as CSV" }
func (*exportCmd) Usage() string {
	return `coinflow export -kind <brl|trade|asset> -start <YYYY-MM-DD> -end <YYYY-MM-DD> [-o <file>|-]

  Writes the records dated within [start, end] to a CSV file named after the kind and
  range, or to stdout with -o -. Nothing is written when the range is empty.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "brl", "Record kind: brl, trade or asset.")
	f.StringVar(&c.start, "start", "", "First date of the range (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "Last date of the range (YYYY-MM-DD).")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the generated file name; - for stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := domain.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.start == "" || c.end == "" {
		fmt.Fprintln(c.env.Err, "Error: select both a start and an end date.")
		return subcommands.ExitUsageError
	}
	start, err := domain.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := domain.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		var buf bytes.Buffer
		n, err := a.ExportService.Export(ctx, kind, start, end, &buf)
		if errors.Is(err, export.ErrNoData) {
			fmt.Fprintln(c.env.Err, "No data in the selected date range.")
			return nil
		}
		if err != nil {
			return err
		}

		if c.output == "-" {
			_, err := buf.WriteTo(c.env.Out)
			return err
		}

		path := c.output
		if path == "" {
			path = export.FileName(kind, start, end)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(c.env.Out, "Exported %d records to %s\n", n, path)
		return nil
	})
}
