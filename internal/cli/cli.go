// Package cli implements the coinflow command line: one subcommand per form of the ledger.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/domain"
)

// Env carries what every command needs
type Env struct {
	// Open builds the application; the command closes it when done
	Open func(ctx context.Context) (*app.App, error)

	Out io.Writer
	Err io.Writer

	// Plain prints raw markdown instead of rendering it for the terminal
	Plain bool

	Now func() time.Time
}

// Commands returns every subcommand bound to env
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&brlCmd{env: env, name: "deposit", movementType: domain.MovementTypeDeposit, synopsis: "record a BRL deposit"},
		&brlCmd{env: env, name: "withdraw", movementType: domain.MovementTypeWithdraw, synopsis: "record a BRL withdrawal"},
		&tradeCmd{env: env, name: "buy", tradeType: domain.TradeTypeBuy, synopsis: "record a crypto purchase paid in BRL"},
		&tradeCmd{env: env, name: "sell", tradeType: domain.TradeTypeSell, synopsis: "record a crypto sale for BRL"},
		&assetCmd{env: env, name: "receive", movementType: domain.MovementTypeDeposit, synopsis: "record crypto received into the wallet"},
		&assetCmd{env: env, name: "send", movementType: domain.MovementTypeWithdraw, synopsis: "record crypto sent out of the wallet"},
		&previewCmd{env: env},
		&updateCmd{env: env},
		&deleteCmd{env: env},
		&listCmd{env: env},
		&dashboardCmd{env: env},
		&exportCmd{env: env},
	}
}

// Register adds the commands to commander under the "ledger" group
func Register(commander *subcommands.Commander, env *Env) {
	for _, c := range Commands(env) {
		commander.Register(c, "ledger")
	}
}

func (env *Env) today() string {
	now := time.Now
	if env.Now != nil {
		now = env.Now
	}
	return domain.Today(now()).String()
}

// withApp opens the app, runs fn and maps its error to an exit status
func (env *Env) withApp(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := env.Open(ctx)
	if err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if a.Ephemeral {
		fmt.Fprintln(env.Err, "Warning: running on the in-memory store, changes will not be saved.")
	}

	if err := fn(a); err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		if errors.Is(err, domain.ErrValidation) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is in plain mode
func (env *Env) printMarkdown(md string) {
	if env.Plain {
		fmt.Fprint(env.Out, md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(env.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(env.Out, md)
		return
	}
	fmt.Fprint(env.Out, out)
}

// DefaultEnv writes to the process streams
func DefaultEnv(open func(ctx context.Context) (*app.App, error)) *Env {
	return &Env{
		Open: open,
		Out:  os.Stdout,
		Err:  os.Stderr,
		Now:  time.Now,
	}
}

func presetHint() string {
	return "Currency ticker, e.g. " + strings.Join(domain.PresetCurrencies, ", ") + "."
}
