package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/coinflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/coinflow-backend/internal/app"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/logger"
)

type testEnv struct {
	*Env
	out *bytes.Buffer
	err *bytes.Buffer
}

// newTestEnv shares one in-memory store across commands, like one database file across runs
func newTestEnv() *testEnv {
	kv := memory.NewKVStore()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	env := &Env{
		Open: func(ctx context.Context) (*app.App, error) {
			return app.NewWithStore(ctx, kv, logger.Discard()), nil
		},
		Out:   out,
		Err:   errOut,
		Plain: true,
		Now:   func() time.Time { return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC) },
	}
	return &testEnv{Env: env, out: out, err: errOut}
}

func (e *testEnv) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	e.out.Reset()
	e.err.Reset()

	fs := flag.NewFlagSet("coinflow", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "coinflow")
	Register(commander, e.Env)
	require.NoError(t, fs.Parse(args))
	return commander.Execute(context.Background())
}

func TestCLI_DepositBuyDashboard(t *testing.T) {
	e := newTestEnv()

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "deposit", "-value", "5000", "-proof", "PIX"))
	assert.Contains(t, e.out.String(), "15/03/2024", "date defaults to today")
	assert.Contains(t, e.out.String(), "R$5.000,00")

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "buy", "-currency", "usdt", "-value", "1000", "-rate", "5", "-date", "2024-03-10"))
	assert.Contains(t, e.out.String(), "USDT")
	assert.Contains(t, e.out.String(), "199,80")

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "dashboard", "-period", "month"))
	out := e.out.String()
	assert.Contains(t, out, "since 01/03/2024")
	assert.Contains(t, out, "| BRL balance | R$4.000,00 |")
	assert.Contains(t, out, "| Fees | R$1,00 |")
	assert.Contains(t, out, "| USDT | 199,80 | R$5,00 |")
}

func TestCLI_ValidationError(t *testing.T) {
	e := newTestEnv()

	status := e.run(t, "buy", "-currency", "BTC", "-value", "1000")

	assert.Equal(t, subcommands.ExitUsageError, status)
	assert.Contains(t, e.err.String(), "rate is required")
}

func TestCLI_UpdateKeepsOmittedFields(t *testing.T) {
	e := newTestEnv()
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "receive", "-currency", "TRX", "-amount", "100", "-hash", "0xabc", "-date", "2024-03-01"))

	a, err := e.Open(context.Background())
	require.NoError(t, err)
	records, err := a.AssetMovements.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	id := records[0].ID

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "update", "-kind", "asset", "-id", id, "-amount", "150"))
	assert.Contains(t, e.out.String(), "150,00")
	assert.Contains(t, e.out.String(), "0xabc")

	status := e.run(t, "update", "-kind", "asset", "-id", "asset-missing", "-amount", "1")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, e.err.String(), domain.ErrRecordNotFound.Error())
}

func TestCLI_ListAndDelete(t *testing.T) {
	e := newTestEnv()
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "withdraw", "-value", "20", "-date", "2024-01-02"))

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "list", "-kind", "brl"))
	line := ""
	for _, l := range strings.Split(e.out.String(), "\n") {
		if strings.Contains(l, "RETIRO") {
			line = l
		}
	}
	require.NotEmpty(t, line)
	id := line[strings.Index(line, "`brl-")+1 : strings.LastIndex(line, "`")]

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "delete", "-kind", "brl", "-id", id))
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "list", "-kind", "brl"))
	assert.Contains(t, e.out.String(), "No records")
}

func TestCLI_Preview(t *testing.T) {
	e := newTestEnv()

	require.Equal(t, subcommands.ExitSuccess, e.run(t, "preview", "-value", "1000", "-rate", "5"))
	assert.Contains(t, e.out.String(), "| Amount | 200,00 |")
	assert.Contains(t, e.out.String(), "| Fee (BRL) | R$1,00 |")
}

func TestCLI_Export(t *testing.T) {
	e := newTestEnv()
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "deposit", "-value", "100", "-date", "2024-01-10"))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "export", "-kind", "brl", "-start", "2024-01-01", "-end", "2024-01-31", "-o", path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "id,type,date,brlValue,proof\n"))

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.Equal(t, subcommands.ExitSuccess, e.run(t, "export", "-kind", "brl", "-start", "2023-01-01", "-end", "2023-01-31", "-o", empty))
	assert.Contains(t, e.err.String(), "No data in the selected date range")
	_, err = os.Stat(empty)
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, subcommands.ExitUsageError, e.run(t, "export", "-kind", "brl", "-start", "2024-01-01"))
}
