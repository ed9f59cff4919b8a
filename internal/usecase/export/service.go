package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/simaogato/coinflow-backend/internal/domain"
)

// ErrNoData is returned when the date range matches no record; nothing is written
var ErrNoData = domain.ErrNoData

var (
	brlMovementHeader   = []string{"id", "type", "date", "brlValue", "proof"}
	assetTradeHeader    = []string{"id", "currency", "type", "date", "brlValue", "rate", "amount", "fee", "feeValue", "netAmount", "finalRate"}
	assetMovementHeader = []string{"id", "currency", "type", "date", "amount", "networkFee", "hash"}
)

// ExportService writes record collections as CSV
type ExportService struct {
	BRLMovementRepo   domain.BRLMovementRepository
	AssetTradeRepo    domain.AssetTradeRepository
	AssetMovementRepo domain.AssetMovementRepository
}

// NewExportService creates a new ExportService instance
func NewExportService(
	brlMovementRepo domain.BRLMovementRepository,
	assetTradeRepo domain.AssetTradeRepository,
	assetMovementRepo domain.AssetMovementRepository,
) *ExportService {
	return &ExportService{
		BRLMovementRepo:   brlMovementRepo,
		AssetTradeRepo:    assetTradeRepo,
		AssetMovementRepo: assetMovementRepo,
	}
}

// FileName returns the download name for an export of kind over [start, end]
func FileName(kind domain.Kind, start, end domain.Date) string {
	var base string
	switch kind {
	case domain.KindBRLMovement:
		base = "movimientos_brl"
	case domain.KindAssetTrade:
		base = "trades_activos"
	default:
		base = "movimientos_activos"
	}
	return fmt.Sprintf("%s_%s_a_%s.csv", base, start, end)
}

// Export writes the records of kind dated within [start, end] (inclusive) to w
// Logic:
//  1. Both bounds are required
//  2. Filter the collection, keeping its most-recent-first order
//  3. No match returns ErrNoData before anything is written
//  4. Header row, then one row per record, RFC 4180 quoting
//
// Returns the number of records written
func (s *ExportService) Export(ctx context.Context, kind domain.Kind, start, end domain.Date, w io.Writer) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}

	switch kind {
	case domain.KindBRLMovement:
		records, err := s.BRLMovementRepo.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list BRL movements: %w", err)
		}
		return writeCSV(w, inRange(records, start, end), brlMovementHeader, brlMovementRow)
	case domain.KindAssetTrade:
		records, err := s.AssetTradeRepo.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list asset trades: %w", err)
		}
		return writeCSV(w, inRange(records, start, end), assetTradeHeader, assetTradeRow)
	case domain.KindAssetMovement:
		records, err := s.AssetMovementRepo.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list asset movements: %w", err)
		}
		return writeCSV(w, inRange(records, start, end), assetMovementHeader, assetMovementRow)
	default:
		return 0, fmt.Errorf("%w: invalid kind %q", domain.ErrValidation, kind)
	}
}

func inRange[T domain.Record[T]](records []T, start, end domain.Date) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		date := r.RecordDate()
		if !date.Before(start) && !date.After(end) {
			out = append(out, r)
		}
	}
	return out
}

func writeCSV[T any](w io.Writer, records []T, header []string, row func(T) []string) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoData
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return len(records), nil
}

func brlMovementRow(m domain.BRLMovement) []string {
	return []string{m.ID, string(m.Type), m.Date.String(), m.BRLValue.String(), m.Proof}
}

func assetTradeRow(t domain.AssetTrade) []string {
	return []string{
		t.ID, t.Currency, string(t.Type), t.Date.String(),
		t.BRLValue.String(), t.Rate.String(), t.Amount.String(), t.Fee.String(),
		t.FeeValue.String(), t.NetAmount.String(), t.FinalRate.String(),
	}
}

func assetMovementRow(m domain.AssetMovement) []string {
	return []string{m.ID, m.Currency, string(m.Type), m.Date.String(), m.Amount.String(), m.NetworkFee.String(), m.Hash}
}
