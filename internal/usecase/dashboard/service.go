package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/kpi"
	"github.com/simaogato/coinflow-backend/internal/usecase/portfolio"
)

// Result is the dashboard for one period
type Result struct {
	Period Period                   `json:"period"`
	From   domain.Date              `json:"from"` // Zero for PeriodAll
	Today  domain.Date              `json:"today"`
	KPIs   kpi.KPIs                 `json:"kpis"`
	Assets []portfolio.AssetSummary `json:"assets"`
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	BRLMovementRepo   domain.BRLMovementRepository
	AssetTradeRepo    domain.AssetTradeRepository
	AssetMovementRepo domain.AssetMovementRepository

	// Now supplies the current instant; "today" is its calendar date in its own location
	Now func() time.Time
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	brlMovementRepo domain.BRLMovementRepository,
	assetTradeRepo domain.AssetTradeRepository,
	assetMovementRepo domain.AssetMovementRepository,
) *DashboardService {
	return &DashboardService{
		BRLMovementRepo:   brlMovementRepo,
		AssetTradeRepo:    assetTradeRepo,
		AssetMovementRepo: assetMovementRepo,
		Now:               time.Now,
	}
}

// GetDashboard computes KPIs and portfolio holdings for the records in the period
// Logic:
//  1. List the three collections
//  2. Filter each one independently by the period start
//  3. KPIs from BRL movements and trades; holdings from trades and asset movements
func (s *DashboardService) GetDashboard(ctx context.Context, period Period) (*Result, error) {
	if period == "" {
		period = PeriodAll
	}
	today := domain.Today(s.Now())

	// 1. Load everything
	movements, err := s.BRLMovementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list BRL movements: %w", err)
	}
	trades, err := s.AssetTradeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset trades: %w", err)
	}
	assetMovements, err := s.AssetMovementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list asset movements: %w", err)
	}

	// 2. Same filter on each collection
	movements = FilterByPeriod(movements, period, today)
	trades = FilterByPeriod(trades, period, today)
	assetMovements = FilterByPeriod(assetMovements, period, today)

	// 3. Aggregate
	return &Result{
		Period: period,
		From:   period.Start(today),
		Today:  today,
		KPIs:   kpi.Compute(movements, trades),
		Assets: portfolio.Summarize(trades, assetMovements),
	}, nil
}
