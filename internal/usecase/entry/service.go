package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/calculator"
)

// BRLMovementInput represents the BRL movement form as typed by the user
type BRLMovementInput struct {
	Type     string // Defaults to DEPOSITO
	Date     string // YYYY-MM-DD
	BRLValue string
	Proof    string
}

// AssetTradeInput represents the trade form as typed by the user
// The derived fields are never taken from input: they are recomputed from BRLValue and Rate
type AssetTradeInput struct {
	Currency string
	Type     string // Defaults to COMPRA
	Date     string
	BRLValue string
	Rate     string
}

// AssetMovementInput represents the asset movement form as typed by the user
type AssetMovementInput struct {
	Currency   string
	Type       string // Defaults to DEPOSITO
	Date       string
	Amount     string
	NetworkFee string // Defaults to 0
	Hash       string
}

// EntryService handles creating, editing and deleting records
type EntryService struct {
	BRLMovementRepo   domain.BRLMovementRepository
	AssetTradeRepo    domain.AssetTradeRepository
	AssetMovementRepo domain.AssetMovementRepository
}

// NewEntryService creates a new EntryService instance
func NewEntryService(
	brlMovementRepo domain.BRLMovementRepository,
	assetTradeRepo domain.AssetTradeRepository,
	assetMovementRepo domain.AssetMovementRepository,
) *EntryService {
	return &EntryService{
		BRLMovementRepo:   brlMovementRepo,
		AssetTradeRepo:    assetTradeRepo,
		AssetMovementRepo: assetMovementRepo,
	}
}

// RecordBRLMovement validates the form and stores a new BRL movement
func (s *EntryService) RecordBRLMovement(ctx context.Context, input BRLMovementInput) (*domain.BRLMovement, error) {
	movement, err := input.toMovement()
	if err != nil {
		return nil, err
	}

	saved, err := s.BRLMovementRepo.Add(ctx, movement)
	if err != nil {
		return nil, fmt.Errorf("failed to save BRL movement: %w", err)
	}
	return &saved, nil
}

// EditBRLMovement replaces the BRL movement with the given id
func (s *EntryService) EditBRLMovement(ctx context.Context, id string, input BRLMovementInput) (*domain.BRLMovement, error) {
	movement, err := input.toMovement()
	if err != nil {
		return nil, err
	}
	movement.ID = id

	if err := s.BRLMovementRepo.Update(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to update BRL movement: %w", err)
	}
	return &movement, nil
}

// RecordTrade validates the form, derives amount and fees, and stores a new trade
// Logic:
//  1. Require currency, date, BRL value and rate; parse the numbers
//  2. Run the trade calculator (a non-positive rate stores zero derived fields)
//  3. Persist
func (s *EntryService) RecordTrade(ctx context.Context, input AssetTradeInput) (*domain.AssetTrade, error) {
	trade, err := input.toTrade()
	if err != nil {
		return nil, err
	}

	saved, err := s.AssetTradeRepo.Add(ctx, trade)
	if err != nil {
		return nil, fmt.Errorf("failed to save trade: %w", err)
	}
	return &saved, nil
}

// EditTrade replaces the trade with the given id, recomputing its derived fields
func (s *EntryService) EditTrade(ctx context.Context, id string, input AssetTradeInput) (*domain.AssetTrade, error) {
	trade, err := input.toTrade()
	if err != nil {
		return nil, err
	}
	trade.ID = id

	if err := s.AssetTradeRepo.Update(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	return &trade, nil
}

// RecordAssetMovement validates the form and stores a new asset movement
func (s *EntryService) RecordAssetMovement(ctx context.Context, input AssetMovementInput) (*domain.AssetMovement, error) {
	movement, err := input.toMovement()
	if err != nil {
		return nil, err
	}

	saved, err := s.AssetMovementRepo.Add(ctx, movement)
	if err != nil {
		return nil, fmt.Errorf("failed to save asset movement: %w", err)
	}
	return &saved, nil
}

// EditAssetMovement replaces the asset movement with the given id
func (s *EntryService) EditAssetMovement(ctx context.Context, id string, input AssetMovementInput) (*domain.AssetMovement, error) {
	movement, err := input.toMovement()
	if err != nil {
		return nil, err
	}
	movement.ID = id

	if err := s.AssetMovementRepo.Update(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to update asset movement: %w", err)
	}
	return &movement, nil
}

// Delete removes a record from the collection of the given kind
// Deleting an unknown id is not an error
func (s *EntryService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	var err error
	switch kind {
	case domain.KindBRLMovement:
		err = s.BRLMovementRepo.Delete(ctx, id)
	case domain.KindAssetTrade:
		err = s.AssetTradeRepo.Delete(ctx, id)
	case domain.KindAssetMovement:
		err = s.AssetMovementRepo.Delete(ctx, id)
	default:
		return fmt.Errorf("%w: invalid kind %q", domain.ErrValidation, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}

// ListBRLMovements returns every BRL movement, most recent first
func (s *EntryService) ListBRLMovements(ctx context.Context) ([]domain.BRLMovement, error) {
	return s.BRLMovementRepo.List(ctx)
}

// ListTrades returns every trade, most recent first
func (s *EntryService) ListTrades(ctx context.Context) ([]domain.AssetTrade, error) {
	return s.AssetTradeRepo.List(ctx)
}

// ListAssetMovements returns every asset movement, most recent first
func (s *EntryService) ListAssetMovements(ctx context.Context) ([]domain.AssetMovement, error) {
	return s.AssetMovementRepo.List(ctx)
}

// PreviewTrade computes the derived trade fields without saving anything
func (s *EntryService) PreviewTrade(brlValue, rate string) calculator.Result {
	return calculator.CalculateFromInput(brlValue, rate)
}

func (in BRLMovementInput) toMovement() (domain.BRLMovement, error) {
	movementType, err := parseMovementType(in.Type)
	if err != nil {
		return domain.BRLMovement{}, err
	}
	date, err := requireDate(in.Date)
	if err != nil {
		return domain.BRLMovement{}, err
	}
	brlValue, err := requireDecimal("brlValue", in.BRLValue)
	if err != nil {
		return domain.BRLMovement{}, err
	}

	movement := domain.BRLMovement{
		Type:     movementType,
		Date:     date,
		BRLValue: brlValue,
		Proof:    strings.TrimSpace(in.Proof),
	}
	if err := movement.Validate(); err != nil {
		return domain.BRLMovement{}, err
	}
	return movement, nil
}

func (in AssetTradeInput) toTrade() (domain.AssetTrade, error) {
	currency, err := requireCurrency(in.Currency)
	if err != nil {
		return domain.AssetTrade{}, err
	}

	tradeType := domain.TradeTypeBuy
	if t := strings.ToUpper(strings.TrimSpace(in.Type)); t != "" {
		tradeType = domain.TradeType(t)
	}
	if !tradeType.Valid() {
		return domain.AssetTrade{}, fmt.Errorf("%w: trade type must be COMPRA or VENTA", domain.ErrValidation)
	}

	date, err := requireDate(in.Date)
	if err != nil {
		return domain.AssetTrade{}, err
	}
	brlValue, err := requireDecimal("brlValue", in.BRLValue)
	if err != nil {
		return domain.AssetTrade{}, err
	}
	rate, err := requireDecimal("rate", in.Rate)
	if err != nil {
		return domain.AssetTrade{}, err
	}

	trade := domain.AssetTrade{
		Currency: currency,
		Type:     tradeType,
		Date:     date,
		BRLValue: brlValue,
		Rate:     rate,
	}
	calculator.Calculate(brlValue, rate).Apply(&trade)

	if err := trade.Validate(); err != nil {
		return domain.AssetTrade{}, err
	}
	return trade, nil
}

func (in AssetMovementInput) toMovement() (domain.AssetMovement, error) {
	currency, err := requireCurrency(in.Currency)
	if err != nil {
		return domain.AssetMovement{}, err
	}
	movementType, err := parseMovementType(in.Type)
	if err != nil {
		return domain.AssetMovement{}, err
	}
	date, err := requireDate(in.Date)
	if err != nil {
		return domain.AssetMovement{}, err
	}
	amount, err := requireDecimal("amount", in.Amount)
	if err != nil {
		return domain.AssetMovement{}, err
	}

	networkFee := decimal.Zero
	if fee := strings.TrimSpace(in.NetworkFee); fee != "" {
		networkFee, err = decimal.NewFromString(fee)
		if err != nil {
			return domain.AssetMovement{}, fmt.Errorf("%w: networkFee %q is not a number", domain.ErrValidation, in.NetworkFee)
		}
	}

	movement := domain.AssetMovement{
		Currency:   currency,
		Type:       movementType,
		Date:       date,
		Amount:     amount,
		NetworkFee: networkFee,
		Hash:       strings.TrimSpace(in.Hash),
	}
	if err := movement.Validate(); err != nil {
		return domain.AssetMovement{}, err
	}
	return movement, nil
}

func parseMovementType(s string) (domain.MovementType, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return domain.MovementTypeDeposit, nil
	}
	movementType := domain.MovementType(t)
	if !movementType.Valid() {
		return "", fmt.Errorf("%w: movement type must be DEPOSITO or RETIRO", domain.ErrValidation)
	}
	return movementType, nil
}

// requireCurrency normalizes a ticker to upper case
func requireCurrency(s string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(s))
	if currency == "" {
		return "", fmt.Errorf("%w: currency is required", domain.ErrValidation)
	}
	return currency, nil
}

func requireDate(s string) (domain.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Date{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	date, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return date, nil
}

func requireDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", domain.ErrValidation, field, s)
	}
	return value, nil
}
