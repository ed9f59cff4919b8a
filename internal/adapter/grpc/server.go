package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/coinflow-backend/internal/usecase/entry"
)

// Server implements the LedgerService gRPC server
// Requests and responses are google.protobuf.Struct values carrying the JSON layout of the records
type Server struct {
	EntryService     *entry.EntryService
	DashboardService *dashboard.DashboardService
}

// NewServer creates a new gRPC server instance
func NewServer(
	entryService *entry.EntryService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		EntryService:     entryService,
		DashboardService: dashboardService,
	}
}

// AddBRLMovement handles the AddBRLMovement RPC
func (s *Server) AddBRLMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	movement, err := s.EntryService.RecordBRLMovement(ctx, brlMovementInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(movement)
}

// UpdateBRLMovement handles the UpdateBRLMovement RPC
func (s *Server) UpdateBRLMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	movement, err := s.EntryService.EditBRLMovement(ctx, id, brlMovementInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(movement)
}

// AddAssetTrade handles the AddAssetTrade RPC
// Derived fields in the request are ignored and recomputed
func (s *Server) AddAssetTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	trade, err := s.EntryService.RecordTrade(ctx, assetTradeInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(trade)
}

// UpdateAssetTrade handles the UpdateAssetTrade RPC
func (s *Server) UpdateAssetTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	trade, err := s.EntryService.EditTrade(ctx, id, assetTradeInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(trade)
}

// AddAssetMovement handles the AddAssetMovement RPC
func (s *Server) AddAssetMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	movement, err := s.EntryService.RecordAssetMovement(ctx, assetMovementInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(movement)
}

// UpdateAssetMovement handles the UpdateAssetMovement RPC
func (s *Server) UpdateAssetMovement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	movement, err := s.EntryService.EditAssetMovement(ctx, id, assetMovementInput(req))
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(movement)
}

// DeleteRecord handles the DeleteRecord RPC
// Request: {"kind": "brl" | "trade" | "asset", "id": "..."}
func (s *Server) DeleteRecord(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	kind, err := domain.ParseKind(field(req, "kind"))
	if err != nil {
		return nil, mapError(err)
	}
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	if err := s.EntryService.Delete(ctx, kind, id); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// ListRecords handles the ListRecords RPC
// Response: {"records": [...]}, most recent first
func (s *Server) ListRecords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := domain.ParseKind(field(req, "kind"))
	if err != nil {
		return nil, mapError(err)
	}

	var records any
	switch kind {
	case domain.KindBRLMovement:
		records, err = s.EntryService.ListBRLMovements(ctx)
	case domain.KindAssetTrade:
		records, err = s.EntryService.ListTrades(ctx)
	case domain.KindAssetMovement:
		records, err = s.EntryService.ListAssetMovements(ctx)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]any{"records": records})
}

// PreviewTrade handles the PreviewTrade RPC
// Request: {"brlValue": ..., "rate": ...}; missing or invalid input yields zeros
func (s *Server) PreviewTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(s.EntryService.PreviewTrade(field(req, "brlValue"), field(req, "rate")))
}

// GetDashboard handles the GetDashboard RPC
// Request: {"period": "all" | "today" | "month" | "year"}
func (s *Server) GetDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	period, err := dashboard.ParsePeriod(field(req, "period"))
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.DashboardService.GetDashboard(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(result)
}

func brlMovementInput(req *structpb.Struct) entry.BRLMovementInput {
	return entry.BRLMovementInput{
		Type:     field(req, "type"),
		Date:     field(req, "date"),
		BRLValue: field(req, "brlValue"),
		Proof:    field(req, "proof"),
	}
}

func assetTradeInput(req *structpb.Struct) entry.AssetTradeInput {
	return entry.AssetTradeInput{
		Currency: field(req, "currency"),
		Type:     field(req, "type"),
		Date:     field(req, "date"),
		BRLValue: field(req, "brlValue"),
		Rate:     field(req, "rate"),
	}
}

func assetMovementInput(req *structpb.Struct) entry.AssetMovementInput {
	return entry.AssetMovementInput{
		Currency:   field(req, "currency"),
		Type:       field(req, "type"),
		Date:       field(req, "date"),
		Amount:     field(req, "amount"),
		NetworkFee: field(req, "networkFee"),
		Hash:       field(req, "hash"),
	}
}

// field reads a request field as the text a form would submit
// Numbers are accepted too; strings are preferred since they keep full decimal precision
func field(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func requireID(req *structpb.Struct) (string, error) {
	id := field(req, "id")
	if id == "" {
		return "", status.Errorf(codes.InvalidArgument, "id is required")
	}
	return id, nil
}

// toStruct converts v to a Struct through its JSON encoding
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrNoData):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
