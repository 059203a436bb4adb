package api

import (
	"context"

	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Stateless engine methods. None of them touch the catalog, so they need
// no tenant beyond the authentication the interceptor already enforced.

type evaluateRequest struct {
	Parameters []types.Parameter  `json:"parameters"`
	Overrides  map[string]float64 `json:"overrides,omitempty"`
}

type validateRequest struct {
	Constraints []types.Constraint `json:"constraints"`
	Values      map[string]any     `json:"values"`
}

type checkRequest struct {
	FamilyID    types.FamilyID     `json:"family_id,omitempty"`
	Parameters  []types.Parameter  `json:"parameters,omitempty"`
	Constraints []types.Constraint `json:"constraints,omitempty"`
	Overrides   map[string]float64 `json:"overrides,omitempty"`
}

// CheckResponse is the Check reply. EvaluationID is set when the check ran
// against a stored family and was recorded in its audit log.
type CheckResponse struct {
	*parametric.CheckResult
	EvaluationID types.EvaluationID `json:"evaluation_id,omitempty"`
}

type convertRequest struct {
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

// ConvertResponse is the ConvertUnit reply. Converted is false when the
// unit pair is unknown and Value is the input unchanged.
type ConvertResponse struct {
	Value     float64 `json:"value"`
	Converted bool    `json:"converted"`
}

type variantsRequest struct {
	Parameters []types.Parameter     `json:"parameters"`
	Presets    []types.VariantPreset `json:"presets"`
}

// Evaluate computes parameter values.
func (s *Service) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in evaluateRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	ev, err := s.engine.Evaluate(in.Parameters, in.Overrides)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(ev)
}

// Validate checks constraints against caller-supplied values.
func (s *Service) Validate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in validateRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	return encode(s.engine.Validate(in.Constraints, in.Values))
}

// Check evaluates and validates either inline definitions or a stored
// family. Checks of stored families are recorded in the audit log.
func (s *Service) Check(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in checkRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if in.FamilyID == "" {
		res, err := s.engine.Check(in.Parameters, in.Constraints, in.Overrides)
		if err != nil {
			return nil, statusError(err)
		}
		return encode(CheckResponse{CheckResult: res})
	}

	if len(in.Parameters) > 0 || len(in.Constraints) > 0 {
		return nil, status.Error(codes.InvalidArgument, "family_id excludes inline parameters and constraints")
	}
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	f, err := s.store.GetFamily(ctx, tenantID, in.FamilyID)
	if err != nil {
		return nil, statusError(err)
	}

	res, id, err := s.checkFamily(ctx, tenantID, f, in.Overrides)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(CheckResponse{CheckResult: res, EvaluationID: id})
}

// checkFamily runs one audited check.
func (s *Service) checkFamily(ctx context.Context, tenantID string, f *types.Family, overrides map[string]float64) (*parametric.CheckResult, types.EvaluationID, error) {
	res, err := s.engine.Check(f.Parameters, f.Constraints, overrides)
	if err != nil {
		return nil, "", err
	}
	id, err := s.store.RecordEvaluation(ctx, tenantID, f.ID, res)
	if err != nil {
		return nil, "", err
	}
	return res, id, nil
}

// EvaluationOrder returns the dependency-respecting parameter order.
func (s *Service) EvaluationOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in evaluateRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	order, err := s.engine.EvaluationOrder(in.Parameters)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(map[string]any{"order": order})
}

// ConvertUnit converts a length between units.
func (s *Service) ConvertUnit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in convertRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	_, ok := parametric.Convert(in.Value, in.From, in.To)
	return encode(ConvertResponse{
		Value:     s.engine.ConvertUnit(in.Value, in.From, in.To),
		Converted: ok,
	})
}

// GenerateVariants scales a parameter set once per preset.
func (s *Service) GenerateVariants(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in variantsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if len(in.Presets) > s.cfg.MaxBatchSize {
		return nil, status.Errorf(codes.InvalidArgument, "preset count exceeds maximum of %d", s.cfg.MaxBatchSize)
	}
	return encode(map[string]any{"variants": s.engine.GenerateVariants(in.Parameters, in.Presets)})
}
