package api

import (
	"context"

	"github.com/solatis/parametrix/internal/family"
	"github.com/solatis/parametrix/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Catalog methods. Every call is scoped to the authenticated tenant.

type saveFamilyRequest struct {
	Family *types.Family `json:"family"`
}

type familyRequest struct {
	FamilyID types.FamilyID `json:"family_id"`
}

type listEvaluationsRequest struct {
	FamilyID types.FamilyID `json:"family_id"`
	Limit    int            `json:"limit,omitempty"`
}

// SaveFamily validates and stores a family definition.
func (s *Service) SaveFamily(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	var in saveFamilyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.Family == nil {
		return nil, status.Error(codes.InvalidArgument, "family required")
	}
	if in.Family.ID != "" {
		if _, err := types.ParseFamilyID(string(in.Family.ID)); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid family id: %v", err)
		}
	}
	if s.engine.Options().MaxParameters > 0 && len(in.Family.Parameters) > s.engine.Options().MaxParameters {
		return nil, statusError(types.ErrTooManyParameters)
	}

	family.AssignIDs(in.Family)
	if err := family.Validate(in.Family); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	id, err := s.store.SaveFamily(ctx, tenantID, in.Family)
	if err != nil {
		return nil, statusError(err)
	}
	s.logger.Info("family saved", "tenant_id", tenantID, "family_id", id, "parameters", len(in.Family.Parameters))
	return encode(map[string]any{"family_id": id})
}

// GetFamily returns one stored family.
func (s *Service) GetFamily(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	var in familyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	f, err := s.store.GetFamily(ctx, tenantID, in.FamilyID)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(map[string]any{"family": f})
}

// ListFamilies lists the tenant's families.
func (s *Service) ListFamilies(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := decode(req, &struct{}{}); err != nil {
		return nil, err
	}
	families, err := s.store.ListFamilies(ctx, tenantID)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(map[string]any{"families": families})
}

// DeleteFamily removes a family and its audit log.
func (s *Service) DeleteFamily(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	var in familyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := s.store.DeleteFamily(ctx, tenantID, in.FamilyID); err != nil {
		return nil, statusError(err)
	}
	s.logger.Info("family deleted", "tenant_id", tenantID, "family_id", in.FamilyID)
	return encode(map[string]any{"deleted": true})
}

// ListEvaluations returns a family's audit log, newest first. The limit
// defaults to and is capped at the configured batch size.
func (s *Service) ListEvaluations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	var in listEvaluationsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	limit := in.Limit
	if limit <= 0 || limit > s.cfg.MaxBatchSize {
		limit = s.cfg.MaxBatchSize
	}
	records, err := s.store.ListEvaluations(ctx, tenantID, in.FamilyID, limit)
	if err != nil {
		return nil, statusError(err)
	}
	return encode(map[string]any{"evaluations": records})
}
