// Package api implements the parametrix.v1.ParametricEngine gRPC service.
//
// Messages are google.protobuf.Struct values whose JSON shape mirrors the
// Go types in internal/types and internal/parametric, so the service needs
// no generated code: requests are decoded through protojson into plain Go
// structs and responses are encoded the same way back.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/solatis/parametrix/internal/core/auth"
	"github.com/solatis/parametrix/internal/core/config"
	"github.com/solatis/parametrix/internal/core/db"
	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is the catalog used by the service. Implemented by *db.Store.
type Store interface {
	SaveFamily(ctx context.Context, tenantID string, f *types.Family) (types.FamilyID, error)
	GetFamily(ctx context.Context, tenantID string, id types.FamilyID) (*types.Family, error)
	ListFamilies(ctx context.Context, tenantID string) ([]db.FamilySummary, error)
	DeleteFamily(ctx context.Context, tenantID string, id types.FamilyID) error
	RecordEvaluation(ctx context.Context, tenantID string, familyID types.FamilyID, res *parametric.CheckResult) (types.EvaluationID, error)
	ListEvaluations(ctx context.Context, tenantID string, familyID types.FamilyID, limit int) ([]db.EvaluationRecord, error)
}

// Service implements EngineServer. It is a thin layer over the engine and
// the catalog.
type Service struct {
	engine *parametric.Engine
	store  Store
	cfg    config.ServerConfig
	logger *slog.Logger

	journalDir   string
	journalMu    sync.Mutex
	journalLocks map[string]*sync.Mutex
}

// NewService creates the service and its journal directory.
func NewService(engine *parametric.Engine, store Store, cfg config.ServerConfig, logger *slog.Logger) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	journalDir := filepath.Join(cfg.DataDir, "evaluations")
	if err := os.MkdirAll(journalDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	return &Service{
		engine:       engine,
		store:        store,
		cfg:          cfg,
		logger:       logger,
		journalDir:   journalDir,
		journalLocks: make(map[string]*sync.Mutex),
	}, nil
}

// journalLock returns the mutex guarding one daily journal file. The map
// grows by one entry per day.
func (s *Service) journalLock(path string) *sync.Mutex {
	s.journalMu.Lock()
	defer s.journalMu.Unlock()

	mu, ok := s.journalLocks[path]
	if !ok {
		mu = &sync.Mutex{}
		s.journalLocks[path] = mu
	}
	return mu
}

func tenantFrom(ctx context.Context) (string, error) {
	tenantID := auth.TenantIDFromContext(ctx)
	if tenantID == "" {
		return "", status.Error(codes.Internal, "missing tenant_id in context")
	}
	return tenantID, nil
}
