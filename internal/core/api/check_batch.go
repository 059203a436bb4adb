package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type checkBatchRequest struct {
	FamilyID     types.FamilyID       `json:"family_id"`
	OverrideSets []map[string]float64 `json:"override_sets"`
}

// BatchItemResult is the outcome of one override set in a batch.
type BatchItemResult struct {
	Index        int                              `json:"index"`
	EvaluationID types.EvaluationID               `json:"evaluation_id,omitempty"`
	Valid        bool                             `json:"valid"`
	Errors       []parametric.ConstraintViolation `json:"errors,omitempty"`
	Failures     int                              `json:"failures"`
	Error        string                           `json:"error,omitempty"`
}

// CheckBatchResponse is the CheckBatch reply.
type CheckBatchResponse struct {
	AcceptedCount int               `json:"accepted_count"`
	Results       []BatchItemResult `json:"results"`
}

// journalEntry is one line of the daily evaluation journal.
type journalEntry struct {
	EvaluationID types.EvaluationID      `json:"evaluation_id"`
	TenantID     string                  `json:"tenant_id"`
	FamilyID     types.FamilyID          `json:"family_id"`
	Overrides    map[string]float64      `json:"overrides,omitempty"`
	Result       *parametric.CheckResult `json:"result"`
	RecordedAt   time.Time               `json:"recorded_at"`
}

// CheckBatch checks a stored family once per override set.
//
// Each set is evaluated and recorded independently, so one failing set
// does not reject the batch. Accepted checks are also appended to a daily
// JSONL journal under data_dir; the journal is best-effort and the audit
// table stays authoritative.
func (s *Service) CheckBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}
	var in checkBatchRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if len(in.OverrideSets) == 0 || len(in.OverrideSets) > s.cfg.MaxBatchSize {
		return nil, status.Errorf(codes.InvalidArgument, "batch must contain 1 to %d override sets", s.cfg.MaxBatchSize)
	}

	f, err := s.store.GetFamily(ctx, tenantID, in.FamilyID)
	if err != nil {
		return nil, statusError(err)
	}

	// One file per batch even if the batch spans midnight.
	now := time.Now().UTC()
	journal := filepath.Join(s.journalDir, now.Format("2006-01-02")+".jsonl")
	mu := s.journalLock(journal)

	resp := CheckBatchResponse{Results: make([]BatchItemResult, len(in.OverrideSets))}
	for i, overrides := range in.OverrideSets {
		item := BatchItemResult{Index: i}

		res, id, err := s.checkFamily(ctx, tenantID, f, overrides)
		if err != nil {
			item.Error = err.Error()
			resp.Results[i] = item
			continue
		}

		item.EvaluationID = id
		item.Valid = res.Validation.Valid
		item.Errors = res.Validation.Errors
		item.Failures = len(res.Evaluation.Failures)
		resp.Results[i] = item
		resp.AcceptedCount++

		s.appendJournal(journal, mu, journalEntry{
			EvaluationID: id,
			TenantID:     tenantID,
			FamilyID:     f.ID,
			Overrides:    overrides,
			Result:       res,
			RecordedAt:   now,
		})
	}

	s.logger.Info("batch checked", "tenant_id", tenantID, "family_id", f.ID,
		"sets", len(in.OverrideSets), "accepted", resp.AcceptedCount)
	return encode(resp)
}

func (s *Service) appendJournal(path string, mu *sync.Mutex, entry journalEntry) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Warn("journal unavailable", "path", path, "error", err)
		return
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(entry); err != nil {
		s.logger.Warn("journal write failed", "path", path, "error", err)
	}
}
