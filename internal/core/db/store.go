package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/unicode/norm"

	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
)

/*
 * Store is the tenant-scoped catalog.
 *
 * Families are stored as a JSON definition plus the columns needed for
 * listing. Every read and write is keyed by tenant, so one tenant can never
 * observe another's families even with a known family ID.
 *
 * Human-readable text (family name, description, parameter labels) is NFC
 * normalized on the way in so visually identical names sort and compare
 * identically regardless of the client's input method.
 */

// FamilySummary is one row of a family listing.
type FamilySummary struct {
	ID          types.FamilyID `db:"family_id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// EvaluationRecord is one audit log entry.
type EvaluationRecord struct {
	ID           types.EvaluationID `db:"evaluation_id" json:"id"`
	FamilyID     types.FamilyID     `db:"family_id" json:"family_id"`
	Valid        bool               `db:"valid" json:"valid"`
	ErrorCount   int                `db:"error_count" json:"error_count"`
	WarningCount int                `db:"warning_count" json:"warning_count"`
	InfoCount    int                `db:"info_count" json:"info_count"`
	FailureCount int                `db:"failure_count" json:"failure_count"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
}

// Store provides catalog operations over named queries.
type Store struct {
	queries *Queries
}

// NewStore loads the named queries for db.
func NewStore(db *sqlx.DB) (*Store, error) {
	q, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{queries: q}, nil
}

// Queries exposes the underlying named queries (used by auth).
func (s *Store) Queries() *Queries {
	return s.queries
}

// SaveFamily stores f. Without an ID the family is created under a fresh
// ID; with an ID it replaces that family of the tenant, and an ID the tenant
// does not own (unused or another tenant's) fails with
// types.ErrFamilyNotFound. The saved ID is written back into f.
func (s *Store) SaveFamily(ctx context.Context, tenantID string, f *types.Family) (types.FamilyID, error) {
	normalizeFamily(f)

	now := time.Now().UTC()
	if f.ID != "" {
		definition, err := json.Marshal(f)
		if err != nil {
			return "", fmt.Errorf("failed to encode family: %w", err)
		}
		res, err := s.queries.ExecContext(ctx, "update-family",
			f.Name, f.Description, string(definition), now, string(f.ID), tenantID)
		if err != nil {
			return "", storageErr(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", fmt.Errorf("%w: %s", types.ErrFamilyNotFound, f.ID)
		}
		return f.ID, nil
	}

	f.ID = types.NewFamilyID()
	definition, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode family: %w", err)
	}
	_, err = s.queries.ExecContext(ctx, "insert-family",
		string(f.ID), tenantID, f.Name, f.Description, string(definition), now, now)
	if err != nil {
		return "", storageErr(err)
	}
	return f.ID, nil
}

// GetFamily loads one family. Returns types.ErrFamilyNotFound when the
// tenant has no family with that ID.
func (s *Store) GetFamily(ctx context.Context, tenantID string, id types.FamilyID) (*types.Family, error) {
	var row struct {
		FamilySummary
		Definition string `db:"definition"`
	}
	err := s.queries.GetContext(ctx, "get-family", &row, string(id), tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrFamilyNotFound, id)
	}
	if err != nil {
		return nil, storageErr(err)
	}

	var f types.Family
	if err := json.Unmarshal([]byte(row.Definition), &f); err != nil {
		return nil, fmt.Errorf("corrupt family definition %s: %w", id, err)
	}
	f.ID = row.ID
	return &f, nil
}

// ListFamilies returns the tenant's families ordered by name.
func (s *Store) ListFamilies(ctx context.Context, tenantID string) ([]FamilySummary, error) {
	families := []FamilySummary{}
	if err := s.queries.SelectContext(ctx, "list-families", &families, tenantID); err != nil {
		return nil, storageErr(err)
	}
	return families, nil
}

// DeleteFamily removes a family and its audit log.
func (s *Store) DeleteFamily(ctx context.Context, tenantID string, id types.FamilyID) error {
	res, err := s.queries.ExecContext(ctx, "delete-family", string(id), tenantID)
	if err != nil {
		return storageErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", types.ErrFamilyNotFound, id)
	}
	return nil
}

// RecordEvaluation appends a check result to the family's audit log.
func (s *Store) RecordEvaluation(ctx context.Context, tenantID string, familyID types.FamilyID, res *parametric.CheckResult) (types.EvaluationID, error) {
	result, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to encode evaluation: %w", err)
	}

	id := types.NewEvaluationID()
	_, err = s.queries.ExecContext(ctx, "insert-evaluation",
		string(id), tenantID, string(familyID),
		res.Validation.Valid,
		len(res.Validation.Errors),
		len(res.Validation.Warnings),
		len(res.Validation.Infos),
		len(res.Evaluation.Failures),
		string(result),
		time.Now().UTC(),
	)
	if err != nil {
		return "", storageErr(err)
	}
	return id, nil
}

// ListEvaluations returns the newest audit entries for a family first.
func (s *Store) ListEvaluations(ctx context.Context, tenantID string, familyID types.FamilyID, limit int) ([]EvaluationRecord, error) {
	records := []EvaluationRecord{}
	if err := s.queries.SelectContext(ctx, "list-evaluations", &records, tenantID, string(familyID), limit); err != nil {
		return nil, storageErr(err)
	}
	return records, nil
}

// CreateAPIKey stores the HMAC hash of a freshly minted key.
func (s *Store) CreateAPIKey(ctx context.Context, tenantID, name string, keyHash []byte) (string, error) {
	id := types.NewAPIKeyID()
	_, err := s.queries.ExecContext(ctx, "insert-api-key", id, tenantID, norm.NFC.String(name), keyHash, time.Now().UTC())
	if err != nil {
		return "", storageErr(err)
	}
	return id, nil
}

// RevokeAPIKey marks a key revoked. Revoking twice is an error.
func (s *Store) RevokeAPIKey(ctx context.Context, apiKeyID string) error {
	res, err := s.queries.ExecContext(ctx, "revoke-api-key", time.Now().UTC(), apiKeyID)
	if err != nil {
		return storageErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("api key %s not found or already revoked", apiKeyID)
	}
	return nil
}

func normalizeFamily(f *types.Family) {
	f.Name = norm.NFC.String(f.Name)
	f.Description = norm.NFC.String(f.Description)
	for i := range f.Parameters {
		f.Parameters[i].Label = norm.NFC.String(f.Parameters[i].Label)
	}
	for i := range f.Constraints {
		f.Constraints[i].Name = norm.NFC.String(f.Constraints[i].Name)
		f.Constraints[i].Message = norm.NFC.String(f.Constraints[i].Message)
	}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", types.ErrStorage, err)
}
