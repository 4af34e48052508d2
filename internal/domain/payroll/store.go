package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"nlpayroll/internal/platform/querier"
)

// ReturnRecord is the stored form of a filing. Payload holds the sealed ArchivedReturn.
type ReturnRecord struct {
	ID           string
	CompanyID    string
	Year         int
	PeriodType   PeriodType
	PeriodNumber int
	Status       string
	Totals       Totals
	Payload      []byte
	CreatedBy    string
	CreatedAt    time.Time
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) InsertReturn(ctx context.Context, tenantID string, record ReturnRecord) error {
	totalsJSON, err := json.Marshal(record.Totals)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO tax_returns (id, tenant_id, company_id, tax_year, period_type, period_number, status, totals_json, payload, created_by, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, record.ID, tenantID, record.CompanyID, record.Year, string(record.PeriodType), record.PeriodNumber,
		record.Status, totalsJSON, record.Payload, nullIfEmpty(record.CreatedBy), record.CreatedAt)
	return err
}

func (s *Store) GetReturn(ctx context.Context, tenantID, returnID string) (ReturnRecord, error) {
	var record ReturnRecord
	var periodType string
	var totalsJSON []byte
	var createdBy *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, tax_year, period_type, period_number, status, totals_json, payload, created_by, created_at
    FROM tax_returns
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, returnID).Scan(&record.ID, &record.CompanyID, &record.Year, &periodType, &record.PeriodNumber,
		&record.Status, &totalsJSON, &record.Payload, &createdBy, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReturnRecord{}, ErrReturnNotFound
	}
	if err != nil {
		return ReturnRecord{}, err
	}
	record.PeriodType = PeriodType(periodType)
	if createdBy != nil {
		record.CreatedBy = *createdBy
	}
	if err := json.Unmarshal(totalsJSON, &record.Totals); err != nil {
		return ReturnRecord{}, fmt.Errorf("decode totals of %s: %w", returnID, err)
	}
	return record, nil
}

func (s *Store) CountReturns(ctx context.Context, tenantID, companyID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM tax_returns
    WHERE tenant_id = $1 AND ($2 = '' OR company_id = $2)
  `, tenantID, companyID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListReturns(ctx context.Context, tenantID, companyID string, limit, offset int) ([]ReturnSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, tax_year, period_type, period_number, status, totals_json, created_at
    FROM tax_returns
    WHERE tenant_id = $1 AND ($2 = '' OR company_id = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ReturnSummary
	for rows.Next() {
		var summary ReturnSummary
		var periodType string
		var totalsJSON []byte
		if err := rows.Scan(&summary.ID, &summary.CompanyID, &summary.Year, &periodType, &summary.PeriodNumber,
			&summary.Status, &totalsJSON, &summary.CreatedAt); err != nil {
			return nil, err
		}
		summary.PeriodType = PeriodType(periodType)
		if err := json.Unmarshal(totalsJSON, &summary.Totals); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
