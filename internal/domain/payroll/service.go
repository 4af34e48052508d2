package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	AuditActionReturnFiled = "tax_return.filed"
	AuditEntityTaxReturn   = "tax_return"
)

// Sealer protects archived payloads at rest; they carry BSNs.
type Sealer interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// Actor identifies who asked for a filing and under which request.
type Actor struct {
	TenantID  string
	UserID    string
	RequestID string
	IP        string
}

type Service struct {
	store  StoreAPI
	rates  *Registry
	sealer Sealer
	audit  AuditRecorder
}

// NewService wires the engine to an optional archive. A nil store disables archiving.
func NewService(store StoreAPI, rates *Registry, sealer Sealer, audit AuditRecorder) *Service {
	if rates == nil {
		rates = DefaultRegistry()
	}
	return &Service{store: store, rates: rates, sealer: sealer, audit: audit}
}

func (s *Service) Rates() *Registry {
	return s.rates
}

func (s *Service) Archiving() bool {
	return s.store != nil
}

// Prepare computes and validates a return. The return's status reflects its findings.
func (s *Service) Prepare(req ReturnRequest) (TaxReturn, []ValidationError) {
	ret := BuildTaxReturn(s.rates.For(req.Year), req)
	findings := ValidateTaxReturn(ret)
	ret.Status = statusFor(findings)
	return ret, findings
}

// File prepares a return and archives it with its findings when an archive is configured.
// Blocked returns are archived too so the findings stay on record.
func (s *Service) File(ctx context.Context, actor Actor, req ReturnRequest) (ArchivedReturn, error) {
	ret, findings := s.Prepare(req)
	ret.ID = uuid.NewString()
	ret.CreatedAt = time.Now().UTC()
	archived := ArchivedReturn{Return: ret, Company: req.Company, Findings: findings}

	if s.store == nil {
		return archived, nil
	}

	payload, err := json.Marshal(archived)
	if err != nil {
		return ArchivedReturn{}, err
	}
	if s.sealer != nil {
		if payload, err = s.sealer.Encrypt(payload); err != nil {
			return ArchivedReturn{}, fmt.Errorf("seal tax return: %w", err)
		}
	}

	record := ReturnRecord{
		ID:           ret.ID,
		CompanyID:    ret.CompanyID,
		Year:         ret.Year,
		PeriodType:   ret.PeriodType,
		PeriodNumber: ret.PeriodNumber,
		Status:       ret.Status,
		Totals:       ret.Totals,
		Payload:      payload,
		CreatedBy:    actor.UserID,
		CreatedAt:    ret.CreatedAt,
	}
	if err := s.store.InsertReturn(ctx, actor.TenantID, record); err != nil {
		return ArchivedReturn{}, err
	}

	if s.audit != nil {
		summary := map[string]any{"status": ret.Status, "totals": ret.Totals, "findings": len(findings)}
		if err := s.audit.Record(ctx, actor.TenantID, actor.UserID, AuditActionReturnFiled, AuditEntityTaxReturn, ret.ID, actor.RequestID, actor.IP, nil, summary); err != nil {
			slog.Warn("audit tax_return.filed failed", "err", err, "returnId", ret.ID, "requestId", actor.RequestID)
		}
	}
	return archived, nil
}

func (s *Service) Get(ctx context.Context, tenantID, returnID string) (ArchivedReturn, error) {
	if s.store == nil {
		return ArchivedReturn{}, ErrArchiveDisabled
	}
	record, err := s.store.GetReturn(ctx, tenantID, returnID)
	if err != nil {
		return ArchivedReturn{}, err
	}
	payload := record.Payload
	if s.sealer != nil {
		if payload, err = s.sealer.Decrypt(payload); err != nil {
			return ArchivedReturn{}, fmt.Errorf("unseal tax return %s: %w", returnID, err)
		}
	}
	var archived ArchivedReturn
	if err := json.Unmarshal(payload, &archived); err != nil {
		return ArchivedReturn{}, fmt.Errorf("decode tax return %s: %w", returnID, err)
	}
	return archived, nil
}

func (s *Service) List(ctx context.Context, tenantID, companyID string, limit, offset int) ([]ReturnSummary, int, error) {
	if s.store == nil {
		return nil, 0, ErrArchiveDisabled
	}
	total, err := s.store.CountReturns(ctx, tenantID, companyID)
	if err != nil {
		return nil, 0, err
	}
	summaries, err := s.store.ListReturns(ctx, tenantID, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}
