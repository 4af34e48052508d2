package payroll

import "context"

type StoreAPI interface {
	InsertReturn(ctx context.Context, tenantID string, record ReturnRecord) error
	GetReturn(ctx context.Context, tenantID, returnID string) (ReturnRecord, error)
	CountReturns(ctx context.Context, tenantID, companyID string) (int, error)
	ListReturns(ctx context.Context, tenantID, companyID string, limit, offset int) ([]ReturnSummary, error)
}
