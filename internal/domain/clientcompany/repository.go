package clientcompany

import "context"

type ClientCompanyRepository interface {
	GetByID(ctx context.Context, id string) (ClientCompany, error)
	ListByCompany(ctx context.Context, companyID string) ([]ClientCompany, error)
	Create(ctx context.Context, cc ClientCompany) (ClientCompany, error)
	Update(ctx context.Context, cc ClientCompany) error
	// Delete fails with ErrClientCompanyInUse while nested rows reference it.
	Delete(ctx context.Context, id string) error
}
