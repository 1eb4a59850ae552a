package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// ReportRepository stores audit reports per account.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*model.Report, error)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

// PlanPriceRepository exposes the plan catalog.
type PlanPriceRepository interface {
	GetPrice(ctx context.Context, plan model.Plan, provider string) (*model.PlanPrice, error)
	ListActive(ctx context.Context) ([]*model.PlanPrice, error)
}
