package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// EntitlementRepository is the account entitlement store. SetPlan is the
// single plan mutation path and is only called by the entitlement resolver.
type EntitlementRepository interface {
	// Provision creates the entitlement row at signup (plan=free).
	Provision(ctx context.Context, ent *model.Entitlement) error

	// Get returns ACCOUNT_NOT_FOUND when the account has no entitlement row.
	Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error)

	// SetPlan updates the plan and the order that caused the change.
	SetPlan(ctx context.Context, accountID uuid.UUID, plan model.Plan, lastOrderID uuid.UUID) (*model.Entitlement, error)

	List(ctx context.Context, limit, offset int) ([]*model.Entitlement, error)
	Delete(ctx context.Context, accountID uuid.UUID) error
}

// EntitlementCache is a read accelerator in front of the entitlement store.
// It is a UI hint only; authorization decisions always re-read the store.
type EntitlementCache interface {
	Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error)
	Set(ctx context.Context, ent *model.Entitlement) error
	Invalidate(ctx context.Context, accountID uuid.UUID) error
}
