package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// OrderRepository is the durable order ledger. It is the only place the
// pending→confirmed transition happens, and that transition is an atomic
// conditional update so concurrent webhook deliveries serialize through it.
type OrderRepository interface {
	// CreatePending records a new pending order, or returns the existing
	// pending order for the same (account, plan) so a retry never opens a
	// second charge path. reused reports which case happened.
	CreatePending(ctx context.Context, order *model.Order) (result *model.Order, reused bool, err error)

	// AttachCheckout stores the provider reference and checkout parameters
	// produced by the provider for a pending order.
	AttachCheckout(ctx context.Context, orderID uuid.UUID, providerRef string, checkout model.JSONB) error

	// MarkConfirmed moves the order pending→confirmed with a compare-and-set.
	// transitioned is true only for the caller that actually performed the
	// transition; a repeat call sees the confirmed row and transitioned=false.
	// Confirming an order that is failed or expired returns CONFLICTING_STATE.
	MarkConfirmed(ctx context.Context, orderID uuid.UUID, confirmedAt time.Time) (order *model.Order, transitioned bool, err error)

	// MarkFailed moves a pending order to failed. Failing an already-failed
	// order is an idempotent no-op; failing a confirmed order is
	// CONFLICTING_STATE.
	MarkFailed(ctx context.Context, orderID uuid.UUID, reason string) (*model.Order, error)

	// ExpireStale moves pending orders created before the cutoff to expired
	// and returns how many rows changed.
	ExpireStale(ctx context.Context, before time.Time) (int64, error)

	GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	GetByProviderReference(ctx context.Context, providerRef string) (*model.Order, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Order, error)

	// DeleteByAccount removes all ledger rows of an account (account deletion).
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
