package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
)

func TestApplyConfirmedOrder_SetsPlanFromOrder(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	svc := NewEntitlementService(entRepo, nil, zap.NewNop())

	order := &model.Order{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Plan:      model.PlanAgency,
		Status:    model.OrderStatusConfirmed,
	}

	entRepo.On("SetPlan", mock.Anything, order.AccountID, model.PlanAgency, order.ID).
		Return(&model.Entitlement{AccountID: order.AccountID, Plan: model.PlanAgency}, nil)

	ent, err := svc.ApplyConfirmedOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, model.PlanAgency, ent.Plan)

	entRepo.AssertExpectations(t)
}

func TestApplyConfirmedOrder_AppliesDowngrade(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	svc := NewEntitlementService(entRepo, nil, zap.NewNop())

	// A confirmed order for a lower tier is an explicit downgrade.
	order := &model.Order{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Plan:      model.PlanPro,
		Status:    model.OrderStatusConfirmed,
	}

	entRepo.On("SetPlan", mock.Anything, order.AccountID, model.PlanPro, order.ID).
		Return(&model.Entitlement{AccountID: order.AccountID, Plan: model.PlanPro}, nil)

	ent, err := svc.ApplyConfirmedOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, ent.Plan)
}

func TestApplyConfirmedOrder_RejectsNonConfirmedOrder(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	svc := NewEntitlementService(entRepo, nil, zap.NewNop())

	for _, status := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusFailed,
		model.OrderStatusExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			order := &model.Order{
				ID:        uuid.New(),
				AccountID: uuid.New(),
				Plan:      model.PlanPro,
				Status:    status,
			}

			_, err := svc.ApplyConfirmedOrder(context.Background(), order)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrOrderNotConfirmed))
		})
	}

	entRepo.AssertNotCalled(t, "SetPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// fakeCache is a trivial in-memory EntitlementCache.
type fakeCache struct {
	entries map[uuid.UUID]*model.Entitlement
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]*model.Entitlement)}
}

func (c *fakeCache) Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	return c.entries[accountID], nil
}

func (c *fakeCache) Set(ctx context.Context, ent *model.Entitlement) error {
	c.entries[ent.AccountID] = ent
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	delete(c.entries, accountID)
	return nil
}

func TestGet_PopulatesAndUsesCache(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	cache := newFakeCache()
	svc := NewEntitlementService(entRepo, cache, zap.NewNop())

	accountID := uuid.New()
	stored := &model.Entitlement{AccountID: accountID, Plan: model.PlanPro, Role: model.RoleUser}

	entRepo.On("Get", mock.Anything, accountID).Return(stored, nil).Once()

	// First read misses the cache and hits the store.
	ent, err := svc.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, ent.Plan)

	// Second read is served from the cache; the store mock only allows one call.
	ent, err = svc.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, ent.Plan)

	entRepo.AssertExpectations(t)
}

func TestApplyConfirmedOrder_InvalidatesCache(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	cache := newFakeCache()
	svc := NewEntitlementService(entRepo, cache, zap.NewNop())

	accountID := uuid.New()
	cache.Set(context.Background(), &model.Entitlement{AccountID: accountID, Plan: model.PlanFree})

	order := &model.Order{
		ID:        uuid.New(),
		AccountID: accountID,
		Plan:      model.PlanPro,
		Status:    model.OrderStatusConfirmed,
	}

	entRepo.On("SetPlan", mock.Anything, accountID, model.PlanPro, order.ID).
		Return(&model.Entitlement{AccountID: accountID, Plan: model.PlanPro}, nil)

	_, err := svc.ApplyConfirmedOrder(context.Background(), order)
	require.NoError(t, err)

	cached, _ := cache.Get(context.Background(), accountID)
	assert.Nil(t, cached, "stale cache entry must be invalidated")
}

func TestRequireRole(t *testing.T) {
	entRepo := new(MockEntitlementRepository)
	svc := NewEntitlementService(entRepo, nil, zap.NewNop())

	accountID := uuid.New()
	entRepo.On("Get", mock.Anything, accountID).
		Return(&model.Entitlement{AccountID: accountID, Plan: model.PlanAgency, Role: model.RoleUser}, nil)

	// Plan is orthogonal to role: an agency-plan user is still not an admin.
	_, err := svc.RequireRole(context.Background(), accountID, model.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	ent, err := svc.RequireRole(context.Background(), accountID, model.RoleUser, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, ent.Role)
}
