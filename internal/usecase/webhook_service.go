package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/provider"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

// WebhookService ingests asynchronous provider confirmations. Every event
// ends in exactly one of three outcomes (applied, rejected, duplicate), and
// all three are acknowledged with 2xx so providers stop retrying on
// business-logic rejections.
//
// The at-most-one-entitlement-mutation guarantee does not come from locking
// here: it comes from the ledger's compare-and-set. Two concurrent deliveries
// for the same order both reach MarkConfirmed; only the one that performs the
// pending→confirmed transition calls the resolver. A redelivery that finds the
// order already confirmed re-runs the resolver only when the earlier
// entitlement write never landed, so a confirmed order can never strand an
// account on its old plan.
type WebhookService struct {
	orderRepo   repository.OrderRepository
	eventRepo   repository.WebhookEventRepository
	entitlement *EntitlementService
	providers   ProviderResolver
	logger      *zap.Logger
}

func NewWebhookService(
	orderRepo repository.OrderRepository,
	eventRepo repository.WebhookEventRepository,
	entitlement *EntitlementService,
	providers ProviderResolver,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		orderRepo:   orderRepo,
		eventRepo:   eventRepo,
		entitlement: entitlement,
		providers:   providers,
		logger:      logger,
	}
}

// IngestResult reports the terminal outcome of one delivery.
type IngestResult struct {
	Outcome model.WebhookOutcome `json:"outcome"`
	OrderID string               `json:"order_id,omitempty"`
}

// Ingest verifies and applies one confirmation delivery.
func (s *WebhookService) Ingest(ctx context.Context, providerName string, payload []byte, signature string) (*IngestResult, error) {
	payProvider, err := s.providers.GetProvider(providerName)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown provider "+providerName, err)
	}

	confirmation, err := payProvider.Confirm(ctx, &provider.ConfirmRequest{
		Payload:   payload,
		Signature: signature,
	})
	if err != nil {
		// Transport-level failure talking to the provider: let the provider
		// retry the delivery instead of recording a terminal outcome.
		apperrors.LogError(s.logger, err, "Webhook verification call failed",
			zap.String("provider", providerName))
		return nil, apperrors.NewAppError(apperrors.ErrProviderUnavailable,
			"verification call failed", err)
	}

	if confirmation.Failed {
		return s.fail(ctx, providerName, confirmation, payload), nil
	}

	if !confirmation.Verified {
		return s.reject(ctx, providerName, confirmation, payload, confirmation.Reason), nil
	}

	order, err := s.orderRepo.GetByProviderReference(ctx, confirmation.ProviderReference)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrOrderNotFound) {
			return s.reject(ctx, providerName, confirmation, payload, "unknown provider reference"), nil
		}
		return nil, err
	}

	// Verified amount and currency must match the ledger row exactly; a
	// cheaper or foreign-currency payment never unlocks a tier.
	if confirmation.AmountMinor != order.AmountMinor || confirmation.Currency != order.Currency {
		s.logger.Warn("Webhook amount mismatch",
			zap.String("provider", providerName),
			zap.String("order_id", order.ID.String()),
			zap.Int64("expected_amount", order.AmountMinor),
			zap.Int64("reported_amount", confirmation.AmountMinor),
			zap.String("expected_currency", order.Currency),
			zap.String("reported_currency", confirmation.Currency))
		return s.reject(ctx, providerName, confirmation, payload, "amount or currency mismatch"), nil
	}

	switch order.Status {
	case model.OrderStatusConfirmed:
		// A redelivery for an already-confirmed order usually means the
		// provider retried after our 2xx was lost. It can also mean the
		// previous delivery confirmed the order but died before the
		// entitlement write landed; recover that before answering duplicate.
		if err := s.recoverEntitlement(ctx, providerName, confirmation, order); err != nil {
			apperrors.LogError(s.logger, err, "Entitlement recovery failed",
				zap.String("order_id", order.ID.String()))
			return nil, err
		}
		return s.duplicate(ctx, providerName, confirmation, order), nil
	case model.OrderStatusFailed, model.OrderStatusExpired:
		// A late confirmation for a dead order is rejected, never applied.
		return s.reject(ctx, providerName, confirmation, payload,
			"order already "+string(order.Status)), nil
	}

	confirmedAt := time.Now()
	if confirmation.PaidAt != nil {
		confirmedAt = *confirmation.PaidAt
	}

	order, transitioned, err := s.orderRepo.MarkConfirmed(ctx, order.ID, confirmedAt)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflictingState) {
			// Raced with the expiry sweep or a failure mark.
			s.logger.Error("Webhook confirmation conflicted with terminal order state",
				zap.String("provider", providerName),
				zap.String("provider_reference", confirmation.ProviderReference))
			return s.reject(ctx, providerName, confirmation, payload, "conflicting order state"), nil
		}
		return nil, err
	}

	if !transitioned {
		// Another delivery won the transition.
		return s.duplicate(ctx, providerName, confirmation, order), nil
	}

	if _, err := s.entitlement.ApplyConfirmedOrder(ctx, order); err != nil {
		// The order is confirmed but the entitlement write failed. Surface a
		// retryable error: the redelivery will observe confirmed, and the
		// resolver re-run is safe because it sets plan and last order id to
		// the same values.
		apperrors.LogError(s.logger, err, "Entitlement update failed after confirmation",
			zap.String("order_id", order.ID.String()))
		return nil, err
	}

	s.record(ctx, providerName, confirmation, model.WebhookOutcomeApplied, "", nil)

	s.logger.Info("Webhook applied",
		zap.String("provider", providerName),
		zap.String("order_id", order.ID.String()),
		zap.String("plan", string(order.Plan)))

	return &IngestResult{
		Outcome: model.WebhookOutcomeApplied,
		OrderID: order.ID.String(),
	}, nil
}

// recoverEntitlement closes the gap left by a delivery that won the
// confirmation transition but failed writing the entitlement. An event id
// already present in the event log means the earlier delivery finished
// completely; otherwise the resolver re-runs unless the entitlement already
// records this order.
func (s *WebhookService) recoverEntitlement(ctx context.Context, providerName string, confirmation *provider.Confirmation, order *model.Order) error {
	if confirmation.EventID != "" {
		if _, err := s.eventRepo.GetByEventID(ctx, providerName, confirmation.EventID); err == nil {
			return nil
		}
	}

	ent, err := s.entitlement.GetAuthoritative(ctx, order.AccountID)
	if err != nil {
		return err
	}
	if ent.LastOrderID != nil && *ent.LastOrderID == order.ID {
		return nil
	}

	s.logger.Warn("Re-running entitlement resolver for confirmed order",
		zap.String("provider", providerName),
		zap.String("order_id", order.ID.String()),
		zap.String("account_id", order.AccountID.String()))

	_, err = s.entitlement.ApplyConfirmedOrder(ctx, order)
	return err
}

// fail handles a signature-verified event in which the provider explicitly
// reports the payment as failed or expired. The pending order moves to failed
// right away so the account can open a fresh checkout without waiting for the
// sweep. The delivery itself is recorded as rejected: no entitlement changes.
func (s *WebhookService) fail(ctx context.Context, providerName string, confirmation *provider.Confirmation, payload []byte) *IngestResult {
	result := s.reject(ctx, providerName, confirmation, payload, confirmation.Reason)

	if confirmation.ProviderReference == "" {
		return result
	}

	order, err := s.orderRepo.GetByProviderReference(ctx, confirmation.ProviderReference)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrOrderNotFound) {
			apperrors.LogError(s.logger, err, "Order lookup failed for provider failure event",
				zap.String("provider", providerName),
				zap.String("provider_reference", confirmation.ProviderReference))
		}
		return result
	}
	result.OrderID = order.ID.String()

	if order.Status != model.OrderStatusPending {
		return result
	}

	if _, err := s.orderRepo.MarkFailed(ctx, order.ID, confirmation.Reason); err != nil {
		// Racing a confirmation or the sweep; the ledger row already tells
		// the truth, so the event stays acknowledged.
		apperrors.LogError(s.logger, err, "Failed to mark order failed from provider event",
			zap.String("order_id", order.ID.String()))
		return result
	}

	s.logger.Info("Order marked failed from provider event",
		zap.String("provider", providerName),
		zap.String("order_id", order.ID.String()),
		zap.String("reason", confirmation.Reason))

	return result
}

func (s *WebhookService) reject(ctx context.Context, providerName string, confirmation *provider.Confirmation, payload []byte, reason string) *IngestResult {
	s.logger.Warn("Webhook rejected",
		zap.String("provider", providerName),
		zap.String("provider_reference", confirmation.ProviderReference),
		zap.String("reason", reason))

	var data model.JSONB
	if err := json.Unmarshal(payload, &data); err != nil {
		data = nil
	}
	s.record(ctx, providerName, confirmation, model.WebhookOutcomeRejected, reason, data)

	return &IngestResult{Outcome: model.WebhookOutcomeRejected}
}

func (s *WebhookService) duplicate(ctx context.Context, providerName string, confirmation *provider.Confirmation, order *model.Order) *IngestResult {
	s.logger.Info("Webhook duplicate delivery",
		zap.String("provider", providerName),
		zap.String("order_id", order.ID.String()))

	s.record(ctx, providerName, confirmation, model.WebhookOutcomeDuplicate, "", nil)

	return &IngestResult{
		Outcome: model.WebhookOutcomeDuplicate,
		OrderID: order.ID.String(),
	}
}

// record persists the event for audit. Recording is best effort: a failed
// audit write never changes the outcome already decided by the ledger.
func (s *WebhookService) record(ctx context.Context, providerName string, confirmation *provider.Confirmation, outcome model.WebhookOutcome, reason string, data model.JSONB) {
	event := &model.WebhookEvent{
		Provider: providerName,
		EventID:  confirmation.EventID,
		Outcome:  outcome,
		Data:     data,
	}
	if confirmation.ProviderReference != "" {
		ref := confirmation.ProviderReference
		event.ProviderReference = &ref
	}
	if reason != "" {
		event.Reason = &reason
	}
	if event.EventID == "" {
		event.EventID = "unidentified:" + time.Now().UTC().Format(time.RFC3339Nano)
	}

	if _, err := s.eventRepo.Record(ctx, event); err != nil {
		s.logger.Error("Failed to record webhook event",
			zap.String("provider", providerName),
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}
