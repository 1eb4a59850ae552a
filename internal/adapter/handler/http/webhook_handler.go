package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/provider"
	"github.com/uxauditpro/backend/internal/usecase"
)

type WebhookHandler struct {
	webhookService *usecase.WebhookService
	logger         *zap.Logger
}

func NewWebhookHandler(webhookService *usecase.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// Handle processes POST /webhooks/:provider. Rejected and duplicate events
// are answered 200 like applied ones; a non-2xx would only make the provider
// redeliver an event that will never apply. Only transport failures get a
// retryable status.
func (h *WebhookHandler) Handle(c echo.Context) error {
	providerName := c.Param("provider")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "error reading request body"})
	}

	signature := signatureHeader(c, providerName)

	result, err := h.webhookService.Ingest(c.Request().Context(), providerName, body, signature)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrInvalidArgument) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown provider"})
		}
		apperrors.LogError(h.logger, err, "Webhook ingest failed",
			zap.String("provider", providerName))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func signatureHeader(c echo.Context, providerName string) string {
	switch providerName {
	case provider.NameStripe:
		return c.Request().Header.Get("Stripe-Signature")
	case provider.NameRazorpay:
		return c.Request().Header.Get("X-Razorpay-Signature")
	default:
		return c.Request().Header.Get("X-Webhook-Signature")
	}
}
