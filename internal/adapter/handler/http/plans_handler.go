package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/repository"
)

type PlansHandler struct {
	priceRepo repository.PlanPriceRepository
	logger    *zap.Logger
}

func NewPlansHandler(priceRepo repository.PlanPriceRepository, logger *zap.Logger) *PlansHandler {
	return &PlansHandler{
		priceRepo: priceRepo,
		logger:    logger,
	}
}

type planPriceResponse struct {
	Plan          string `json:"plan"`
	Provider      string `json:"provider"`
	AmountMinor   int64  `json:"amount_minor"`
	DisplayAmount string `json:"display_amount"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
}

// List handles GET /api/v1/plans. Public; the catalog is the only pricing
// clients ever see, and the only pricing the server ever charges.
func (h *PlansHandler) List(c echo.Context) error {
	prices, err := h.priceRepo.ListActive(c.Request().Context())
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to list plan prices")
		return apperrors.ToHTTPError(err)
	}

	result := make([]planPriceResponse, len(prices))
	for i, p := range prices {
		result[i] = planPriceResponse{
			Plan:          string(p.Plan),
			Provider:      p.Provider,
			AmountMinor:   p.AmountMinor,
			DisplayAmount: p.DisplayAmount(),
			Currency:      p.Currency,
			Interval:      p.Interval,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"plans": result})
}
