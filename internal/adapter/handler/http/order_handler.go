package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/middleware/auth"
	"github.com/uxauditpro/backend/internal/usecase"
)

type OrderHandler struct {
	checkoutService *usecase.CheckoutService
	logger          *zap.Logger
}

func NewOrderHandler(checkoutService *usecase.CheckoutService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

type createOrderRequest struct {
	Plan     string `json:"plan" validate:"required,oneof=pro agency"`
	Provider string `json:"provider" validate:"required,oneof=stripe razorpay paypal"`
}

type orderResponse struct {
	OrderID     string                 `json:"order_id"`
	Plan        string                 `json:"plan"`
	AmountMinor int64                  `json:"amount_minor"`
	Currency    string                 `json:"currency"`
	Provider    string                 `json:"provider"`
	Status      string                 `json:"status"`
	Checkout    map[string]interface{} `json:"checkout,omitempty"`
	Reused      bool                   `json:"reused"`
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan must be pro or agency and provider must be stripe, razorpay or paypal"})
	}

	result, err := h.checkoutService.CreateOrder(c.Request().Context(), accountID, model.Plan(req.Plan), req.Provider)
	if err != nil {
		apperrors.LogError(h.logger, err, "Order creation failed",
			zap.String("account_id", accountID.String()),
			zap.String("plan", req.Plan),
			zap.String("provider", req.Provider))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, orderResponse{
		OrderID:     result.Order.ID.String(),
		Plan:        string(result.Order.Plan),
		AmountMinor: result.Order.AmountMinor,
		Currency:    result.Order.Currency,
		Provider:    result.Order.Provider,
		Status:      string(result.Order.Status),
		Checkout:    result.CheckoutParams,
		Reused:      result.Reused,
	})
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.checkoutService.GetOrder(c.Request().Context(), accountID, orderID)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	orders, err := h.checkoutService.ListOrders(c.Request().Context(), accountID, limit)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to list orders",
			zap.String("account_id", accountID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
