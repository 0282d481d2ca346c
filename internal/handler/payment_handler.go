package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/roomly/booking-core/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	info, err := h.payments.CreateIntent(c.Request().Context(), user.ID, slotID, req.TeamSize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, intentResponse{
		ClientSecret:    info.ClientSecret,
		PaymentIntentID: info.IntentID,
		Amount:          info.Amount,
	})
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	res, err := h.payments.Confirm(c.Request().Context(), user.ID, req.PaymentIntentID, slotID, req.TeamSize)
	if err != nil {
		return writeError(c, err)
	}
	// Дубль подтверждения получает ту же бронь, что и первый вызов.
	return c.JSON(http.StatusOK, toReservationResponse(res))
}
