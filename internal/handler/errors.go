package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/payment"
	"github.com/roomly/booking-core/internal/service"
)

// writeError переводит типизированные исходы ядра в HTTP-статусы:
// валидация — 400, не найдено — 404, конфликт — 409, исчерпанные ретраи
// провайдера — 503.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case booking.IsConflict(err), errors.Is(err, service.ErrRoomNameTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrInvalidTeamSize),
		errors.Is(err, booking.ErrInvalidTimeRange),
		errors.Is(err, booking.ErrReservationClosed),
		errors.Is(err, service.ErrInvalidRoomInput),
		errors.Is(err, payment.ErrPaymentNotConfirmed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, payment.ErrServiceBusy):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
