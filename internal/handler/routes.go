package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/roomly/booking-core/internal/service"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// NewEcho собирает HTTP-поверхность ядра. Все маршруты под JWT: выпуск
// токенов — внешний сервис, здесь только парсинг и резолв пользователя.
func NewEcho(
	jwtSecret string,
	identity *service.IdentityService,
	rooms *RoomHandler,
	slots *SlotHandler,
	reservations *ReservationHandler,
	payments *PaymentHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	api := e.Group("", JWTAuth(jwtSecret, identity))

	api.GET("/rooms", rooms.List)
	api.POST("/rooms", rooms.Create)
	api.GET("/rooms/:id", rooms.Get)
	api.PUT("/rooms/:id", rooms.Update)
	api.DELETE("/rooms/:id", rooms.Delete)
	api.GET("/rooms/:id/slots", rooms.ListSlots)

	api.GET("/slots", slots.List)
	api.GET("/slots/available", slots.ListAvailable)
	api.POST("/slots", slots.Create)
	api.GET("/slots/:id", slots.Get)
	api.PUT("/slots/:id", slots.Update)
	api.DELETE("/slots/:id", slots.Delete)

	api.GET("/reservations", reservations.List)
	api.GET("/reservations/my", reservations.ListMine)
	api.POST("/reservations", reservations.Create)
	api.GET("/reservations/:id", reservations.Get)
	api.PUT("/reservations/:id", reservations.Update)
	api.DELETE("/reservations/:id", reservations.Cancel)
	api.PATCH("/reservations/:id/status", reservations.SetStatus)

	api.POST("/payments/create-payment-intent", payments.CreateIntent)
	api.POST("/payments/confirm-payment", payments.Confirm)

	return e
}
