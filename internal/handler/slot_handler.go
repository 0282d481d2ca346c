package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"github.com/roomly/booking-core/internal/service"
)

type SlotHandler struct {
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

func (h *SlotHandler) parseInput(c echo.Context) (service.SlotInput, error) {
	var req slotRequest
	if err := c.Bind(&req); err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid start time")
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return service.SlotInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid end time")
	}

	return service.SlotInput{RoomID: roomID, Date: date, StartTime: start, EndTime: end}, nil
}

func (h *SlotHandler) Create(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	in, err := h.parseInput(c)
	if err != nil {
		return err
	}

	slot, err := h.slots.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toSlotResponse(slot))
}

func (h *SlotHandler) Update(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	in, err := h.parseInput(c)
	if err != nil {
		return err
	}

	slot, err := h.slots.Update(c.Request().Context(), user.ID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) Delete(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	if err := h.slots.Delete(c.Request().Context(), user.ID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SlotHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	slot, err := h.slots.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSlotResponse(slot))
}

// dateRange читает from/to из query; по умолчанию — ближайшие 30 дней.
func dateRange(c echo.Context) (datatypes.Date, datatypes.Date, error) {
	now := time.Now().UTC()
	from := datatypes.Date(now)
	to := datatypes.Date(now.AddDate(0, 0, 30))

	if v := c.QueryParam("from"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		from = d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		to = d
	}
	return from, to, nil
}

func (h *SlotHandler) List(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	slots, err := h.slots.ListByDateRange(c.Request().Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SlotHandler) ListAvailable(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	slots, err := h.slots.ListAvailable(c.Request().Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return c.JSON(http.StatusOK, out)
}
