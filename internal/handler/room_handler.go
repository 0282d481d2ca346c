package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/service"
)

type RoomHandler struct {
	rooms *service.RoomService
	slots *service.SlotService
}

func NewRoomHandler(rooms *service.RoomService, slots *service.SlotService) *RoomHandler {
	return &RoomHandler{rooms: rooms, slots: slots}
}

func (h *RoomHandler) Create(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	room, err := h.rooms.Create(c.Request().Context(), user.ID, service.RoomInput{
		Name:         req.Name,
		Capacity:     req.Capacity,
		PricePerHour: req.PricePerHour,
		Type:         model.RoomType(req.Type),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResponse(room))
}

func (h *RoomHandler) Update(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	room, err := h.rooms.Update(c.Request().Context(), user.ID, id, service.RoomInput{
		Name:         req.Name,
		Capacity:     req.Capacity,
		PricePerHour: req.PricePerHour,
		Type:         model.RoomType(req.Type),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h *RoomHandler) Delete(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.rooms.Delete(c.Request().Context(), user.ID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.rooms.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(room))
}

func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.rooms.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]roomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RoomHandler) ListSlots(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	slots, err := h.slots.ListByRoom(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]slotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return c.JSON(http.StatusOK, out)
}
