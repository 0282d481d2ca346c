package handler

import (
	"time"

	"gorm.io/datatypes"

	"github.com/roomly/booking-core/internal/model"
)

// Запросы. Даты — "2006-01-02", время — "15:04".

type roomRequest struct {
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity" validate:"required,gt=0"`
	PricePerHour float64 `json:"pricePerHour" validate:"required,gt=0"`
	Type         string  `json:"type" validate:"required"`
}

type slotRequest struct {
	RoomID    string `json:"roomId" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type reservationRequest struct {
	SlotID   string `json:"slotId" validate:"required,uuid"`
	TeamSize int    `json:"teamSize" validate:"required,gt=0"`
}

type reservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

type createIntentRequest struct {
	SlotID   string `json:"slotId" validate:"required,uuid"`
	TeamSize int    `json:"teamSize" validate:"required,gt=0"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	SlotID          string `json:"slotId" validate:"required,uuid"`
	TeamSize        int    `json:"teamSize" validate:"required,gt=0"`
}

// Ответы.

type roomResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	PricePerHour float64 `json:"pricePerHour"`
	Type         string  `json:"type"`
}

type slotResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type reservationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SlotID    string    `json:"slotId"`
	TeamSize  int       `json:"teamSize"`
	TotalCost float64   `json:"totalCost"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type intentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
}

func toRoomResponse(r *model.Room) roomResponse {
	return roomResponse{
		ID:           r.ID.String(),
		Name:         r.Name,
		Capacity:     r.Capacity,
		PricePerHour: r.PricePerHour,
		Type:         string(r.Type),
	}
}

func toSlotResponse(s *model.TimeSlot) slotResponse {
	return slotResponse{
		ID:        s.ID.String(),
		RoomID:    s.RoomID.String(),
		Date:      time.Time(s.Date).Format("2006-01-02"),
		StartTime: clockString(s.StartTime),
		EndTime:   clockString(s.EndTime),
	}
}

func toReservationResponse(r *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		SlotID:    r.SlotID.String(),
		TeamSize:  r.TeamSize,
		TotalCost: r.TotalCost,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

func parseClock(s string) (datatypes.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

func clockString(t datatypes.Time) string {
	d := time.Duration(t)
	return time.Time{}.Add(d).Format("15:04")
}
