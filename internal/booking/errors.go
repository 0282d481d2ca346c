package booking

import "errors"

// Типизированные исходы арбитража. Движок платежей матчится на них через
// errors.Is — никакого control flow на исключениях/панике.
var (
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrInvalidTeamSize      = errors.New("team size must be positive")
	ErrSlotOverlap          = errors.New("slot overlaps an existing slot")
	ErrSlotTaken            = errors.New("slot already has an active reservation")
	ErrDuplicateReservation = errors.New("user already has a reservation for this slot")
	ErrCapacityExceeded     = errors.New("team size exceeds room capacity")
	ErrReservationClosed    = errors.New("reservation is cancelled or completed")
)

// IsConflict — конфликтные исходы (409): слот занят, дубль у пользователя,
// пересечение интервалов. Именно они запускают реконсиляцию в платёжном пути.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrDuplicateReservation) ||
		errors.Is(err, ErrSlotOverlap)
}
