package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// Closed — терминальный статус: из CANCELLED/COMPLETED бронь не редактируется.
func (s ReservationStatus) Closed() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// reservations
//
// На слот допускается максимум одна не-отменённая бронь; это закрывает
// частичный уникальный индекс ux_reservations_active_slot (см. Migrate).
// Пара (user_id, slot_id) уникальна независимо от статуса.
type Reservation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reservations_user_slot"`
	SlotID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reservations_user_slot"`

	TeamSize int `gorm:"not null"`

	// Стоимость фиксируется при создании/переносе: цена комнаты за час,
	// умноженная на длительность слота. Дальше не пересчитывается.
	TotalCost float64 `gorm:"type:numeric(10,2);not null"`

	Status ReservationStatus `gorm:"type:varchar(32);not null;index"`

	CreatedAt   time.Time  `gorm:"not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()"`
	CancelledAt *time.Time `gorm:"type:timestamp with time zone"`

	User *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Slot *TimeSlot `gorm:"foreignKey:SlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
