package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип события аудита.
type EventType string

const (
	EventTypeRoomCreated          EventType = "room_created"
	EventTypeRoomUpdated          EventType = "room_updated"
	EventTypeRoomDeleted          EventType = "room_deleted"
	EventTypeSlotCreated          EventType = "slot_created"
	EventTypeSlotUpdated          EventType = "slot_updated"
	EventTypeSlotDeleted          EventType = "slot_deleted"
	EventTypeReservationCreated   EventType = "reservation_created"
	EventTypeReservationUpdated   EventType = "reservation_updated"
	EventTypeReservationCancelled EventType = "reservation_cancelled"
	EventTypePaymentConfirmed     EventType = "payment_confirmed"
)

// events — события аудита. Запись никогда не валит породившую операцию:
// ошибки глотаются на уровне сервиса.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`

	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	EntityID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`

	// Навигационные поля
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
