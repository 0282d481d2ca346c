package model

import (
	"time"

	"github.com/google/uuid"
)

// Тип переговорной комнаты.
type RoomType string

const (
	RoomTypeMeeting    RoomType = "meeting"
	RoomTypeConference RoomType = "conference"
	RoomTypeTraining   RoomType = "training"
	RoomTypeEvent      RoomType = "event"
)

// rooms
type Room struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Имя уникально без учёта регистра — проверяется сервисом по lower(name),
	// индекс страхует точные дубликаты.
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Capacity int    `gorm:"not null"`

	// Цена за час аренды. Стоимость брони фиксируется в момент создания,
	// поэтому изменение цены задним числом на старые брони не влияет.
	PricePerHour float64 `gorm:"type:numeric(10,2);not null"`

	Type RoomType `gorm:"type:varchar(32);not null;default:'meeting';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально, но удобно для Preload).
	Slots []TimeSlot `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
