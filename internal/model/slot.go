package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// time_slots
//
// Слот — бронируемая единица: комната + календарная дата + полуоткрытый
// интервал [StartTime, EndTime). Точные дубликаты отсекает уникальный индекс,
// пересечения без точного совпадения — арбитр на create/update.
type TimeSlot struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	RoomID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_slots_room_date_time"`

	// Чистая дата без времени — datatypes.Date.
	Date datatypes.Date `gorm:"type:date;not null;index;uniqueIndex:ux_slots_room_date_time"`

	StartTime datatypes.Time `gorm:"type:time;not null;uniqueIndex:ux_slots_room_date_time"`
	EndTime   datatypes.Time `gorm:"type:time;not null;uniqueIndex:ux_slots_room_date_time"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Room *Room `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Duration возвращает длительность слота.
func (s *TimeSlot) Duration() time.Duration {
	return time.Duration(s.EndTime - s.StartTime)
}

// Hours — длительность слота в часах (для расчёта стоимости).
func (s *TimeSlot) Hours() float64 {
	return s.Duration().Hours()
}
