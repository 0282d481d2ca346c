package model

import (
	"time"

	"github.com/google/uuid"
)

// users
//
// Ядро бронирования пользователей не администрирует — таблица нужна только
// для резолва идентичности (email/id -> пользователь) и внешних ключей.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Email       string `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(255)"`
	Role        string `gorm:"type:varchar(32);not null;default:'user'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
