package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра бронирования.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Room{},
		&TimeSlot{},
		&Reservation{},
		&Event{},
	); err != nil {
		return err
	}

	// Частичный уникальный индекс: не более одной активной (не-CANCELLED)
	// брони на слот. Это авторитетная защита от двойного бронирования —
	// прикладные проверки арбитра лишь срезают типовой случай до записи.
	// Синтаксис валиден и для Postgres, и для SQLite в тестах.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_reservations_active_slot
		 ON reservations (slot_id) WHERE status <> 'CANCELLED'`,
	).Error
}
