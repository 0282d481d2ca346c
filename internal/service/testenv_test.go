package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/cache"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/repository"
)

type testEnv struct {
	db           *gorm.DB
	cache        *cache.Service
	rooms        *RoomService
	slots        *SlotService
	reservations *ReservationService
}

// newTestEnv поднимает in-memory SQLite со схемой, зеркалящей миграции
// (sqlite-friendly: без uuid-дефолтов). Одно соединение — транзакции
// сериализуются, FOR UPDATE не нужен.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT,
			role TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE rooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			capacity INTEGER NOT NULL,
			price_per_hour REAL NOT NULL,
			type TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE time_slots (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			date DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE(room_id, date, start_time, end_time)
		);`,
		`CREATE TABLE reservations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			team_size INTEGER NOT NULL,
			total_cost REAL NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			cancelled_at DATETIME,
			UNIQUE(user_id, slot_id)
		);`,
		`CREATE UNIQUE INDEX ux_reservations_active_slot
			ON reservations (slot_id) WHERE status <> 'CANCELLED';`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			created_at DATETIME,
			user_id TEXT,
			entity_id TEXT,
			details TEXT
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	cacheSvc := cache.New(map[cache.Region]cache.Config{
		cache.RegionRooms:            {TTL: time.Minute, MaxEntries: 16},
		cache.RegionSlots:            {TTL: time.Minute, MaxEntries: 64},
		cache.RegionSlotsByRoom:      {TTL: time.Minute, MaxEntries: 64},
		cache.RegionSlotsByDateRange: {TTL: time.Minute, MaxEntries: 64},
		cache.RegionAvailableSlots:   {TTL: time.Minute, MaxEntries: 64},
		cache.RegionReservations:     {TTL: time.Minute, MaxEntries: 64},
		cache.RegionUserReservations: {TTL: time.Minute, MaxEntries: 64},
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	roomRepo := repository.NewGormRoomRepository(db)
	slotRepo := repository.NewGormSlotRepository(db)
	reservationRepo := repository.NewGormReservationRepository(db)
	activity := NewActivityLog(db, nil, logger)

	return &testEnv{
		db:           db,
		cache:        cacheSvc,
		rooms:        NewRoomService(roomRepo, cacheSvc, activity),
		slots:        NewSlotService(slotRepo, roomRepo, cacheSvc, activity),
		reservations: NewReservationService(reservationRepo, slotRepo, roomRepo, cacheSvc, activity, logger),
	}
}

func testDate(t *testing.T) datatypes.Date {
	t.Helper()
	return datatypes.Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
}

func (e *testEnv) mustRoom(t *testing.T, name string, capacity int, price float64) *model.Room {
	t.Helper()
	room, err := e.rooms.Create(context.Background(), uuid.New(), RoomInput{
		Name:         name,
		Capacity:     capacity,
		PricePerHour: price,
		Type:         model.RoomTypeMeeting,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func (e *testEnv) mustSlot(t *testing.T, roomID uuid.UUID, startH, endH int) *model.TimeSlot {
	t.Helper()
	slot, err := e.slots.Create(context.Background(), uuid.New(), SlotInput{
		RoomID:    roomID,
		Date:      testDate(t),
		StartTime: datatypes.NewTime(startH, 0, 0, 0),
		EndTime:   datatypes.NewTime(endH, 0, 0, 0),
	})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return slot
}
