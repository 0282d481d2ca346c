package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/roomly/booking-core/internal/model"
)

type SlotRepository interface {
	// Создать слот.
	Create(ctx context.Context, slot *model.TimeSlot) error
	// Полное обновление слота.
	Update(ctx context.Context, slot *model.TimeSlot) error
	// Удалить слот.
	Delete(ctx context.Context, id uuid.UUID) error
	// Найти слот по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
	// Слоты комнаты на конкретную дату (для проверки пересечений).
	ListByRoomAndDate(ctx context.Context, roomID uuid.UUID, date datatypes.Date) ([]model.TimeSlot, error)
	// Все слоты комнаты.
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.TimeSlot, error)
	// Слоты по диапазону дат.
	ListByDateRange(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error)
	// Слоты без активной брони по диапазону дат.
	ListAvailable(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error)
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *GormSlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *GormSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.TimeSlot{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) ListByRoomAndDate(
	ctx context.Context,
	roomID uuid.UUID,
	date datatypes.Date,
) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND date = ?", roomID, date).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListByDateRange(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListAvailable(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.slot_id = time_slots.id AND r.status <> ?
		)`, model.ReservationStatusCancelled).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}
