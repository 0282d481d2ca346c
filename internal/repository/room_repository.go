package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/roomly/booking-core/internal/model"
)

type RoomRepository interface {
	// Создать комнату.
	Create(ctx context.Context, room *model.Room) error
	// Полное обновление комнаты.
	Update(ctx context.Context, room *model.Room) error
	// Удалить комнату.
	Delete(ctx context.Context, id uuid.UUID) error
	// Найти комнату по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	// Найти комнату по имени без учёта регистра.
	FindByNameFold(ctx context.Context, name string) (*model.Room, error)
	// Все комнаты.
	List(ctx context.Context) ([]model.Room, error)
}

// Реализация на GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *GormRoomRepository) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Room{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *GormRoomRepository) FindByNameFold(ctx context.Context, name string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *GormRoomRepository) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
