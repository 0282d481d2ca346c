package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"
	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/model"
)

type ReservationRepository interface {
	// Атомарная вставка "если на слоте нет активной брони". Единственный
	// легальный путь появления новой брони.
	CreateActive(ctx context.Context, res *model.Reservation) error
	// Перенос/изменение существующей брони под той же гарантией.
	UpdateChecked(ctx context.Context, res *model.Reservation) error
	// Найти бронь по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Активная (не-CANCELLED) бронь слота, если есть.
	FindActiveBySlot(ctx context.Context, slotID uuid.UUID) (*model.Reservation, error)
	// Есть ли у пользователя бронь этого слота (в любом статусе).
	ExistsForUserAndSlot(ctx context.Context, userID, slotID uuid.UUID) (bool, error)
	// Сменить статус (отмена, административные переводы).
	SetStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus, cancelledAt *time.Time) error
	// Все брони.
	List(ctx context.Context) ([]model.Reservation, error)
	// Брони пользователя.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error)
}

type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// lockForUpdate навешивает FOR UPDATE там, где диалект его понимает.
// SQLite (тесты) блокировку строк не поддерживает — там записи и так
// сериализуются одним соединением.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateActive выполняет вставку в транзакции: блокирует активные брони
// слота, повторяет проверки занятости/дубля уже под блокировкой и вставляет.
// Прикладные проверки до транзакции лишь срезают типовой случай — гонку
// закрывает блокировка плюс частичный уникальный индекс.
func (r *GormReservationRepository) CreateActive(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reservation
		err := lockForUpdate(tx.Model(&model.Reservation{})).
			Where("slot_id = ? AND status <> ?", res.SlotID, model.ReservationStatusCancelled).
			Take(&existing).Error
		if err == nil {
			return booking.ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var dup int64
		if err := tx.Model(&model.Reservation{}).
			Where("user_id = ? AND slot_id = ?", res.UserID, res.SlotID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return booking.ErrDuplicateReservation
		}

		if res.ID == uuid.Nil {
			res.ID = uuid.New()
		}
		if err := tx.Create(res).Error; err != nil {
			// Нарушение уникального индекса — проигранная гонка за слот,
			// для вызывающего неотличимо от отказа до записи.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return booking.ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

// UpdateChecked сохраняет бронь после смены слота/состава, прогоняя проверки
// занятости целевого слота под блокировкой (собственная строка исключается).
func (r *GormReservationRepository) UpdateChecked(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reservation
		err := lockForUpdate(tx.Model(&model.Reservation{})).
			Where("slot_id = ? AND status <> ? AND id <> ?",
				res.SlotID, model.ReservationStatusCancelled, res.ID).
			Take(&existing).Error
		if err == nil {
			return booking.ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var dup int64
		if err := tx.Model(&model.Reservation{}).
			Where("user_id = ? AND slot_id = ? AND id <> ?", res.UserID, res.SlotID, res.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return booking.ErrDuplicateReservation
		}

		if err := tx.Save(res).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return booking.ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormReservationRepository) FindActiveBySlot(ctx context.Context, slotID uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.db.WithContext(ctx).
		Where("slot_id = ? AND status <> ?", slotID, model.ReservationStatusCancelled).
		First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormReservationRepository) ExistsForUserAndSlot(ctx context.Context, userID, slotID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("user_id = ? AND slot_id = ?", userID, slotID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormReservationRepository) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.ReservationStatus,
	cancelledAt *time.Time,
) error {
	update := map[string]any{
		"status": status,
	}
	if cancelledAt != nil {
		update["cancelled_at"] = *cancelledAt
	}
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReservationRepository) List(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
