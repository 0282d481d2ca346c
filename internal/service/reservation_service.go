package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/cache"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/repository"
)

// ReservationService — реестр броней: единственный писатель их статусов.
// Проверки допуска читают сквозь репозиторий, не через кэш: кэш отвечает
// только за листинги, решения принимаются по хранилищу.
type ReservationService struct {
	reservations repository.ReservationRepository
	slots        repository.SlotRepository
	rooms        repository.RoomRepository
	cache        *cache.Service
	activity     *ActivityLog
	log          *logrus.Logger
}

func NewReservationService(
	reservations repository.ReservationRepository,
	slots repository.SlotRepository,
	rooms repository.RoomRepository,
	c *cache.Service,
	activity *ActivityLog,
	log *logrus.Logger,
) *ReservationService {
	if log == nil {
		log = logrus.New()
	}
	return &ReservationService{
		reservations: reservations,
		slots:        slots,
		rooms:        rooms,
		cache:        c,
		activity:     activity,
		log:          log,
	}
}

// Регионы, производные от броней: сами списки, пер-пользовательские списки
// и доступность слотов (существование брони меняет её результат).
var reservationRegions = []cache.Region{
	cache.RegionReservations,
	cache.RegionUserReservations,
	cache.RegionAvailableSlots,
}

// reservationCost — цена комнаты за час, умноженная на длительность слота,
// с округлением до цента. Считается один раз и замораживается.
func reservationCost(pricePerHour, hours float64) float64 {
	return math.Round(pricePerHour*hours*100) / 100
}

// Create создаёт бронь слота для пользователя. Проверки арбитра
// консультативные; окончательно гонку закрывает CreateActive.
func (s *ReservationService) Create(
	ctx context.Context,
	userID, slotID uuid.UUID,
	teamSize int,
	status model.ReservationStatus,
) (*model.Reservation, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, slot.RoomID)
	if err != nil {
		return nil, err
	}

	slotTaken := false
	if _, err := s.reservations.FindActiveBySlot(ctx, slotID); err == nil {
		slotTaken = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userHolds, err := s.reservations.ExistsForUserAndSlot(ctx, userID, slotID)
	if err != nil {
		return nil, err
	}

	if err := booking.AdmitReservation(teamSize, room.Capacity, slotTaken, userHolds); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		ID:        uuid.New(),
		UserID:    userID,
		SlotID:    slotID,
		TeamSize:  teamSize,
		TotalCost: reservationCost(room.PricePerHour, slot.Hours()),
		Status:    status,
	}
	if err := s.reservations.CreateActive(ctx, res); err != nil {
		return nil, err
	}

	// Инвалидация строго до возврата: после подтверждённой записи никто
	// не должен прочитать листинг, посчитанный до неё.
	s.cache.Invalidate(reservationRegions...)
	s.activity.Record(ctx, &userID, model.EventTypeReservationCreated, &res.ID,
		fmt.Sprintf("slot=%s team=%d cost=%.2f", slotID, teamSize, res.TotalCost))
	return res, nil
}

// Update меняет слот и/или состав брони. Из CANCELLED/COMPLETED выхода нет.
// Стоимость пересчитывается по целевому слоту и снова замораживается.
func (s *ReservationService) Update(
	ctx context.Context,
	actorID, id uuid.UUID,
	newSlotID *uuid.UUID,
	newTeamSize *int,
) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status.Closed() {
		return nil, booking.ErrReservationClosed
	}

	targetSlotID := res.SlotID
	if newSlotID != nil {
		targetSlotID = *newSlotID
	}
	teamSize := res.TeamSize
	if newTeamSize != nil {
		teamSize = *newTeamSize
	}

	slot, err := s.slots.GetByID(ctx, targetSlotID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, slot.RoomID)
	if err != nil {
		return nil, err
	}

	// Консультативный прогон арбитра против целевого слота; собственная
	// прежняя строка не считается конфликтом.
	slotTaken := false
	if active, err := s.reservations.FindActiveBySlot(ctx, targetSlotID); err == nil {
		slotTaken = active.ID != res.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := booking.AdmitReservation(teamSize, room.Capacity, slotTaken, false); err != nil {
		return nil, err
	}

	res.SlotID = targetSlotID
	res.TeamSize = teamSize
	res.TotalCost = reservationCost(room.PricePerHour, slot.Hours())

	if err := s.reservations.UpdateChecked(ctx, res); err != nil {
		return nil, err
	}

	s.cache.Invalidate(reservationRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeReservationUpdated, &res.ID,
		fmt.Sprintf("slot=%s team=%d cost=%.2f", res.SlotID, res.TeamSize, res.TotalCost))
	return res, nil
}

// Cancel логически отменяет бронь — единственный механизм, освобождающий
// слот под новую. Строка не удаляется.
func (s *ReservationService) Cancel(ctx context.Context, actorID, id uuid.UUID) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == model.ReservationStatusCancelled {
		return nil
	}

	now := time.Now().UTC()
	if err := s.reservations.SetStatus(ctx, id, model.ReservationStatusCancelled, &now); err != nil {
		return err
	}

	s.cache.Invalidate(reservationRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeReservationCancelled, &id, "")
	return nil
}

// SetStatus — административный перевод статуса (включая COMPLETED).
func (s *ReservationService) SetStatus(
	ctx context.Context,
	actorID, id uuid.UUID,
	status model.ReservationStatus,
) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status.Closed() && status != res.Status {
		return nil, booking.ErrReservationClosed
	}

	var cancelledAt *time.Time
	if status == model.ReservationStatusCancelled {
		now := time.Now().UTC()
		cancelledAt = &now
	}
	if err := s.reservations.SetStatus(ctx, id, status, cancelledAt); err != nil {
		return nil, err
	}
	res.Status = status
	res.CancelledAt = cancelledAt

	s.cache.Invalidate(reservationRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeReservationUpdated, &id, string(status))
	return res, nil
}

func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// FindActiveBySlot отдаёт активную бронь слота — нужен движку платежей для
// идемпотентного ответа при реконсиляции.
func (s *ReservationService) FindActiveBySlot(ctx context.Context, slotID uuid.UUID) (*model.Reservation, error) {
	return s.reservations.FindActiveBySlot(ctx, slotID)
}

func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	return cache.ReadAs(s.cache, cache.RegionReservations, "list", func() ([]model.Reservation, error) {
		return s.reservations.List(ctx)
	})
}

func (s *ReservationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	return cache.ReadAs(s.cache, cache.RegionUserReservations, userID.String(), func() ([]model.Reservation, error) {
		return s.reservations.ListByUser(ctx, userID)
	})
}
