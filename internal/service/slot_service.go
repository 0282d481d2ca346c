package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/cache"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/repository"
)

type SlotInput struct {
	RoomID    uuid.UUID
	Date      datatypes.Date
	StartTime datatypes.Time
	EndTime   datatypes.Time
}

type SlotService struct {
	slots    repository.SlotRepository
	rooms    repository.RoomRepository
	cache    *cache.Service
	activity *ActivityLog
}

func NewSlotService(
	slots repository.SlotRepository,
	rooms repository.RoomRepository,
	c *cache.Service,
	activity *ActivityLog,
) *SlotService {
	return &SlotService{slots: slots, rooms: rooms, cache: c, activity: activity}
}

// slotRegions — регионы, производные от слотов; сбрасываются при любой
// мутации слота.
var slotRegions = []cache.Region{
	cache.RegionSlots,
	cache.RegionSlotsByRoom,
	cache.RegionSlotsByDateRange,
	cache.RegionAvailableSlots,
}

func (s *SlotService) Create(ctx context.Context, actorID uuid.UUID, in SlotInput) (*model.TimeSlot, error) {
	// Комната должна существовать; решение принимаем по хранилищу, не по кэшу.
	if _, err := s.rooms.GetByID(ctx, in.RoomID); err != nil {
		return nil, err
	}

	candidate := &model.TimeSlot{
		ID:        uuid.New(),
		RoomID:    in.RoomID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}

	existing, err := s.slots.ListByRoomAndDate(ctx, in.RoomID, in.Date)
	if err != nil {
		return nil, err
	}
	if err := booking.AdmitSlot(candidate, existing); err != nil {
		return nil, err
	}

	if err := s.slots.Create(ctx, candidate); err != nil {
		// Точный дубликат (room, date, start, end) словил уникальный индекс.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, booking.ErrSlotOverlap
		}
		return nil, err
	}

	s.cache.Invalidate(slotRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeSlotCreated, &candidate.ID, slotDetails(candidate))
	return candidate, nil
}

func (s *SlotService) Update(ctx context.Context, actorID, id uuid.UUID, in SlotInput) (*model.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByID(ctx, in.RoomID); err != nil {
		return nil, err
	}

	slot.RoomID = in.RoomID
	slot.Date = in.Date
	slot.StartTime = in.StartTime
	slot.EndTime = in.EndTime

	// Собственная строка исключается из проверки по ID внутри AdmitSlot.
	existing, err := s.slots.ListByRoomAndDate(ctx, in.RoomID, in.Date)
	if err != nil {
		return nil, err
	}
	if err := booking.AdmitSlot(slot, existing); err != nil {
		return nil, err
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, booking.ErrSlotOverlap
		}
		return nil, err
	}

	s.cache.Invalidate(slotRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeSlotUpdated, &slot.ID, slotDetails(slot))
	return slot, nil
}

func (s *SlotService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.slots.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(slotRegions...)
	s.activity.Record(ctx, &actorID, model.EventTypeSlotDeleted, &id, "")
	return nil
}

func (s *SlotService) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	return cache.ReadAs(s.cache, cache.RegionSlots, "slot:"+id.String(), func() (*model.TimeSlot, error) {
		return s.slots.GetByID(ctx, id)
	})
}

func (s *SlotService) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]model.TimeSlot, error) {
	return cache.ReadAs(s.cache, cache.RegionSlotsByRoom, roomID.String(), func() ([]model.TimeSlot, error) {
		return s.slots.ListByRoom(ctx, roomID)
	})
}

func (s *SlotService) ListByDateRange(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error) {
	key := dateKey(from) + "|" + dateKey(to)
	return cache.ReadAs(s.cache, cache.RegionSlotsByDateRange, key, func() ([]model.TimeSlot, error) {
		return s.slots.ListByDateRange(ctx, from, to)
	})
}

func (s *SlotService) ListAvailable(ctx context.Context, from, to datatypes.Date) ([]model.TimeSlot, error) {
	key := dateKey(from) + "|" + dateKey(to)
	return cache.ReadAs(s.cache, cache.RegionAvailableSlots, key, func() ([]model.TimeSlot, error) {
		return s.slots.ListAvailable(ctx, from, to)
	})
}

func dateKey(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func slotDetails(s *model.TimeSlot) string {
	return dateKey(s.Date) + " " + s.StartTime.String() + "-" + s.EndTime.String()
}
