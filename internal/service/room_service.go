package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/cache"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/repository"
)

type RoomInput struct {
	Name         string
	Capacity     int
	PricePerHour float64
	Type         model.RoomType
}

type RoomService struct {
	rooms    repository.RoomRepository
	cache    *cache.Service
	activity *ActivityLog
}

func NewRoomService(rooms repository.RoomRepository, c *cache.Service, activity *ActivityLog) *RoomService {
	return &RoomService{rooms: rooms, cache: c, activity: activity}
}

func validateRoomInput(in RoomInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRoomInput)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidRoomInput)
	}
	if in.PricePerHour <= 0 {
		return fmt.Errorf("%w: price per hour must be positive", ErrInvalidRoomInput)
	}
	switch in.Type {
	case model.RoomTypeMeeting, model.RoomTypeConference, model.RoomTypeTraining, model.RoomTypeEvent:
	default:
		return fmt.Errorf("%w: unknown room type %q", ErrInvalidRoomInput, in.Type)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, actorID uuid.UUID, in RoomInput) (*model.Room, error) {
	if err := validateRoomInput(in); err != nil {
		return nil, err
	}

	if _, err := s.rooms.FindByNameFold(ctx, in.Name); err == nil {
		return nil, ErrRoomNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &model.Room{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Capacity:     in.Capacity,
		PricePerHour: in.PricePerHour,
		Type:         in.Type,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoomNameTaken
		}
		return nil, err
	}

	// Инвалидация до возврата: следующий же запрос списка видит новую комнату.
	s.cache.Invalidate(cache.RegionRooms)
	s.activity.Record(ctx, &actorID, model.EventTypeRoomCreated, &room.ID, room.Name)
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, actorID, id uuid.UUID, in RoomInput) (*model.Room, error) {
	if err := validateRoomInput(in); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if other, err := s.rooms.FindByNameFold(ctx, in.Name); err == nil && other.ID != id {
		return nil, ErrRoomNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room.Name = strings.TrimSpace(in.Name)
	room.Capacity = in.Capacity
	room.PricePerHour = in.PricePerHour
	room.Type = in.Type

	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoomNameTaken
		}
		return nil, err
	}

	s.cache.Invalidate(cache.RegionRooms)
	s.activity.Record(ctx, &actorID, model.EventTypeRoomUpdated, &room.ID, room.Name)
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(cache.RegionRooms)
	s.activity.Record(ctx, &actorID, model.EventTypeRoomDeleted, &id, room.Name)
	return nil
}

func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	return cache.ReadAs(s.cache, cache.RegionRooms, "room:"+id.String(), func() (*model.Room, error) {
		return s.rooms.GetByID(ctx, id)
	})
}

func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return cache.ReadAs(s.cache, cache.RegionRooms, "list", func() ([]model.Room, error) {
		return s.rooms.List(ctx)
	})
}
