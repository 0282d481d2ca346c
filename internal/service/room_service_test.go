package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/roomly/booking-core/internal/model"
)

func TestRoomCreate_NameTakenCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustRoom(t, "Boardroom", 10, 20.0)

	_, err := env.rooms.Create(ctx, uuid.New(), RoomInput{
		Name:         "boardroom",
		Capacity:     8,
		PricePerHour: 15.0,
		Type:         model.RoomTypeMeeting,
	})
	if !errors.Is(err, ErrRoomNameTaken) {
		t.Fatalf("expected ErrRoomNameTaken, got %v", err)
	}
}

func TestRoomCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RoomInput
	}{
		{"empty name", RoomInput{Name: "  ", Capacity: 5, PricePerHour: 10, Type: model.RoomTypeMeeting}},
		{"zero capacity", RoomInput{Name: "A", Capacity: 0, PricePerHour: 10, Type: model.RoomTypeMeeting}},
		{"zero price", RoomInput{Name: "A", Capacity: 5, PricePerHour: 0, Type: model.RoomTypeMeeting}},
		{"unknown type", RoomInput{Name: "A", Capacity: 5, PricePerHour: 10, Type: model.RoomType("garage")}},
	}
	for _, tc := range cases {
		if _, err := env.rooms.Create(ctx, uuid.New(), tc.in); !errors.Is(err, ErrInvalidRoomInput) {
			t.Fatalf("%s: expected ErrInvalidRoomInput, got %v", tc.name, err)
		}
	}
}

func TestRoomUpdate_KeepOwnName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Library", 10, 20.0)

	// Обновление без смены имени не должно спотыкаться о собственную строку.
	updated, err := env.rooms.Update(ctx, uuid.New(), room.ID, RoomInput{
		Name:         "Library",
		Capacity:     12,
		PricePerHour: 25.0,
		Type:         model.RoomTypeConference,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Capacity != 12 || updated.PricePerHour != 25.0 {
		t.Fatalf("unexpected room after update: %+v", updated)
	}
}

func TestRoomList_CacheReflectsWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.rooms.List(ctx)
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected empty list, got %d", len(before))
	}

	room := env.mustRoom(t, "Attic", 10, 20.0)

	after, err := env.rooms.List(ctx)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].ID != room.ID {
		t.Fatalf("expected fresh listing with the new room, got %v", after)
	}
}
