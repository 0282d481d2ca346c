package service

import "errors"

// Ошибки валидации административных операций (4xx, без ретраев).
var (
	ErrInvalidRoomInput = errors.New("invalid room input")
	ErrRoomNameTaken    = errors.New("room name is already taken")
)
