package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/repository"
)

// IdentityService — граница идентичности: резолв id/email в пользователя.
// Администрирование пользователей живёт вне ядра.
type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve принимает либо UUID, либо email.
func (s *IdentityService) Resolve(ctx context.Context, idOrEmail string) (*model.User, error) {
	if id, err := uuid.Parse(idOrEmail); err == nil {
		return s.users.GetByID(ctx, id)
	}
	return s.users.FindByEmail(ctx, idOrEmail)
}
