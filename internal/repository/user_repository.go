package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/roomly/booking-core/internal/model"
)

type UserRepository interface {
	// Найти пользователя по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Найти пользователя по email (без учёта регистра).
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Создать пользователя, если его ещё нет.
	Upsert(ctx context.Context, email, displayName string) (*model.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", strings.TrimSpace(email)).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Upsert(ctx context.Context, email, displayName string) (*model.User, error) {
	email = strings.TrimSpace(email)
	u, err := r.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}
