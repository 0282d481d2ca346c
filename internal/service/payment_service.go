package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/payment"
	"github.com/roomly/booking-core/internal/repository"
)

// IntentInfo — ответ на создание платёжного интента.
type IntentInfo struct {
	ClientSecret string
	IntentID     string
	Amount       int64
}

// PaymentService — движок реконсиляции платежей. Единственное место, которому
// разрешено переинтерпретировать конфликт реестра как успех: дубль
// подтверждения оплаченного слота должен получить ту же бронь, что и первый.
type PaymentService struct {
	provider     payment.Provider
	retry        payment.RetryPolicy
	currency     string
	reservations *ReservationService
	slots        repository.SlotRepository
	rooms        repository.RoomRepository
	activity     *ActivityLog
	log          *logrus.Logger
}

func NewPaymentService(
	provider payment.Provider,
	retry payment.RetryPolicy,
	currency string,
	reservations *ReservationService,
	slots repository.SlotRepository,
	rooms repository.RoomRepository,
	activity *ActivityLog,
	log *logrus.Logger,
) *PaymentService {
	if log == nil {
		log = logrus.New()
	}
	return &PaymentService{
		provider:     provider,
		retry:        retry,
		currency:     currency,
		reservations: reservations,
		slots:        slots,
		rooms:        rooms,
		activity:     activity,
		log:          log,
	}
}

// CreateIntent создаёт у провайдера интент на стоимость слота.
// Сумма — в минорных единицах валюты.
func (s *PaymentService) CreateIntent(
	ctx context.Context,
	userID, slotID uuid.UUID,
	teamSize int,
) (*IntentInfo, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, slot.RoomID)
	if err != nil {
		return nil, err
	}
	if teamSize <= 0 {
		return nil, booking.ErrInvalidTeamSize
	}
	if teamSize > room.Capacity {
		return nil, booking.ErrCapacityExceeded
	}

	cost := reservationCost(room.PricePerHour, slot.Hours())
	amount := int64(math.Round(cost * 100))

	var intent *payment.Intent
	err = s.retry.Do(ctx, func() error {
		i, e := s.provider.CreateIntent(ctx, amount, s.currency, map[string]any{
			"slot_id":   slotID.String(),
			"user_id":   userID.String(),
			"team_size": teamSize,
		})
		if e != nil {
			return e
		}
		intent = i
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &IntentInfo{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       intent.Amount,
	}, nil
}

// Confirm — машина состояний подтверждения оплаты:
//  1. пробуем создать бронь; успех — готово;
//  2. конфликт — бронь уже есть; сверяем статус платежа у провайдера
//     и идемпотентно отдаём существующую бронь, если платёж прошёл;
//  3. прочие отказы реестра уходят наверх как есть.
func (s *PaymentService) Confirm(
	ctx context.Context,
	userID uuid.UUID,
	intentID string,
	slotID uuid.UUID,
	teamSize int,
) (*model.Reservation, error) {
	res, createErr := s.reservations.Create(ctx, userID, slotID, teamSize, model.ReservationStatusConfirmed)
	if createErr == nil {
		s.activity.Record(ctx, &userID, model.EventTypePaymentConfirmed, &res.ID, intentID)
		return res, nil
	}
	if !booking.IsConflict(createErr) {
		return nil, createErr
	}

	// Реконсиляция: конфликт означает, что бронь на слот уже существует —
	// скорее всего её создало параллельное подтверждение того же платежа.
	var intent *payment.Intent
	retrieveErr := s.retry.Do(ctx, func() error {
		i, e := s.provider.RetrieveIntent(ctx, intentID)
		if e != nil {
			return e
		}
		intent = i
		return nil
	})

	if retrieveErr != nil {
		if errors.Is(retrieveErr, payment.ErrServiceBusy) || errors.Is(retrieveErr, context.DeadlineExceeded) {
			// Провайдер недоступен после всех ретраев. Считаем существующую
			// бронь оплаченной: блокировать заплатившего клиента хуже, чем
			// редкий ложный успех. Осознанный выбор доступности.
			s.log.WithError(retrieveErr).WithField("intent_id", intentID).
				Warn("payment: provider unreachable during reconciliation, assuming success")
			return s.existingForSlot(ctx, slotID, createErr)
		}
		return nil, retrieveErr
	}

	if intent.Status == payment.IntentStatusSucceeded {
		return s.existingForSlot(ctx, slotID, createErr)
	}
	return nil, payment.ErrPaymentNotConfirmed
}

// existingForSlot возвращает активную бронь слота; если её внезапно нет
// (например, успели отменить) — отдаёт исходный конфликт.
func (s *PaymentService) existingForSlot(
	ctx context.Context,
	slotID uuid.UUID,
	conflictErr error,
) (*model.Reservation, error) {
	res, err := s.reservations.FindActiveBySlot(ctx, slotID)
	if err != nil {
		return nil, conflictErr
	}
	return res, nil
}
