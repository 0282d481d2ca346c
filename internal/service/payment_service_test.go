package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/roomly/booking-core/internal/booking"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/payment"
	"github.com/roomly/booking-core/internal/repository"
)

// fakeProvider — сценарный провайдер: ошибки снимаются с очередей по одной,
// после исчерпания очереди вызов удаётся со статусом status.
type fakeProvider struct {
	mu            sync.Mutex
	status        payment.IntentStatus
	createErrs    []error
	retrieveErrs  []error
	createCalls   int
	retrieveCalls int
}

func (f *fakeProvider) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]any) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return nil, err
	}
	return &payment.Intent{
		ID:           "pi_test",
		ClientSecret: "secret_test",
		Status:       payment.IntentStatusPending,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (f *fakeProvider) RetrieveIntent(_ context.Context, id string) (*payment.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieveCalls++
	if len(f.retrieveErrs) > 0 {
		err := f.retrieveErrs[0]
		f.retrieveErrs = f.retrieveErrs[1:]
		return nil, err
	}
	return &payment.Intent{ID: id, Status: f.status}, nil
}

func newPaymentService(t *testing.T, env *testEnv, provider payment.Provider) *PaymentService {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	retry := payment.RetryPolicy{Base: time.Millisecond, Cap: 5 * time.Millisecond, MaxAttempts: 3}
	return NewPaymentService(
		provider,
		retry,
		"usd",
		env.reservations,
		repository.NewGormSlotRepository(env.db),
		repository.NewGormRoomRepository(env.db),
		NewActivityLog(env.db, nil, logger),
		logger,
	)
}

func TestCreateIntent_AmountInMinorUnits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Aquila", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	provider := &fakeProvider{status: payment.IntentStatusPending}
	payments := newPaymentService(t, env, provider)

	info, err := payments.CreateIntent(ctx, uuid.New(), slot.ID, 4)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	// $40.00 => 4000 центов.
	if info.Amount != 4000 {
		t.Fatalf("expected amount 4000, got %d", info.Amount)
	}
	if info.IntentID == "" || info.ClientSecret == "" {
		t.Fatalf("expected intent id and client secret, got %+v", info)
	}
}

func TestCreateIntent_RetriesTransientErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Caelum", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	provider := &fakeProvider{
		status: payment.IntentStatusPending,
		createErrs: []error{
			errors.New("rate limit exceeded"),
			errors.New("service unavailable"),
		},
	}
	payments := newPaymentService(t, env, provider)

	info, err := payments.CreateIntent(ctx, uuid.New(), slot.ID, 4)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if info.Amount != 4000 {
		t.Fatalf("expected amount 4000, got %d", info.Amount)
	}
	if provider.createCalls != 3 {
		t.Fatalf("expected 3 provider calls, got %d", provider.createCalls)
	}
}

func TestCreateIntent_CapacityChecked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Cetus", 4, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	provider := &fakeProvider{status: payment.IntentStatusPending}
	payments := newPaymentService(t, env, provider)

	if _, err := payments.CreateIntent(ctx, uuid.New(), slot.ID, 5); !errors.Is(err, booking.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if provider.createCalls != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.createCalls)
	}
}

func TestConfirm_CreatesConfirmedReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Dorado", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	provider := &fakeProvider{status: payment.IntentStatusSucceeded}
	payments := newPaymentService(t, env, provider)

	res, err := payments.Confirm(ctx, uuid.New(), "pi_1", slot.ID, 4)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.Status != model.ReservationStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", res.Status)
	}
	if res.TotalCost != 40.0 {
		t.Fatalf("expected cost 40.00, got %.2f", res.TotalCost)
	}
	// Успешная вставка — сверка с провайдером не нужна.
	if provider.retrieveCalls != 0 {
		t.Fatalf("expected no retrieve calls, got %d", provider.retrieveCalls)
	}
}

func TestConfirm_DuplicateReturnsSameReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Grus", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)
	user := uuid.New()

	provider := &fakeProvider{status: payment.IntentStatusSucceeded}
	payments := newPaymentService(t, env, provider)

	first, err := payments.Confirm(ctx, user, "pi_1", slot.ID, 4)
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	// Повторное подтверждение того же платежа: конфликт реестра, платёж
	// прошёл — идемпотентно отдаём ту же бронь.
	second, err := payments.Confirm(ctx, user, "pi_1", slot.ID, 4)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same reservation, got %s vs %s", second.ID, first.ID)
	}
	if provider.retrieveCalls != 1 {
		t.Fatalf("expected exactly one retrieve call, got %d", provider.retrieveCalls)
	}
}

func TestConfirm_ConcurrentDoubleConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Hercules", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)
	user := uuid.New()

	provider := &fakeProvider{status: payment.IntentStatusSucceeded}
	payments := newPaymentService(t, env, provider)

	var wg sync.WaitGroup
	results := make([]*model.Reservation, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = payments.Confirm(ctx, user, "pi_1", slot.ID, 4)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("confirm %d: %v", i, errs[i])
		}
	}
	if results[0].ID != results[1].ID {
		t.Fatalf("expected both confirms to resolve to one reservation, got %s vs %s",
			results[0].ID, results[1].ID)
	}
}

func TestConfirm_PaymentNotConfirmed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Lacerta", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	// Слот занят другим пользователем, платёж подтверждающего не прошёл.
	if _, err := env.reservations.Create(ctx, uuid.New(), slot.ID, 2, model.ReservationStatusConfirmed); err != nil {
		t.Fatalf("occupy slot: %v", err)
	}

	provider := &fakeProvider{status: payment.IntentStatusPending}
	payments := newPaymentService(t, env, provider)

	if _, err := payments.Confirm(ctx, uuid.New(), "pi_1", slot.ID, 2); !errors.Is(err, payment.ErrPaymentNotConfirmed) {
		t.Fatalf("expected ErrPaymentNotConfirmed, got %v", err)
	}
}

func TestConfirm_ProviderUnreachableAssumesSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Monoceros", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	existing, err := env.reservations.Create(ctx, uuid.New(), slot.ID, 2, model.ReservationStatusConfirmed)
	if err != nil {
		t.Fatalf("occupy slot: %v", err)
	}

	// Провайдер недоступен на всех попытках сверки: считаем платёж прошедшим
	// и отдаём существующую бронь.
	provider := &fakeProvider{
		status: payment.IntentStatusSucceeded,
		retrieveErrs: []error{
			errors.New("service unavailable"),
			errors.New("service unavailable"),
			errors.New("service unavailable"),
		},
	}
	payments := newPaymentService(t, env, provider)

	res, err := payments.Confirm(ctx, uuid.New(), "pi_1", slot.ID, 2)
	if err != nil {
		t.Fatalf("expected assumed success, got %v", err)
	}
	if res.ID != existing.ID {
		t.Fatalf("expected the existing reservation, got %s vs %s", res.ID, existing.ID)
	}
	if provider.retrieveCalls != 3 {
		t.Fatalf("expected 3 retrieve attempts, got %d", provider.retrieveCalls)
	}
}

func TestConfirm_PermanentRetrieveErrorPropagates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Octans", 10, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	if _, err := env.reservations.Create(ctx, uuid.New(), slot.ID, 2, model.ReservationStatusConfirmed); err != nil {
		t.Fatalf("occupy slot: %v", err)
	}

	boom := fmt.Errorf("no such payment intent")
	provider := &fakeProvider{
		status:       payment.IntentStatusSucceeded,
		retrieveErrs: []error{boom},
	}
	payments := newPaymentService(t, env, provider)

	if _, err := payments.Confirm(ctx, uuid.New(), "pi_missing", slot.ID, 2); !errors.Is(err, boom) {
		t.Fatalf("expected permanent retrieve error to propagate, got %v", err)
	}
	if provider.retrieveCalls != 1 {
		t.Fatalf("expected 1 retrieve call, got %d", provider.retrieveCalls)
	}
}

func TestConfirm_CapacityErrorNotReinterpreted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	room := env.mustRoom(t, "Pyxis", 4, 20.0)
	slot := env.mustSlot(t, room.ID, 9, 11)

	provider := &fakeProvider{status: payment.IntentStatusSucceeded}
	payments := newPaymentService(t, env, provider)

	if _, err := payments.Confirm(ctx, uuid.New(), "pi_1", slot.ID, 5); !errors.Is(err, booking.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	// Отказ по вместимости — не конфликт, сверка не запускается.
	if provider.retrieveCalls != 0 {
		t.Fatalf("expected no retrieve calls, got %d", provider.retrieveCalls)
	}
}
