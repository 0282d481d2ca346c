package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// RetryPolicy — ограниченный экспоненциальный backoff для всех вызовов
// провайдера: delay = min(base*2^(attempt-1) + jitter, cap),
// jitter равномерный в [0, 0.1*base*2^(attempt-1)).
type RetryPolicy struct {
	Base        time.Duration
	Cap         time.Duration
	MaxAttempts int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Base: time.Second, Cap: 30 * time.Second, MaxAttempts: 5}
}

// Delay возвращает задержку перед повтором после попытки attempt (с единицы).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	exp := p.Base << uint(attempt-1)
	if exp > p.Cap || exp <= 0 { // <=0 — переполнение сдвига
		return p.Cap
	}
	d := exp
	if j := int64(exp / 10); j > 0 {
		d += time.Duration(rand.Int63n(j))
	}
	if d > p.Cap {
		return p.Cap
	}
	return d
}

// Do выполняет op, повторяя только транзиентные ошибки провайдера.
// Любая другая ошибка возвращается сразу. Исчерпание попыток — всегда
// различимый ErrServiceBusy, никогда не тихий успех.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay(attempt)):
		}
	}
	return fmt.Errorf("%w: %d attempts exhausted: %v", ErrServiceBusy, p.MaxAttempts, err)
}

// IsTransient — ошибка провайдера, которую имеет смысл повторить:
// rate limit либо явно помеченная временная недоступность.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"rate-limit",
		"too many requests",
		"lock timeout",
		"lock-timeout",
		"temporarily unavailable",
		"temporarily-unavailable",
		"service unavailable",
		"service-unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
