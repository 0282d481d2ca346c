package payment

import (
	"context"
	"errors"
)

// Статус платёжного интента у провайдера.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
)

// Intent — транзиентное представление платёжного интента. Ядро его не
// персистит: читает статус у провайдера только в момент реконсиляции.
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Amount       int64 // минорные единицы валюты
	Currency     string
	Metadata     map[string]any
}

// Provider — граница внешнего платёжного провайдера.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]any) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}

var (
	// ErrServiceBusy — ретраи по транзиентным ошибкам исчерпаны.
	ErrServiceBusy = errors.New("payment provider is busy")
	// ErrPaymentNotConfirmed — провайдер отвечает, но платёж не в succeeded.
	ErrPaymentNotConfirmed = errors.New("payment is not confirmed")
)
