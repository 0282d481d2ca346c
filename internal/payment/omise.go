package payment

import (
	"context"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// OmiseProvider — адаптер Provider поверх Omise: charge играет роль интента,
// authorize_uri отдаём клиенту как client secret для завершения оплаты.
type OmiseProvider struct {
	client *omise.Client
}

func NewOmiseProvider(publicKey, secretKey string) (*OmiseProvider, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	return &OmiseProvider{client: c}, nil
}

func (p *OmiseProvider) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]any) (*Intent, error) {
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:      amount,
		Currency:    currency,
		DontCapture: false,
		Metadata:    metadata,
	}
	if err := p.client.Do(ch, req); err != nil {
		return nil, err
	}
	return intentFromCharge(ch), nil
}

func (p *OmiseProvider) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	ch := &omise.Charge{}
	if err := p.client.Do(ch, &operations.RetrieveCharge{ChargeID: id}); err != nil {
		return nil, err
	}
	return intentFromCharge(ch), nil
}

func intentFromCharge(ch *omise.Charge) *Intent {
	return &Intent{
		ID:           ch.ID,
		ClientSecret: ch.AuthorizeURI,
		Status:       statusFromCharge(ch),
		Amount:       ch.Amount,
		Currency:     ch.Currency,
		Metadata:     ch.Metadata,
	}
}

// Статусы Omise: pending / successful / failed / expired / reversed.
func statusFromCharge(ch *omise.Charge) IntentStatus {
	switch string(ch.Status) {
	case "successful":
		return IntentStatusSucceeded
	case "failed", "expired", "reversed":
		return IntentStatusFailed
	default:
		return IntentStatusPending
	}
}
