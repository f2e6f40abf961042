// Package payments wraps the payment processor. Charge capture and card
// handling stay processor-side; the backend only creates and looks up
// payment intents for booking amounts.
package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Intent is the processor-side object awaiting confirmation.
type Intent struct {
	ID           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// Client issues payment-intent calls against the processor API. Calls are
// synchronous with no retry; failures surface to the caller.
type Client struct {
	api      *client.API
	currency string
}

func NewClient(secretKey, currency string) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("payments secret key is empty")
	}
	if currency == "" {
		currency = "usd"
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Client{api: api, currency: currency}, nil
}

// ToCents converts a decimal amount to the processor's integer minor units.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (c *Client) CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(ToCents(amount)),
		Currency: stripe.String(c.currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (c *Client) GetIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := c.api.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("get payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}
