// Package payments defines the boundary to the external payment
// provider. The service only ever talks to the Gateway interface, so
// the simulated Square implementation can later be swapped for a real
// SDK-backed one without touching handlers or the store.
package payments

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// Result is what a gateway charge returns: the provider's payment
// reference and its terminal status.
type Result struct {
	PaymentID string
	Status    string
}

// Gateway charges a tokenized payment source. Amounts are integer minor
// currency units.
type Gateway interface {
	Charge(ctx context.Context, sourceID string, amountCents int64, currency string) (Result, error)
}

// ErrMissingSource is returned when the charge request carries no
// payment source token.
var ErrMissingSource = errors.New("payment source is required")

// SquareSimulator stands in for the Square payments API. Every charge
// with a non-empty source token is approved and assigned a generated
// reference in Square's "sq_"-prefixed style. No network calls happen.
type SquareSimulator struct{}

// NewSquareSimulator returns the simulated gateway.
func NewSquareSimulator() *SquareSimulator {
	log.Printf("payments: square gateway running in simulation mode")
	return &SquareSimulator{}
}

// Charge approves the payment and fabricates a provider reference.
func (g *SquareSimulator) Charge(_ context.Context, sourceID string, amountCents int64, currency string) (Result, error) {
	if sourceID == "" {
		return Result{}, ErrMissingSource
	}
	ref := "sq_" + uuid.NewString()
	log.Printf("payments: simulated charge source=%s amount=%d %s ref=%s", sourceID, amountCents, currency, ref)
	return Result{PaymentID: ref, Status: "COMPLETED"}, nil
}
