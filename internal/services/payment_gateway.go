package services

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"

	"github.com/google/uuid"
)

const (
	CurrencyINR   = "INR"
	MethodCard    = "card"
	paymentIDTail = 9
)

// ChargeRequest is what the gateway receives for one attempt.
type ChargeRequest struct {
	Amount   float64
	Currency string
	Method   string
	Card     Card
}

// PaymentGateway charges a card. Implementations return either a succeeded
// PaymentResult or a domain.GatewayError.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (models.PaymentResult, error)
}

// SimulatedGateway waits Latency and then succeeds with probability SuccessRate.
type SimulatedGateway struct {
	Latency     time.Duration
	SuccessRate float64
	Rand        func() float64
	Now         func() time.Time
}

func NewSimulatedGateway(latency time.Duration, successRate float64) SimulatedGateway {
	return SimulatedGateway{Latency: latency, SuccessRate: successRate}
}

func (g SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (models.PaymentResult, error) {
	if g.Latency > 0 {
		timer := time.NewTimer(g.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.PaymentResult{}, domain.GatewayError{Code: "aborted", Err: ctx.Err()}
		case <-timer.C:
		}
	}

	roll := rand.Float64
	if g.Rand != nil {
		roll = g.Rand
	}
	if roll() >= g.SuccessRate {
		return models.PaymentResult{}, domain.GatewayError{Code: "card_declined", Msg: "Payment failed. Please try again."}
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return NewPaymentResult(req, now()), nil
}

// NewPaymentResult builds a succeeded result stamped at ts.
// Payment ids look like pi_<unix millis>_<9 lowercase hex chars>.
func NewPaymentResult(req ChargeRequest, ts time.Time) models.PaymentResult {
	millis := strconv.FormatInt(ts.UnixMilli(), 10)
	tail := strings.ReplaceAll(uuid.NewString(), "-", "")[:paymentIDTail]
	currency := req.Currency
	if currency == "" {
		currency = CurrencyINR
	}
	method := req.Method
	if method == "" {
		method = MethodCard
	}
	return models.PaymentResult{
		PaymentID:     "pi_" + millis + "_" + tail,
		Amount:        req.Amount,
		Currency:      currency,
		Status:        models.PaymentSucceeded,
		Method:        method,
		TransactionID: "txn_" + millis,
		Timestamp:     ts,
	}
}
