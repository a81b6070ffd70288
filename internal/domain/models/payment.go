package models

import "time"

type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// CardDetails is the raw card form as typed by the customer.
type CardDetails struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// PaymentResult is the immutable outcome of a charge attempt.
type PaymentResult struct {
	PaymentID     string        `json:"paymentId"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"paymentMethod"`
	TransactionID string        `json:"transactionId"`
	Timestamp     time.Time     `json:"timestamp"`
}
