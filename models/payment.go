package models

// ChargeStatus is the payment gateway's view of a charge.
type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeFailed    ChargeStatus = "failed"
)

// PaymentEvent is an asynchronous notification from the payment gateway,
// delivered via webhook. Deliveries may be duplicated; consumers dedupe by
// PaymentRef.
type PaymentEvent struct {
	PaymentRef string       `json:"paymentRef"`
	Status     ChargeStatus `json:"status"`
}
