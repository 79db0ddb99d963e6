package booking

import "math"

// Settle splits a booking's total charge into the platform fee and the
// provider payout. The fee is rounded half-up to the currency minor unit; the
// payout is the remainder and is never independently rounded, so
// fee + payout == total holds exactly.
func Settle(totalAmount, commissionRate float64) (platformFee, providerPayout float64, err error) {
	if totalAmount < 0 {
		return 0, 0, NewError(CodeInvalidInput, "total amount must not be negative, got %.2f", totalAmount)
	}
	if commissionRate < 0 || commissionRate > 1 {
		return 0, 0, NewError(CodeInvalidInput, "commission rate must be within [0,1], got %.4f", commissionRate)
	}

	// Work in minor units to keep the split exact.
	totalCents := int64(math.Round(totalAmount * 100))
	feeCents := int64(math.Floor(float64(totalCents)*commissionRate + 0.5))

	return float64(feeCents) / 100, float64(totalCents-feeCents) / 100, nil
}
