package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		rate       float64
		wantFee    float64
		wantPayout float64
	}{
		{name: "twenty percent of 100", total: 100.00, rate: 0.20, wantFee: 20.00, wantPayout: 80.00},
		{name: "zero commission", total: 55.50, rate: 0, wantFee: 0, wantPayout: 55.50},
		{name: "full commission", total: 42.00, rate: 1, wantFee: 42.00, wantPayout: 0},
		{name: "zero amount", total: 0, rate: 0.15, wantFee: 0, wantPayout: 0},
		{name: "rounds fee half-up", total: 33.33, rate: 0.10, wantFee: 3.33, wantPayout: 30.00},
		{name: "sub-cent fee rounds up", total: 0.99, rate: 0.15, wantFee: 0.15, wantPayout: 0.84},
		{name: "exact split", total: 12.50, rate: 0.10, wantFee: 1.25, wantPayout: 11.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fee, payout, err := Settle(tc.total, tc.rate)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantFee, fee, 1e-9)
			assert.InDelta(t, tc.wantPayout, payout, 1e-9)
		})
	}
}

func TestSettleSumsToTotal(t *testing.T) {
	totals := []float64{0.01, 0.99, 9.99, 19.95, 33.33, 100.00, 149.99, 1234.56}
	rates := []float64{0, 0.01, 0.10, 0.125, 0.15, 0.20, 0.333, 0.50, 1}

	for _, total := range totals {
		for _, rate := range rates {
			fee, payout, err := Settle(total, rate)
			require.NoError(t, err)
			assert.InDelta(t, total, fee+payout, 1e-9,
				"total %.2f at rate %.3f must split exactly", total, rate)
			assert.GreaterOrEqual(t, fee, 0.0)
			assert.GreaterOrEqual(t, payout, 0.0)
		}
	}
}

func TestSettleRejectsInvalidInputs(t *testing.T) {
	_, _, err := Settle(-1, 0.20)
	assert.True(t, IsCode(err, CodeInvalidInput))

	_, _, err = Settle(100, -0.1)
	assert.True(t, IsCode(err, CodeInvalidInput))

	_, _, err = Settle(100, 1.01)
	assert.True(t, IsCode(err, CodeInvalidInput))
}
