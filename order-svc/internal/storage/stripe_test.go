package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{amount: "63.55", want: 6355},
		{amount: "9", want: 900},
		{amount: "0.005", want: 1},
		{amount: "0", want: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.amount, func(t *testing.T) {
			assert.Equal(t, testCase.want, minorUnits(decimal.RequireFromString(testCase.amount)))
		})
	}
}

func TestNewStripeGateway(t *testing.T) {
	g := NewStripeGateway("sk_test_123")

	assert.Equal(t, "sk_test_123", g.client.Key)
	assert.NotNil(t, g.client.B)
}
