package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{150.00, 15000},
		{0.01, 1},
		{99.99, 9999},
		{10.005, 1001}, // rounds half up
		{0, 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ToCents(tc.amount), "amount %v", tc.amount)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("requires_secret", func(t *testing.T) {
		_, err := NewClient("", "usd")
		assert.Error(t, err)
	})

	t.Run("defaults_currency", func(t *testing.T) {
		c, err := NewClient("sk_test_123", "")
		assert.NoError(t, err)
		assert.Equal(t, "usd", c.currency)
	})
}
