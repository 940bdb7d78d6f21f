package format_test

import (
	"testing"

	"hostly/shared/format"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "USD 12.50", format.Currency("USD", 12.5))
	assert.Equal(t, "EUR 0.00", format.Currency("EUR", 0))
	assert.Equal(t, "USD 3.10", format.Currency("not-a-code", 3.1))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "0%", format.Percentage(0))
	assert.Equal(t, "100%", format.Percentage(100))
}
