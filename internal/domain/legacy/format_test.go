package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{400, "400,00"},
		{0, "0"},
		{12.5, "12,50"},
		{12.3456, "12,35"},
		{0.5, "0,50"},
		{19.99, "19,99"},
		{1.0049, "1,00"},
		{1234.1, "1234,10"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 10.0, DiscountPercent(90, 100))
	assert.Equal(t, 33.33, DiscountPercent(20, 30))
	assert.Equal(t, 0.0, DiscountPercent(90, 0))
	assert.Equal(t, -50.0, DiscountPercent(150, 100))
}

func TestPseudoPricePercent(t *testing.T) {
	percent := pseudoPricePercent(20, 30)

	assert.Equal(t, 33, percent["int"])
	assert.Equal(t, 33.33, percent["float"])
}
