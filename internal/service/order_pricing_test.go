package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/shop-api/internal/model"
)

func product(regular, sale string, currency string) *model.Product {
	return &model.Product{
		RegularPrice: model.NewMoney(decimal.RequireFromString(regular)),
		SalePrice:    model.NewMoney(decimal.RequireFromString(sale)),
		Currency:     currency,
	}
}

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name      string
		regular   string
		sale      string
		qty       int
		wantQty   int
		effective string
		discount  string
	}{
		{"sale price applies", "299000", "249000", 2, 2, "249000", "50000"},
		{"zero sale uses regular", "100000", "0", 1, 1, "100000", "0"},
		{"sale above regular never negative", "100", "150", 1, 1, "150", "0"},
		{"non-positive quantity defaults to one", "10.5", "0", 0, 1, "10.5", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := priceLine(product(tt.regular, tt.sale, "VND"), tt.qty)
			assert.Equal(t, tt.wantQty, l.quantity)
			assert.True(t, l.effective.Equal(decimal.RequireFromString(tt.effective)), l.effective.String())
			assert.True(t, l.unitDiscount.Equal(decimal.RequireFromString(tt.discount)), l.unitDiscount.String())
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []orderLine{
		priceLine(product("299000", "249000", "VND"), 2),
		priceLine(product("10000", "0", "VND"), 3),
	}
	got := sumLines(lines)
	assert.Equal(t, 5, got.totalItems)
	assert.Equal(t, "628000.00", got.subtotal.StringFixed(2))
	assert.Equal(t, "100000.00", got.discount.StringFixed(2))
	assert.Equal(t, "528000.00", got.total.StringFixed(2))
	assert.True(t, got.total.Equal(got.subtotal.Sub(got.discount)))
}

func TestDistinctCurrencies(t *testing.T) {
	lines := []orderLine{
		priceLine(product("1", "0", "VND"), 1),
		priceLine(product("1", "0", "USD"), 1),
		priceLine(product("1", "0", "VND"), 1),
	}
	assert.Equal(t, []string{"USD", "VND"}, distinctCurrencies(lines))
}

func TestNewOrderCode(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		code := NewOrderCode()
		assert.Regexp(t, `^OD[0-9A-F]{28}$`, code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
