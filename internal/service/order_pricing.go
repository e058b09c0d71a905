package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/d60-Lab/shop-api/internal/model"
)

// orderLine 单条明细的计价结果
type orderLine struct {
	product       *model.Product
	quantity      int
	unitPrice     decimal.Decimal // 原价
	effective     decimal.Decimal // 成交单价
	unitDiscount  decimal.Decimal
	selectedSize  *string
	selectedColor *string
}

// priceLine 成交单价取 sale_price(>0) 否则 regular_price，单件折扣不小于 0
func priceLine(p *model.Product, quantity int) orderLine {
	if quantity <= 0 {
		quantity = 1
	}
	regular := p.RegularPrice.Decimal
	effective := p.EffectivePrice().Decimal
	discount := regular.Sub(effective)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return orderLine{
		product:      p,
		quantity:     quantity,
		unitPrice:    regular,
		effective:    effective,
		unitDiscount: discount,
	}
}

// orderTotals 订单汇总
type orderTotals struct {
	totalItems int
	subtotal   decimal.Decimal
	discount   decimal.Decimal
	total      decimal.Decimal
}

func sumLines(lines []orderLine) orderTotals {
	t := orderTotals{subtotal: decimal.Zero, discount: decimal.Zero, total: decimal.Zero}
	for _, l := range lines {
		q := decimal.NewFromInt(int64(l.quantity))
		t.totalItems += l.quantity
		t.subtotal = t.subtotal.Add(l.unitPrice.Mul(q))
		t.discount = t.discount.Add(l.unitDiscount.Mul(q))
		t.total = t.total.Add(l.effective.Mul(q))
	}
	return t
}

// distinctCurrencies 返回排序后的去重币种
func distinctCurrencies(lines []orderLine) []string {
	seen := map[string]struct{}{}
	for _, l := range lines {
		seen[l.product.Currency] = struct{}{}
	}
	res := make([]string, 0, len(seen))
	for c := range seen {
		res = append(res, c)
	}
	sort.Strings(res)
	return res
}

// NewOrderCode 生成 "OD" + 28 位大写十六进制
func NewOrderCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "OD" + strings.ToUpper(hex[:28])
}
