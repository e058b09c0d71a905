package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money 金额，JSON 与入库时统一格式化为两位小数字符串
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{Decimal: d} }

func MoneyFromInt(v int64) Money { return Money{Decimal: decimal.NewFromInt(v)} }

// ParseMoney 解析十进制字符串
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

func (m Money) String() string { return m.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) { return json.Marshal(m.StringFixed(2)) }

func (m Money) Value() (driver.Value, error) { return m.StringFixed(2), nil }

func (m *Money) Scan(value interface{}) error { return m.Decimal.Scan(value) }
