package dto

import (
	"bytes"
	"encoding/json"
)

// Optional 区分 JSON 字段的三种状态：未出现、显式 null、有值
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Some 构造有值的 Optional
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

// Null 构造显式 null 的 Optional
func Null[T any]() Optional[T] { return Optional[T]{Set: true} }
