package model

// All 返回需要建表的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Category{},
		&Product{},
		&Post{},
		&Contact{},
		&Counter{},
		&Order{},
		&OrderItem{},
		&Outbox{},
	}
}
