package models

// All returns every model managed by the store, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Collection{},
		&Product{},
		&ProductImage{},
		&ProductReview{},
		&Customer{},
		&Address{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
