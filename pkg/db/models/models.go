package models

// All lists the models owned by the storefront schema.
func All() []any {
	return []any{
		&Admin{},
		&Category{},
		&Product{},
		&KVEntry{},
	}
}
