package cart

// Quantity may be omitted on add and then counts as one.
type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=9999"`
}

// A quantity of zero or less removes the line.
type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=9999"`
}
