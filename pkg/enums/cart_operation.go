package enums

// CartOperation names a cart mutation for logs and metrics.
type CartOperation string

const (
	CartOperationAdd    CartOperation = "add"
	CartOperationRemove CartOperation = "remove"
	CartOperationUpdate CartOperation = "update"
	CartOperationClear  CartOperation = "clear"
	CartOperationFlush  CartOperation = "flush"
)

// String implements fmt.Stringer.
func (o CartOperation) String() string {
	return string(o)
}
