package domain

// Fee is one surcharge line attached to an order total.
type Fee struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}
