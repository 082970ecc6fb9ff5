package application

// VerifyOrderCommand represents the command to quote an order without
// committing stock
type VerifyOrderCommand struct {
	Quantity  int
	Latitude  float64
	Longitude float64
}

// SubmitOrderCommand represents the command to submit an order
type SubmitOrderCommand struct {
	Quantity  int
	Latitude  float64
	Longitude float64
}
