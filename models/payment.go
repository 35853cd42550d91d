package models

// PaymentIntentData is returned when a Stripe PaymentIntent has been created
// for a booking's total.
type PaymentIntentData struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
