package model

import "time"

const (
	PaymentStatusCompleted = "completed"

	// MaxSpotsPerUser caps how many spots a single account may hold.
	MaxSpotsPerUser = 4
	MinDonation     = 150
)

type Spot struct {
	ID     string `json:"spotId"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	UserID string `json:"userId,omitempty"`
}

// SpotDetails is the contact information entered for a spot before it is paid for.
type SpotDetails struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"required,email"`
}

type Registration struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	Spots           int       `json:"spots"`
	SpotDetails     []*Spot   `json:"spotDetails"`
	PaymentStatus   string    `json:"paymentStatus"`
	Amount          float64   `json:"amount"`
	CreatedAt       time.Time `json:"createdAt"`
	StripeSessionID string    `json:"stripeSessionId"`
}
