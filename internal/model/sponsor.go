package model

import "time"

const (
	MinSponsorPrice = 200

	SignOptionText = "text"
	SignOptionLogo = "logo"
	SignOptionBoth = "both"
)

type Sponsor struct {
	ID          string     `json:"_id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Logo        string     `json:"logo"`
	WebsiteLink string     `json:"websiteLink"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type SponsorInput struct {
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Logo        string  `json:"logo"`
	WebsiteLink string  `json:"websiteLink"`
}

// Sponsorship is a paid sponsorship recorded from a completed checkout.
type Sponsorship struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	BusinessName    string    `json:"businessName"`
	Amount          float64   `json:"amount"`
	SignOption      string    `json:"signOption"`
	SignText        string    `json:"signText"`
	LogoURL         string    `json:"logoUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	StripeSessionID string    `json:"stripeSessionId"`
}
