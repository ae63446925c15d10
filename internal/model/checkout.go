package model

type RegistrationCheckout struct {
	UserID      string         `json:"userId" validate:"required"`
	Spots       int            `json:"spots" validate:"required,min=1,max=4"`
	Donation    int64          `json:"donation" validate:"required"`
	SpotDetails []*SpotDetails `json:"spotDetails" validate:"required,dive,required"`
}

type SponsorshipCheckout struct {
	UserID       string `json:"userId" validate:"required"`
	BusinessName string `json:"businessName" validate:"required"`
	Amount       int64  `json:"amount" validate:"required"`
	SignOption   string `json:"signOption" validate:"required,oneof=text logo both"`
	SignText     string `json:"signText"`
	LogoURL      string `json:"logoUrl" validate:"omitempty,url"`
}

type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
