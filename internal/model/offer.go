package model

// OfferType separates purchase financing from leasing.
type OfferType string

const (
	OfferFinancing OfferType = "financing"
	OfferLease     OfferType = "lease"
)

// FinancingOffer is one priced proposal: a single lender, term, and rate
// range for either financing or a lease. Offers are ephemeral, computed per
// request, and never persisted.
type FinancingOffer struct {
	Lender         string    `json:"bank"`
	RateMin        float64   `json:"rate_min"`
	RateMax        float64   `json:"rate_max"`
	TermMonths     int       `json:"term"`
	Type           OfferType `json:"type"`
	Description    string    `json:"term_description"` // sorted, comma-joined product names
	MonthlyPayment float64   `json:"monthly_payment"`
	TotalCost      float64   `json:"total_cost"`
}
