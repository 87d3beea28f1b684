package model

// CreditTier buckets a credit score into one of the four lender rate columns.
type CreditTier string

const (
	TierExcellent CreditTier = "excellent" // 760+
	TierGood      CreditTier = "good"      // 660-759
	TierFair      CreditTier = "fair"      // 580-659
	TierPoor      CreditTier = "poor"      // <580
)

// TierForScore maps a credit score onto the rate column a lender quotes for
// that score.
func TierForScore(score int) CreditTier {
	switch {
	case score >= 760:
		return TierExcellent
	case score >= 660:
		return TierGood
	case score >= 580:
		return TierFair
	default:
		return TierPoor
	}
}

// LenderRecord is one row of the lender table, loaded verbatim from the
// lender source. Filtering (US coverage, usable rates) happens at
// aggregation time, not load time.
type LenderRecord struct {
	Name            string                `json:"lender_name"`
	CountryCoverage string                `json:"country_coverage"`
	RatesByTier     map[CreditTier]string `json:"rates_by_tier"`
	TypicalTerms    string                `json:"typical_terms_months"` // comma list, e.g. "36, 48, 60"
	LoanTypes       string                `json:"loan_types_offered"`   // comma list, e.g. "New Auto Loan, Lease"
}

// RateFor returns the raw rate-range string this lender quotes for a tier.
func (l LenderRecord) RateFor(tier CreditTier) string {
	return l.RatesByTier[tier]
}

// UnavailableRate is the sentinel meaning "no valid rate data". A lender
// whose parsed minimum rate reaches it is excluded from aggregation.
const UnavailableRate = 99.0

// RateRange is a parsed interest-rate range in annual percent.
type RateRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Unavailable reports whether the range is the parse-failure sentinel.
func (r RateRange) Unavailable() bool {
	return r.Min >= UnavailableRate
}
