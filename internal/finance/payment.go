package finance

import "math"

// round2 rounds to 2 decimal places, the precision used for all displayed
// currency amounts.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MonthlyPayment computes the fixed monthly payment for a loan using the
// standard annuity formula. A zero rate degrades to straight division.
func MonthlyPayment(loanAmount, annualRatePct float64, termMonths int) float64 {
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate <= 0 {
		return loanAmount / float64(termMonths)
	}
	growth := math.Pow(1+monthlyRate, float64(termMonths))
	return loanAmount * monthlyRate * growth / (growth - 1)
}

// LeasePayment approximates a monthly lease payment with the one-percent
// rule: 1% of vehicle price, adjusted by the monthly rate. This is a crude
// approximation, not a residual-value calculation, and is kept as-is for
// parity with the quoting behavior downstream consumers expect.
func LeasePayment(vehiclePrice, annualRatePct float64) float64 {
	monthlyRate := annualRatePct / 100 / 12
	return vehiclePrice * 0.01 * (1 + monthlyRate)
}

// PaymentBreakdown is the response shape of a direct payment calculation.
type PaymentBreakdown struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	LoanAmount     float64 `json:"loan_amount"`
}

// CalculatePayment runs the annuity formula for an explicit price, down
// payment, term, and rate, returning the rounded payment breakdown.
func CalculatePayment(vehiclePrice, downPayment float64, termMonths int, annualRatePct float64) PaymentBreakdown {
	loanAmount := vehiclePrice - downPayment
	monthly := MonthlyPayment(loanAmount, annualRatePct, termMonths)
	total := monthly * float64(termMonths)
	return PaymentBreakdown{
		MonthlyPayment: round2(monthly),
		TotalPayment:   round2(total),
		TotalInterest:  round2(total - loanAmount),
		LoanAmount:     loanAmount,
	}
}
