package advisor

import (
	"fmt"
	"strconv"

	"github.com/sells-group/financing-advisor/internal/model"
	"github.com/sells-group/financing-advisor/internal/survey"
)

// Defaults substituted for missing or malformed answers so the fallback is
// total over any answer map.
const (
	defaultIncome      = 50000.0
	defaultCreditScore = 650
	defaultDownPayment = 5000.0
)

// tierRateBands maps each credit tier to its expected APR band.
var tierRateBands = map[model.CreditTier]string{
	model.TierExcellent: "0.9% - 2.9%",
	model.TierGood:      "2.9% - 7.5%",
	model.TierFair:      "7.5% - 12.0%",
	model.TierPoor:      "12.0% - 22.0%",
}

// Fallback computes a recommendation from fixed rules. It never fails:
// missing answers fall back to conservative defaults.
func Fallback(answers map[survey.QuestionKey]string) Recommendation {
	income := parseFloatOr(answers[survey.KeyIncome], defaultIncome)
	creditScore := parseIntOr(answers[survey.KeyCreditScore], defaultCreditScore)
	downPayment := parseFloatOr(answers[survey.KeyDownPayment], defaultDownPayment)
	housing := stringOr(answers[survey.KeyHousingStatus], "rent")
	employment := stringOr(answers[survey.KeyEmploymentStatus], "full-time")
	loanPref := stringOr(answers[survey.KeyLoanPreference], "either")
	vehiclePref := stringOr(answers[survey.KeyVehiclePreference], "any")

	monthlyIncome := income / 12
	affordable := monthlyIncome * 0.15
	tier := model.TierForScore(creditScore)

	suggestedType, recommendation, reasoning := primaryRecommendation(creditScore, income, loanPref)

	rec := Recommendation{
		Recommendation: recommendation,
		Reasoning:      reasoning,
		FinancialAnalysis: FinancialAnalysis{
			DebtToIncomeRatio: fmt.Sprintf(
				"A target car payment of $%.0f/month is 15%% of your $%.0f monthly income.",
				affordable, monthlyIncome),
			AffordableMonthlyPayment: fmt.Sprintf("$%.0f/month", affordable),
			CreditTier:               string(tier),
			RiskLevel:                riskLevel(creditScore, employment),
		},
		SuggestedTerms: SuggestedTerms{
			LoanTerm:          "60 months for the best balance of rate and payment",
			DownPayment:       suggestedDownPayment(downPayment, income),
			FinancingType:     suggestedType,
			InterestRateRange: tierRateBands[tier],
		},
		Tips:             buildTips(creditScore, downPayment, income, employment, housing, vehiclePref),
		Concerns:         buildConcerns(creditScore, income, employment),
		NextSteps:        buildNextSteps(suggestedType),
		ToyotaAdvantages: toyotaAdvantages(tier),
	}

	return rec
}

// primaryRecommendation applies the financing-vs-lease decision rules.
func primaryRecommendation(creditScore int, income float64, loanPref string) (suggestedType, recommendation, reasoning string) {
	switch {
	case creditScore >= 700 && income >= 60000:
		return "financing",
			"Financing is your strongest option.",
			"With a credit score of " + strconv.Itoa(creditScore) + " and solid income, you qualify for " +
				"competitive financing rates and will build equity in the vehicle."
	case creditScore < 650 || income < 40000:
		return "lease",
			"Leasing will keep your costs manageable.",
			"Lease rates are often friendlier than loan rates at this credit and income level, " +
				"and the lower monthly payment leaves room in your budget."
	default:
		suggested := loanPref
		if suggested == "either" || suggested == "" {
			suggested = "financing"
		}
		return suggested,
			"Either financing or leasing is viable for your profile.",
			"Your credit and income sit in a range where both paths work; we've leaned toward your " +
				"stated preference. Compare total cost of ownership before deciding."
	}
}

func riskLevel(creditScore int, employment string) string {
	switch {
	case creditScore < 580 || employment == "unemployed":
		return "high"
	case creditScore < 660 || employment == "part-time":
		return "medium"
	default:
		return "low"
	}
}

func suggestedDownPayment(downPayment, income float64) string {
	if downPayment >= income*0.1 {
		return fmt.Sprintf("$%.0f is a healthy down payment; 10-20%% of vehicle price is ideal.", downPayment)
	}
	return fmt.Sprintf("Consider saving beyond your current $%.0f; 10-20%% of vehicle price improves your rate.", downPayment)
}

func buildTips(creditScore int, downPayment, income float64, employment, housing, vehiclePref string) []string {
	var tips []string

	if creditScore < 660 {
		tips = append(tips, "Raising your credit score above 660 moves you into a cheaper rate tier.")
	}
	if downPayment < income*0.1 {
		tips = append(tips, "A larger down payment reduces both your monthly payment and total interest.")
	}
	if employment != "full-time" {
		tips = append(tips, "Lenders weigh income stability; documentation of consistent earnings strengthens your application.")
	}
	if housing == "rent" {
		tips = append(tips, "An auto loan paid on time builds the credit history that renting alone doesn't.")
	}
	switch vehiclePref {
	case "hybrid":
		tips = append(tips, "Hybrids hold strong residual values, which makes lease payments unusually favorable.")
	case "suv":
		tips = append(tips, "SUVs retain value well, which favors financing and building equity.")
	}
	tips = append(tips, "Ask about Toyota Financial Services promotional rates, often 0.9%-2.9% on select models.")

	return tips
}

func buildConcerns(creditScore int, income float64, employment string) []string {
	var concerns []string
	if creditScore < 600 {
		concerns = append(concerns, "A credit score under 600 will attract subprime rates; weigh waiting and repairing credit first.")
	}
	if income < 30000 {
		concerns = append(concerns, "At this income level a car payment can crowd out other essentials; keep the payment under 10% of monthly income.")
	}
	if employment == "unemployed" {
		concerns = append(concerns, "Most lenders require verifiable income; approval without employment is unlikely.")
	}
	return concerns
}

func buildNextSteps(suggestedType string) []string {
	steps := []string{
		"Get pre-approved so you know your real rate before visiting a dealer.",
		"Pull your free credit report and dispute any errors.",
		"Compare offers from Toyota Financial Services and your bank or credit union.",
	}
	if suggestedType == "lease" {
		steps = append(steps, "Estimate your annual mileage honestly; overage fees can erase lease savings.")
	} else {
		steps = append(steps, "Pick the shortest loan term whose payment fits your budget comfortably.")
	}
	return steps
}

func toyotaAdvantages(tier model.CreditTier) []string {
	advantages := []string{
		"Toyota Financial Services promotional rates on select new models",
		"Certified Pre-Owned programs with extended warranty coverage",
		"Loyalty pricing for returning Toyota Financial Services customers",
	}
	if tier == model.TierExcellent || tier == model.TierGood {
		advantages = append(advantages, "Your credit tier qualifies for TFS's best advertised rates")
	}
	return advantages
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseIntOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
