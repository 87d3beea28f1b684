package advisor

import (
	"fmt"
	"strings"

	"github.com/sells-group/financing-advisor/internal/survey"
)

const systemPrompt = "You are an expert Toyota Financial Services advisor with 15+ years of experience " +
	"in automotive financing. You specialize in helping customers make optimal financial decisions " +
	"for Toyota vehicle purchases and leases. Respond only with the requested JSON."

// buildPrompt embeds the collected answers and the domain heuristics the
// model should apply, plus the JSON response contract.
func buildPrompt(answers map[survey.QuestionKey]string) string {
	get := func(key survey.QuestionKey) string {
		if v, ok := answers[key]; ok && v != "" {
			return v
		}
		return "Not provided"
	}

	var b strings.Builder

	b.WriteString("CUSTOMER FINANCIAL PROFILE:\n")
	fmt.Fprintf(&b, "- Annual Income: $%s\n", get(survey.KeyIncome))
	fmt.Fprintf(&b, "- Credit Score: %s\n", get(survey.KeyCreditScore))
	fmt.Fprintf(&b, "- Housing Status: %s\n", get(survey.KeyHousingStatus))
	fmt.Fprintf(&b, "- Employment Status: %s\n", get(survey.KeyEmploymentStatus))
	fmt.Fprintf(&b, "- Down Payment Available: $%s\n", get(survey.KeyDownPayment))
	fmt.Fprintf(&b, "- Loan Preference: %s\n", get(survey.KeyLoanPreference))
	fmt.Fprintf(&b, "- Vehicle Preference: %s\n", get(survey.KeyVehiclePreference))

	b.WriteString(`
ANALYSIS FRAMEWORK:

1. DEBT-TO-INCOME: maximum monthly payment is typically 10-15% of monthly
   income; factor in employment stability and housing costs.

2. CREDIT TIERS:
   - Excellent (760+): prime rates, best terms (0.9%-2.9%)
   - Good (660-759): competitive rates (2.9%-7.5%)
   - Fair (580-659): higher rates, larger down payment helps (7.5%-12.0%)
   - Poor (<580): subprime rates, significant down payment required (12.0%-22.0%)

3. FINANCING VS LEASING:
   Financing favors credit 700+, high annual mileage, long-term ownership,
   20%+ down, stable income, equity building.
   Leasing favors credit 650-750, low mileage, lower monthly payments,
   newer vehicles, business use, uncertain long-term needs.

4. TOYOTA-SPECIFIC: Toyota Financial Services promotional rates (often
   0.9%-2.9%), hybrids hold residual value well for leasing, SUVs hold value
   well for financing, Certified Pre-Owned programs, loyalty programs.

Respond with JSON exactly in this shape:
{
  "recommendation": "financing or leasing recommendation with brief reasoning",
  "reasoning": "detailed financial analysis behind the recommendation",
  "financial_analysis": {
    "debt_to_income_ratio": "calculated percentage and assessment",
    "affordable_monthly_payment": "maximum recommended payment",
    "credit_tier": "excellent/good/fair/poor with implications",
    "risk_level": "low/medium/high with explanation"
  },
  "tips": ["actionable tip", "..."],
  "suggested_terms": {
    "loan_term": "specific term recommendation",
    "down_payment": "specific amount or percentage with reasoning",
    "financing_type": "financing or lease with justification",
    "interest_rate_range": "expected range for this credit score"
  },
  "concerns": ["financial red flags, if any"],
  "next_steps": ["immediate actionable step", "..."],
  "toyota_advantages": ["Toyota Financial Services benefits for this customer"]
}
`)

	return b.String()
}
