package finance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/model"
)

// defaultTerms is used when a lender's term list parses to nothing.
var defaultTerms = []int{60, 72}

// ComputeOptions turns the flat lender table into a deduplicated, priced,
// sorted list of offers for one buyer. Lenders without US coverage or
// without a usable rate for the buyer's credit tier are skipped; a malformed
// record degrades to defaults rather than aborting the rest of the table.
//
// Offers are grouped by (lender, term, rate range, offer type): distinct
// loan-type products sharing those accumulate into one offer's description
// instead of duplicating it.
func ComputeOptions(lenders []model.LenderRecord, creditScore int, vehiclePrice, downPayment float64) []model.FinancingOffer {
	loanAmount := vehiclePrice - downPayment
	tier := model.TierForScore(creditScore)

	grouped := make(map[string]*model.FinancingOffer)
	descriptions := make(map[string]map[string]struct{})
	var order []string

	for _, lender := range lenders {
		name := strings.TrimSpace(lender.Name)

		rates := ParseRateRange(lender.RateFor(tier))
		if rates.Unavailable() || !strings.HasPrefix(lender.CountryCoverage, "US") {
			zap.L().Debug("finance: skipping lender",
				zap.String("lender", name),
				zap.String("tier", string(tier)),
				zap.Bool("rate_unavailable", rates.Unavailable()),
			)
			continue
		}

		terms := parseTerms(lender.TypicalTerms)
		types := splitList(lender.LoanTypes)

		for _, loanType := range types {
			var offerType model.OfferType
			switch lowered := strings.ToLower(loanType); {
			case strings.Contains(lowered, "loan"):
				offerType = model.OfferFinancing
			case strings.Contains(lowered, "lease"):
				offerType = model.OfferLease
			default:
				continue // unclassifiable product, no offer
			}

			for _, term := range terms {
				key := fmt.Sprintf("%s-%d-%g-%g-%s", strings.ToLower(name), term, rates.Min, rates.Max, offerType)

				if _, ok := grouped[key]; !ok {
					grouped[key] = newOffer(name, rates, term, offerType, loanAmount, vehiclePrice, downPayment)
					descriptions[key] = make(map[string]struct{})
					order = append(order, key)
				}
				descriptions[key][loanType] = struct{}{}
			}
		}
	}

	offers := make([]model.FinancingOffer, 0, len(order))
	for _, key := range order {
		offer := *grouped[key]
		offer.Description = joinSorted(descriptions[key])
		offers = append(offers, offer)
	}

	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].MonthlyPayment != offers[j].MonthlyPayment {
			return offers[i].MonthlyPayment < offers[j].MonthlyPayment
		}
		return offers[i].TermMonths < offers[j].TermMonths
	})

	return offers
}

// newOffer prices a freshly encountered group using the low end of the rate
// range.
func newOffer(name string, rates model.RateRange, term int, offerType model.OfferType, loanAmount, vehiclePrice, downPayment float64) *model.FinancingOffer {
	var monthly, total float64
	switch offerType {
	case model.OfferFinancing:
		monthly = MonthlyPayment(loanAmount, rates.Min, term)
		total = monthly*float64(term) + downPayment
	case model.OfferLease:
		monthly = LeasePayment(vehiclePrice, rates.Min)
		total = monthly * float64(term)
	}

	return &model.FinancingOffer{
		Lender:         name,
		RateMin:        rates.Min,
		RateMax:        rates.Max,
		TermMonths:     term,
		Type:           offerType,
		MonthlyPayment: round2(monthly),
		TotalCost:      round2(total),
	}
}

// parseTerms comma-splits a term list, dropping non-numeric tokens. An empty
// result falls back to the default term set.
func parseTerms(s string) []int {
	var terms []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		terms = append(terms, n)
	}
	if len(terms) == 0 {
		return defaultTerms
	}
	return terms
}

func splitList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func joinSorted(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
