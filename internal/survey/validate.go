package survey

import (
	"strconv"
	"strings"
)

// Validation is the outcome of checking one free-text answer. When Valid is
// true, Normalized holds the canonical stored value; otherwise Message
// explains the rejection and Help suggests a fix. Advisory holds a caution
// for answers that are accepted but worth flagging.
type Validation struct {
	Valid      bool
	Normalized string
	Message    string
	Help       string
	Advisory   string
}

func invalid(message, help string) Validation {
	return Validation{Message: message, Help: help}
}

func valid(normalized string) Validation {
	return Validation{Valid: true, Normalized: normalized}
}

// nonAnswers are throwaway responses rejected regardless of question,
// case-insensitive exact match.
var nonAnswers = map[string]struct{}{
	"idk":      {},
	"test":     {},
	"testing":  {},
	"yes":      {},
	"no":       {},
	"123":      {},
	"asdf":     {},
	"whatever": {},
	"n/a":      {},
}

// Validate checks raw user input against one question's rules and derives
// the canonical answer value. Pure function of its inputs: re-validating a
// normalized value yields the same value.
func Validate(raw string, key QuestionKey) Validation {
	text := strings.TrimSpace(raw)
	if text == "" {
		return invalid("Please provide a response.", "Type an answer to continue.")
	}
	if _, ok := nonAnswers[strings.ToLower(text)]; ok {
		return invalid("That doesn't look like a valid response.", "Please answer the question above.")
	}

	switch key {
	case KeyIncome:
		return validateIncome(text)
	case KeyCreditScore:
		return validateCreditScore(text)
	case KeyHousingStatus:
		return validateHousing(text)
	case KeyEmploymentStatus:
		return validateEmployment(text)
	case KeyDownPayment:
		return validateDownPayment(text)
	case KeyLoanPreference:
		return validateLoanPreference(text)
	case KeyVehiclePreference:
		return validateVehiclePreference(text)
	}
	return invalid("Unknown question.", "")
}

// parseMoney parses a dollar amount with optional $, thousands separators,
// and a trailing k multiplier ("85k" -> 85000).
func parseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	if lower := strings.ToLower(s); strings.HasSuffix(lower, "k") {
		multiplier = 1000
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

func validateIncome(text string) Validation {
	amount, ok := parseMoney(text)
	if !ok {
		// A "low-high" range averages the two bounds.
		if lo, hi, rangeOK := parseMoneyRange(text); rangeOK {
			amount, ok = (lo+hi)/2, true
		}
	}
	if !ok {
		return invalid("I couldn't read that as an income amount.",
			`Try something like "85000", "$85,000", or "85k".`)
	}
	if amount < 10000 || amount > 1000000 {
		return invalid("That income is outside the range we can work with.",
			"Please enter an annual household income between $10,000 and $1,000,000.")
	}
	return valid(strconv.Itoa(int(amount)))
}

func parseMoneyRange(text string) (lo, hi float64, ok bool) {
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, loOK := parseMoney(parts[0])
	hi, hiOK := parseMoney(parts[1])
	if !loOK || !hiOK {
		return 0, 0, false
	}
	return lo, hi, true
}

func validateCreditScore(text string) Validation {
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return invalid("I couldn't read that as a credit score.",
			"Enter a number between 300 and 850.")
	}
	if score < 300 || score > 850 {
		return invalid("Credit scores run from 300 to 850.",
			"Enter your approximate FICO score within that range.")
	}
	v := valid(strconv.Itoa(score))
	if score < 500 {
		// Accepted, but worth a heads-up: rates at this level are steep.
		v.Advisory = "A score under 500 will sharply limit your rate options. Consider credit repair before financing."
	}
	return v
}

// selectChoices formats the allowed values for a rejection message.
func selectChoices(options []SelectOption) string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return strings.Join(values, ", ")
}

// normalizeChoice resolves free text to one of a question's canonical values
// via exact match first, then ordered keyword heuristics.
func normalizeChoice(text string, canonical []string, keywords []keywordRule) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, c := range canonical {
		if lower == c {
			return c, true
		}
	}
	for _, rule := range keywords {
		if strings.Contains(lower, rule.substr) {
			return rule.value, true
		}
	}
	return "", false
}

type keywordRule struct {
	substr string
	value  string
}

func validateHousing(text string) Validation {
	value, ok := normalizeChoice(text,
		[]string{"own", "own_outright", "rent", "other"},
		[]keywordRule{
			{"outright", "own_outright"},
			{"paid", "own_outright"},
			{"mortgage", "own"},
			{"rent", "rent"},
			{"own", "own"},
		})
	if !ok {
		return invalid("I couldn't match that to a housing situation.",
			"Valid choices: "+selectChoices(templates[KeyHousingStatus].Options.([]SelectOption)))
	}
	return valid(value)
}

func validateEmployment(text string) Validation {
	value, ok := normalizeChoice(text,
		[]string{"full-time", "part-time", "self-employed", "contractor", "unemployed", "retired"},
		[]keywordRule{
			{"self", "self-employed"},
			{"contract", "contractor"},
			{"freelance", "self-employed"},
			{"unemploy", "unemployed"},
			{"not working", "unemployed"},
			{"retire", "retired"},
			{"full", "full-time"},
			{"part", "part-time"},
		})
	if !ok {
		return invalid("I couldn't match that to an employment status.",
			"Valid choices: "+selectChoices(templates[KeyEmploymentStatus].Options.([]SelectOption)))
	}
	return valid(value)
}

func validateDownPayment(text string) Validation {
	amount, ok := parseMoney(text)
	if !ok {
		return invalid("I couldn't read that as a down payment amount.",
			`Try something like "5000", "$5,000", or "5k".`)
	}
	if amount < 0 || amount > 100000 {
		return invalid("Down payments should be between $0 and $100,000.",
			"Enter the cash amount you can put down today.")
	}
	return valid(strconv.Itoa(int(amount)))
}

func validateLoanPreference(text string) Validation {
	value, ok := normalizeChoice(text,
		[]string{"financing", "lease", "either"},
		[]keywordRule{
			{"buy", "financing"},
			{"purchase", "financing"},
			{"financ", "financing"},
			{"loan", "financing"},
			{"leas", "lease"},
			{"rent", "lease"},
			{"both", "either"},
			{"any", "either"},
		})
	if !ok {
		return invalid("I couldn't match that to a financing preference.",
			"Valid choices: "+selectChoices(templates[KeyLoanPreference].Options.([]SelectOption)))
	}
	return valid(value)
}

func validateVehiclePreference(text string) Validation {
	value, ok := normalizeChoice(text,
		[]string{"sedan", "suv", "hybrid", "truck", "any"},
		[]keywordRule{
			{"no preference", "any"},
			{"electric", "hybrid"},
			{"ev", "hybrid"},
			{"pickup", "truck"},
			{"sport", "suv"},
			{"car", "sedan"},
		})
	if !ok {
		return invalid("I couldn't match that to a vehicle type.",
			"Valid choices: "+selectChoices(templates[KeyVehiclePreference].Options.([]SelectOption)))
	}
	return valid(value)
}
