// Package survey drives the guided financial questionnaire: question
// metadata, free-text answer validation/normalization, and the step-by-step
// conversation state machine.
package survey

// QuestionKey identifies one questionnaire step.
type QuestionKey string

const (
	KeyIncome            QuestionKey = "income"
	KeyCreditScore       QuestionKey = "credit_score"
	KeyHousingStatus     QuestionKey = "housing_status"
	KeyEmploymentStatus  QuestionKey = "employment_status"
	KeyDownPayment       QuestionKey = "down_payment"
	KeyLoanPreference    QuestionKey = "loan_preference"
	KeyVehiclePreference QuestionKey = "vehicle_preference"
)

// QuestionOrder is the fixed sequence of questionnaire steps. There is no
// skip or early-exit path.
var QuestionOrder = []QuestionKey{
	KeyIncome,
	KeyCreditScore,
	KeyHousingStatus,
	KeyEmploymentStatus,
	KeyDownPayment,
	KeyLoanPreference,
	KeyVehiclePreference,
}

// RangeOptions describes a slider-style numeric question.
type RangeOptions struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

// SelectOption is one choice of a select-style question.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Template holds the prompt and UI metadata for one question.
type Template struct {
	Prompt  string
	Type    string // "range", "select", or "number"
	Options any    // RangeOptions or []SelectOption
}

var templates = map[QuestionKey]Template{
	KeyIncome: {
		Prompt:  "What's your annual household income? This helps us determine your budget range.",
		Type:    "range",
		Options: RangeOptions{Min: 25000, Max: 200000, Step: 5000, Default: 75000},
	},
	KeyCreditScore: {
		Prompt:  "What's your approximate credit score? This affects your interest rates significantly.",
		Type:    "range",
		Options: RangeOptions{Min: 300, Max: 850, Step: 10, Default: 700},
	},
	KeyHousingStatus: {
		Prompt: "What's your current housing situation?",
		Type:   "select",
		Options: []SelectOption{
			{Value: "own", Label: "Own (with mortgage)"},
			{Value: "own_outright", Label: "Own outright"},
			{Value: "rent", Label: "Rent"},
			{Value: "other", Label: "Other"},
		},
	},
	KeyEmploymentStatus: {
		Prompt: "What's your employment status?",
		Type:   "select",
		Options: []SelectOption{
			{Value: "full-time", Label: "Full-time Employee"},
			{Value: "part-time", Label: "Part-time Employee"},
			{Value: "self-employed", Label: "Self-employed"},
			{Value: "contractor", Label: "Contractor"},
			{Value: "unemployed", Label: "Unemployed"},
			{Value: "retired", Label: "Retired"},
		},
	},
	KeyDownPayment: {
		Prompt:  "How much can you put down as a down payment?",
		Type:    "number",
		Options: RangeOptions{Min: 0, Max: 50000, Step: 500, Default: 5000},
	},
	KeyLoanPreference: {
		Prompt: "Do you prefer financing (buying) or leasing?",
		Type:   "select",
		Options: []SelectOption{
			{Value: "financing", Label: "Financing (Purchase)"},
			{Value: "lease", Label: "Leasing"},
			{Value: "either", Label: "Either is fine"},
		},
	},
	KeyVehiclePreference: {
		Prompt: "What type of vehicle are you interested in?",
		Type:   "select",
		Options: []SelectOption{
			{Value: "sedan", Label: "Sedan"},
			{Value: "suv", Label: "SUV"},
			{Value: "hybrid", Label: "Hybrid/Electric"},
			{Value: "truck", Label: "Truck"},
			{Value: "any", Label: "Any type"},
		},
	},
}

// TemplateFor returns the question metadata for a step key.
func TemplateFor(key QuestionKey) Template {
	return templates[key]
}
