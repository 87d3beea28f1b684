// Package advisor turns completed questionnaire answers into a financing
// recommendation, via the Anthropic API when configured and a deterministic
// rule-based fallback otherwise. Generation never fails: any API error,
// timeout, or unparseable response degrades to the fallback.
package advisor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/financing-advisor/internal/survey"
	"github.com/sells-group/financing-advisor/pkg/anthropic"
)

// FinancialAnalysis summarizes affordability and risk for one profile.
type FinancialAnalysis struct {
	DebtToIncomeRatio        string `json:"debt_to_income_ratio"`
	AffordableMonthlyPayment string `json:"affordable_monthly_payment"`
	CreditTier               string `json:"credit_tier"`
	RiskLevel                string `json:"risk_level"`
}

// SuggestedTerms holds the concrete deal parameters the advisor suggests.
type SuggestedTerms struct {
	LoanTerm          string `json:"loan_term"`
	DownPayment       string `json:"down_payment"`
	FinancingType     string `json:"financing_type"`
	InterestRateRange string `json:"interest_rate_range"`
}

// Recommendation is the full advice payload, shaped identically whether it
// came from the model or the fallback rules.
type Recommendation struct {
	Recommendation    string            `json:"recommendation"`
	Reasoning         string            `json:"reasoning"`
	FinancialAnalysis FinancialAnalysis `json:"financial_analysis"`
	Tips              []string          `json:"tips"`
	SuggestedTerms    SuggestedTerms    `json:"suggested_terms"`
	Concerns          []string          `json:"concerns"`
	NextSteps         []string          `json:"next_steps"`
	ToyotaAdvantages  []string          `json:"toyota_advantages"`
}

// Advisor generates recommendations. A nil client means fallback-only mode.
type Advisor struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// New builds an Advisor. client may be nil when no API key is configured;
// every Generate call then uses the deterministic rules.
func New(client anthropic.Client, model string, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Advisor{client: client, model: model, timeout: timeout}
}

// Generate produces a recommendation for a completed answer set. It always
// returns a fully populated Recommendation.
func (a *Advisor) Generate(ctx context.Context, answers map[survey.QuestionKey]string) Recommendation {
	if a.client == nil {
		zap.L().Debug("advisor: no client configured, using fallback rules")
		return Fallback(answers)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: 2048,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(answers)},
		},
	})
	if err != nil {
		zap.L().Warn("advisor: generation failed, using fallback rules", zap.Error(err))
		return Fallback(answers)
	}
	resp.Usage.LogCost(a.model, "advice")

	rec, err := parseRecommendation(resp.Text())
	if err != nil {
		zap.L().Warn("advisor: unparseable model response, using fallback rules", zap.Error(err))
		return Fallback(answers)
	}
	return rec
}

// parseRecommendation decodes the model's JSON body, tolerating markdown
// code fences around it.
func parseRecommendation(text string) (Recommendation, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	var rec Recommendation
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &rec); err != nil {
		return Recommendation{}, err
	}
	return rec, nil
}
