// Package scoring turns a receipt into loyalty points.
//
// The score is the sum of independent rules evaluated on the same receipt.
// Evaluation never fails: a field a rule cannot interpret contributes zero
// to that rule only.
package scoring

import "receipt-processor/internal/receiptprocessor/data"

type RuleResult struct {
	Name   string
	Points int64
}

type Score struct {
	Total int64
	Rules []RuleResult
}

type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{
		rules: rules,
	}
}

func (e *Engine) Score(receipt data.Receipt) Score {
	res := Score{
		Rules: make([]RuleResult, len(e.rules)),
	}
	for i, rule := range e.rules {
		points := rule.Eval(receipt)
		res.Rules[i] = RuleResult{
			Name:   rule.Name,
			Points: points,
		}
		res.Total += points
	}
	return res
}

var defaultEngine = NewEngine()

// Calculate scores receipt with the default rule set.
func Calculate(receipt data.Receipt) int64 {
	return defaultEngine.Score(receipt).Total
}
