package scoring_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/internal/receiptprocessor/scoring"
)

type scoringTestContext struct {
	engine  *scoring.Engine
	receipt data.Receipt
	score   *scoring.Score
}

func (c *scoringTestContext) reset() {
	c.engine = scoring.NewEngine()
	c.receipt = data.Receipt{}
	c.score = nil
}

// Given steps

func (c *scoringTestContext) anEmptyReceipt() error {
	c.receipt = data.Receipt{}
	return nil
}

func (c *scoringTestContext) aReceiptFromRetailer(retailer string) error {
	c.receipt.Retailer = retailer
	return nil
}

func (c *scoringTestContext) aReceiptWithTotal(total string) error {
	value, err := decimal.NewFromString(total)
	if err != nil {
		return fmt.Errorf("invalid total %q: %w", total, err)
	}
	c.receipt.Total = value
	return nil
}

func (c *scoringTestContext) aReceiptPurchasedOn(date string) error {
	c.receipt.PurchaseDate = date
	return nil
}

func (c *scoringTestContext) aReceiptPurchasedAt(purchaseTime string) error {
	c.receipt.PurchaseTime = purchaseTime
	return nil
}

func (c *scoringTestContext) aReceiptWithTotalAndItems(total string, items *godog.Table) error {
	if err := c.aReceiptWithTotal(total); err != nil {
		return err
	}
	// Skip header row
	for _, row := range items.Rows[1:] {
		price, err := decimal.NewFromString(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", row.Cells[1].Value, err)
		}
		c.receipt.Items = append(c.receipt.Items, data.Item{
			ShortDescription: row.Cells[0].Value,
			Price:            price,
		})
	}
	return nil
}

func (c *scoringTestContext) aReceiptFromRetailerWithTotalAndItems(retailer, total string, items *godog.Table) error {
	c.receipt.Retailer = retailer
	return c.aReceiptWithTotalAndItems(total, items)
}

// When steps

func (c *scoringTestContext) iScoreTheReceipt() error {
	score := c.engine.Score(c.receipt)
	c.score = &score
	return nil
}

// Then steps

func (c *scoringTestContext) theReceiptEarnsPoints(points int) error {
	if c.score == nil {
		return errors.New("receipt was not scored")
	}
	if c.score.Total != int64(points) {
		return fmt.Errorf("expected %d points, got %d", points, c.score.Total)
	}
	return nil
}

func (c *scoringTestContext) theRuleContributesPoints(rule string, points int) error {
	if c.score == nil {
		return errors.New("receipt was not scored")
	}
	for _, result := range c.score.Rules {
		if result.Name != rule {
			continue
		}
		if result.Points != int64(points) {
			return fmt.Errorf("expected rule %q to contribute %d points, got %d", rule, points, result.Points)
		}
		return nil
	}
	return fmt.Errorf("rule %q was not evaluated", rule)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &scoringTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty receipt$`, tc.anEmptyReceipt)
	ctx.Step(`^a receipt from retailer "([^"]*)"$`, tc.aReceiptFromRetailer)
	ctx.Step(`^a receipt with total "([^"]*)"$`, tc.aReceiptWithTotal)
	ctx.Step(`^a receipt purchased on "([^"]*)"$`, tc.aReceiptPurchasedOn)
	ctx.Step(`^a receipt purchased at "([^"]*)"$`, tc.aReceiptPurchasedAt)
	ctx.Step(`^a receipt with total "([^"]*)" and items:$`, tc.aReceiptWithTotalAndItems)
	ctx.Step(`^a receipt from retailer "([^"]*)" with total "([^"]*)" and items:$`, tc.aReceiptFromRetailerWithTotalAndItems)

	// When steps
	ctx.Step(`^I score the receipt$`, tc.iScoreTheReceipt)

	// Then steps
	ctx.Step(`^the receipt earns (\d+) points$`, tc.theReceiptEarnsPoints)
	ctx.Step(`^the rule "([^"]*)" contributes (\d+) points$`, tc.theRuleContributesPoints)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"scoring.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
