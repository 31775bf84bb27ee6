package scoring

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"receipt-processor/internal/receiptprocessor/data"
)

const (
	RetailerNameRule    = "retailer-alphanumeric"
	RoundDollarRule     = "round-dollar-total"
	QuarterMultipleRule = "quarter-multiple-total"
	ItemPairsRule       = "item-pairs"
	DescriptionRule     = "description-length"
	OddDayRule          = "odd-purchase-day"
	AfternoonRule       = "afternoon-purchase"
)

const (
	roundDollarPoints     = 50
	quarterMultiplePoints = 25
	itemPairPoints        = 5
	oddDayPoints          = 6
	afternoonPoints       = 10

	descriptionLengthDivisor = 3

	purchaseDateSeparator = "-"
	purchaseTimeLayout    = "15:04"
)

var (
	oneDollar             = decimal.New(1, 0)
	quarterDollar         = decimal.New(25, -2)
	descriptionMultiplier = decimal.New(2, -1)

	afternoonStart = 14 * time.Hour
	afternoonEnd   = 16 * time.Hour
)

// Rule is one independent contribution to the receipt score. Eval must not
// panic and must not return a negative value.
type Rule struct {
	Name string
	Eval func(receipt data.Receipt) int64
}

func DefaultRules() []Rule {
	return []Rule{
		{Name: RetailerNameRule, Eval: retailerNamePoints},
		{Name: RoundDollarRule, Eval: roundDollarTotalPoints},
		{Name: QuarterMultipleRule, Eval: quarterMultipleTotalPoints},
		{Name: ItemPairsRule, Eval: itemPairsPoints},
		{Name: DescriptionRule, Eval: descriptionLengthPoints},
		{Name: OddDayRule, Eval: oddPurchaseDayPoints},
		{Name: AfternoonRule, Eval: afternoonPurchasePoints},
	}
}

func retailerNamePoints(receipt data.Receipt) int64 {
	var points int64
	for _, r := range receipt.Retailer {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			points++
		}
	}
	return points
}

func roundDollarTotalPoints(receipt data.Receipt) int64 {
	if receipt.Total.Mod(oneDollar).IsZero() {
		return roundDollarPoints
	}
	return 0
}

func quarterMultipleTotalPoints(receipt data.Receipt) int64 {
	if receipt.Total.Mod(quarterDollar).IsZero() {
		return quarterMultiplePoints
	}
	return 0
}

func itemPairsPoints(receipt data.Receipt) int64 {
	return int64(len(receipt.Items)/2) * itemPairPoints
}

// descriptionLengthPoints counts empty descriptions too: zero is a multiple of
// three.
func descriptionLengthPoints(receipt data.Receipt) int64 {
	var points int64
	for _, item := range receipt.Items {
		length := utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))
		if length%descriptionLengthDivisor != 0 {
			continue
		}
		bonus := item.Price.Mul(descriptionMultiplier).Ceil()
		if bonus.Sign() <= 0 {
			continue
		}
		points += bonus.IntPart()
	}
	return points
}

// oddPurchaseDayPoints reads the day as the numeric text after the last dash.
// The calendar is not consulted, so "2023-02-31" and "2024-1-13" both count.
func oddPurchaseDayPoints(receipt data.Receipt) int64 {
	segments := strings.Split(receipt.PurchaseDate, purchaseDateSeparator)
	day, err := strconv.Atoi(strings.TrimSpace(segments[len(segments)-1]))
	if err != nil {
		return 0
	}
	if day%2 == 1 {
		return oddDayPoints
	}
	return 0
}

func afternoonPurchasePoints(receipt data.Receipt) int64 {
	purchaseTime, err := time.Parse(purchaseTimeLayout, receipt.PurchaseTime)
	if err != nil {
		return 0
	}
	sinceMidnight := time.Duration(purchaseTime.Hour())*time.Hour +
		time.Duration(purchaseTime.Minute())*time.Minute
	if sinceMidnight >= afternoonStart && sinceMidnight < afternoonEnd {
		return afternoonPoints
	}
	return 0
}
