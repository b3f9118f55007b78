package domain

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Gift category labels, smallest to largest.
const (
	Category5K      = "$5K"
	Category5KTo7K  = "$5K-7.5K"
	Category7KTo10K = "$7.5K-10K"
	Category10KTo15 = "$10K-15K"
	Category15KTo25 = "$15K-25K"
	Category25KTo50 = "$25K-50K"
	Category50KTo1M = "$50K-100K"
	CategoryOver100 = ">$100K"
)

// giftBuckets pairs each category with its inclusive upper edge. The last
// category has no upper edge and is handled by CategorizeGift.
var giftBuckets = []struct {
	label string
	upper decimal.Decimal
}{
	{Category5K, decimal.NewFromInt(5000)},
	{Category5KTo7K, decimal.NewFromInt(7500)},
	{Category7KTo10K, decimal.NewFromInt(10000)},
	{Category10KTo15, decimal.NewFromInt(15000)},
	{Category15KTo25, decimal.NewFromInt(25000)},
	{Category25KTo50, decimal.NewFromInt(50000)},
	{Category50KTo1M, decimal.NewFromInt(100000)},
}

// GiftCategories returns the eight category labels in display order.
func GiftCategories() []string {
	return []string{
		Category5K,
		Category5KTo7K,
		Category7KTo10K,
		Category10KTo15,
		Category15KTo25,
		Category25KTo50,
		Category50KTo1M,
		CategoryOver100,
	}
}

// IsGiftCategory reports whether label is one of the fixed categories.
func IsGiftCategory(label string) bool {
	for _, c := range GiftCategories() {
		if c == label {
			return true
		}
	}
	return false
}

// CategorizeGift maps a non-negative amount to its category label.
func CategorizeGift(amount decimal.Decimal) string {
	for _, b := range giftBuckets {
		if amount.LessThanOrEqual(b.upper) {
			return b.label
		}
	}
	return CategoryOver100
}

// FormatCurrency renders an amount as dollars with thousands separators and
// two decimals, e.g. 26000 -> "$26,000.00".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return sign + "$" + fixed
	}
	return sign + "$" + humanize.BigComma(n) + "." + frac
}

// FormatWholeCurrency renders an amount rounded to whole dollars, e.g.
// 26000.4 -> "$26,000".
func FormatWholeCurrency(amount decimal.Decimal) string {
	return "$" + humanize.BigComma(amount.Round(0).BigInt())
}
