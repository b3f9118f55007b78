package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel value meaning "do not filter on this field".
const FilterAll = "all"

// Filter is a conjunction of optional criteria. Empty string fields and nil
// bounds are no-ops.
type Filter struct {
	State        string
	City         string
	GiftCategory string
	MinGift      *decimal.Decimal // inclusive
	MaxGift      *decimal.Decimal // inclusive
}

// ParseFilter reads filter criteria from query parameters. "all" and empty
// values disable a criterion; bounds that do not parse as numbers are ignored.
// State codes are matched case-insensitively since the table stores them
// upper-cased.
func ParseFilter(q url.Values) Filter {
	return Filter{
		State:        strings.ToUpper(exactOrAll(q.Get("state"))),
		City:         exactOrAll(q.Get("city")),
		GiftCategory: exactOrAll(q.Get("gift_category")),
		MinGift:      parseBound(q.Get("min_gift"), false),
		MaxGift:      parseBound(q.Get("max_gift"), true),
	}
}

func exactOrAll(v string) string {
	if v == FilterAll {
		return ""
	}
	return v
}

// Stand-ins for the infinities, beyond any amount ParseGiftAmount accepts.
var (
	posInf = decimal.New(1, 400)
	negInf = decimal.New(-1, 400)
)

// parseBound parses a numeric bound, returning nil for empty or malformed
// input. NaN compares false against every amount, so a NaN bound matches
// nothing.
func parseBound(s string, upper bool) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	var d decimal.Decimal
	switch {
	case math.IsNaN(f):
		d = posInf
		if upper {
			d = negInf
		}
	case math.IsInf(f, 1):
		// No finite amount exceeds +Inf, so an upper bound of +Inf is a no-op
		// and a lower bound of +Inf matches nothing.
		d = posInf
	case math.IsInf(f, -1):
		d = negInf
	default:
		d = decimal.NewFromFloat(f)
	}
	return &d
}

// Matches reports whether a record satisfies every active criterion.
func (f Filter) Matches(r *DonationRecord) bool {
	if f.State != "" && r.State != f.State {
		return false
	}
	if f.City != "" && r.City != f.City {
		return false
	}
	if f.GiftCategory != "" && r.GiftCategory != f.GiftCategory {
		return false
	}
	if f.MinGift != nil && r.GiftAmount.LessThan(*f.MinGift) {
		return false
	}
	if f.MaxGift != nil && r.GiftAmount.GreaterThan(*f.MaxGift) {
		return false
	}
	return true
}

// Apply returns the records in view that match the filter. The result shares
// record pointers with the input and is never nil.
func (f Filter) Apply(view View) View {
	out := make(View, 0, len(view))
	for _, r := range view {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
