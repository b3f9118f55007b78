package domain

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// TopStatesLimit caps the number of entries in Summary.TopStates.
const TopStatesLimit = 5

// StateAggregate is the gift total and donor count for one state.
type StateAggregate struct {
	State string
	Total decimal.Decimal
	Count int
}

// StateTotals is an ordered state -> total mapping. It serializes as a JSON
// object whose keys keep slice order.
type StateTotals []StateAggregate

// MarshalJSON emits {"CA": 26000, ...} in slice order.
func (s StateTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, agg := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(agg.State)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(agg.Total.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary is the statistics block shown next to the map.
type Summary struct {
	TotalDonors      int            `json:"total_donors"`
	TotalGifts       string         `json:"total_gifts"`
	AvgGift          string         `json:"avg_gift"`
	MedianGift       string         `json:"median_gift"`
	TopStates        StateTotals    `json:"top_states"`
	GiftDistribution map[string]int `json:"gift_distribution"`
}

// Summarize computes the statistics block for a view. An empty view yields
// zero counts, "$0.00" amounts and empty collections.
func Summarize(view View) Summary {
	total := decimal.Zero
	amounts := make([]decimal.Decimal, 0, len(view))
	distribution := make(map[string]int)
	for _, r := range view {
		total = total.Add(r.GiftAmount)
		amounts = append(amounts, r.GiftAmount)
		distribution[r.GiftCategory]++
	}

	avg := decimal.Zero
	if len(view) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(view))))
	}

	return Summary{
		TotalDonors:      len(view),
		TotalGifts:       FormatCurrency(total),
		AvgGift:          FormatCurrency(avg),
		MedianGift:       FormatCurrency(median(amounts)),
		TopStates:        TopStates(view, TopStatesLimit),
		GiftDistribution: distribution,
	}
}

// AggregateByState sums gifts and counts donors per resolved state, sorted by
// state code. Records without a state are skipped.
func AggregateByState(view View) []StateAggregate {
	index := make(map[string]int)
	var out []StateAggregate
	for _, r := range view {
		if r.State == "" {
			continue
		}
		i, ok := index[r.State]
		if !ok {
			i = len(out)
			index[r.State] = i
			out = append(out, StateAggregate{State: r.State, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(r.GiftAmount)
		out[i].Count++
	}
	sort.Slice(out, func(a, b int) bool { return out[a].State < out[b].State })
	return out
}

// TopStates returns up to limit states with the largest gift totals,
// descending, ties broken by state code.
func TopStates(view View, limit int) StateTotals {
	aggs := AggregateByState(view)
	sort.SliceStable(aggs, func(a, b int) bool {
		if c := aggs[a].Total.Cmp(aggs[b].Total); c != 0 {
			return c > 0
		}
		return aggs[a].State < aggs[b].State
	})
	if len(aggs) > limit {
		aggs = aggs[:limit]
	}
	return StateTotals(aggs)
}

// median sorts amounts in place and returns the middle value, averaging the
// two middle values for even lengths. Empty input yields zero.
func median(amounts []decimal.Decimal) decimal.Decimal {
	n := len(amounts)
	if n == 0 {
		return decimal.Zero
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })
	if n%2 == 1 {
		return amounts[n/2]
	}
	return amounts[n/2-1].Add(amounts[n/2]).Div(decimal.NewFromInt(2))
}
