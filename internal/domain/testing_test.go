package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// record builds a normalized record for tests without going through CSV.
func record(t *testing.T, state, city string, amount int64) DonationRecord {
	t.Helper()
	d := decimal.NewFromInt(amount)
	return DonationRecord{
		ID:           generateID(city, orb.Point{-98, 39}, d),
		Location:     orb.Point{-98, 39},
		GiftAmount:   d,
		GiftCategory: CategorizeGift(d),
		State:        state,
		City:         city,
	}
}

// exampleTable is the worked example: two CA gifts and one NY gift.
func exampleTable(t *testing.T) *Table {
	t.Helper()
	return NewTable([]DonationRecord{
		record(t, "CA", "Los Angeles", 6000),
		record(t, "CA", "San Diego", 20000),
		record(t, "NY", "Albany", 100),
	})
}
