package domain

import (
	"sort"
	"time"
)

// Table is the canonical, read-only donor table. It is built once at startup
// and shared by every request without locking.
type Table struct {
	records  []DonationRecord
	states   []string
	loadedAt time.Time
}

// NewTable freezes records into a Table. The slice is owned by the table
// afterwards and must not be modified by the caller.
func NewTable(records []DonationRecord) *Table {
	return &Table{
		records:  records,
		states:   distinctSorted(records, func(r *DonationRecord) string { return r.State }),
		loadedAt: clock.Now(),
	}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// All returns a view over every record.
func (t *Table) All() View {
	view := make(View, len(t.records))
	for i := range t.records {
		view[i] = &t.records[i]
	}
	return view
}

// States returns the sorted distinct state codes across the whole table.
func (t *Table) States() []string {
	out := make([]string, len(t.states))
	copy(out, t.states)
	return out
}

// StateCounts returns the number of donors per resolved state.
func (t *Table) StateCounts() map[string]int {
	counts := make(map[string]int, len(t.states))
	for i := range t.records {
		if s := t.records[i].State; s != "" {
			counts[s]++
		}
	}
	return counts
}

// Cities returns the sorted distinct non-empty city names in a view.
func (v View) Cities() []string {
	seen := make(map[string]struct{})
	for _, r := range v {
		if r.City != "" {
			seen[r.City] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func distinctSorted(records []DonationRecord, key func(*DonationRecord) string) []string {
	seen := make(map[string]struct{})
	for i := range records {
		if k := key(&records[i]); k != "" {
			seen[k] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
