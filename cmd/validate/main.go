// Command validate loads a donor CSV through the same pipeline the server
// uses and checks the resulting table for internal consistency: every kept
// record is well formed, the statistics agree with the records, and the
// filters partition the table the way the dashboard assumes.
//
// Usage:
//
//	go run ./cmd/validate -data data/donors.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"os"
	"regexp"

	"github.com/couchcryptid/donor-map/internal/adapter/csvsource"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/pipeline"
	"github.com/couchcryptid/donor-map/internal/scene"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var stateCode = regexp.MustCompile(`^[A-Z]{2}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "data/donors.csv", "path to the donor CSV export")
	verbose := flag.Bool("v", false, "log dropped rows")
	flag.Parse()

	if code := run(*dataPath, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath string, verbose bool) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	fmt.Println("=== Donor Data Integrity Validation ===")
	fmt.Println()

	loader := pipeline.NewLoader(csvsource.NewFile(dataPath), nil, logger, observability.NewMetricsForTesting())
	table, report, err := loader.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	view := table.All()

	phases := []*phase{
		validateLoadReport(report, table),
		validateRecords(view),
		validateSummary(view),
		validateFilterPartitions(table),
		validateChoropleth(view),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %s read, %s kept, %s missing location, %s invalid amount\n",
		humanize.Comma(int64(report.Rows)), humanize.Comma(int64(report.Kept)),
		humanize.Comma(int64(report.MissingLocation)), humanize.Comma(int64(report.InvalidAmount)))
	fmt.Printf("States: %d\n", len(table.States()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateLoadReport(report pipeline.LoadReport, table *domain.Table) *phase {
	p := &phase{name: "Load accounting"}
	if report.Kept+report.Dropped() != report.Rows {
		p.errorf("kept %d + dropped %d != rows %d", report.Kept, report.Dropped(), report.Rows)
	}
	if table.Len() != report.Kept {
		p.errorf("table has %d records, report says %d kept", table.Len(), report.Kept)
	}
	return p
}

func validateRecords(view domain.View) *phase {
	p := &phase{name: "Record well-formedness"}
	for _, r := range view {
		if math.IsNaN(r.Lon()) || math.IsNaN(r.Lat()) || math.Abs(r.Lon()) > 180 || math.Abs(r.Lat()) > 90 {
			p.errorf("%s: coordinate out of range (%f, %f)", r.ID, r.Lon(), r.Lat())
		}
		if r.GiftAmount.IsNegative() {
			p.errorf("%s: negative gift %s", r.ID, r.GiftAmount)
		}
		if !domain.IsGiftCategory(r.GiftCategory) {
			p.errorf("%s: unknown gift category %q", r.ID, r.GiftCategory)
		} else if want := domain.CategorizeGift(r.GiftAmount); want != r.GiftCategory {
			p.errorf("%s: gift %s labeled %q, want %q", r.ID, r.GiftAmount, r.GiftCategory, want)
		}
		if r.State != "" && !stateCode.MatchString(r.State) {
			p.errorf("%s: state %q is not a two-letter code", r.ID, r.State)
		}
	}
	return p
}

func validateSummary(view domain.View) *phase {
	p := &phase{name: "Summary consistency"}
	s := domain.Summarize(view)

	if s.TotalDonors != len(view) {
		p.errorf("total_donors %d != %d records", s.TotalDonors, len(view))
	}

	distributed := 0
	for _, n := range s.GiftDistribution {
		distributed += n
	}
	if distributed != len(view) {
		p.errorf("gift_distribution sums to %d, want %d", distributed, len(view))
	}

	total := decimal.Zero
	for _, r := range view {
		total = total.Add(r.GiftAmount)
	}
	if got := domain.FormatCurrency(total); got != s.TotalGifts {
		p.errorf("total_gifts %s, recomputed %s", s.TotalGifts, got)
	}

	if len(s.TopStates) > domain.TopStatesLimit {
		p.errorf("top_states has %d entries, limit is %d", len(s.TopStates), domain.TopStatesLimit)
	}
	for i := 1; i < len(s.TopStates); i++ {
		if s.TopStates[i].Total.GreaterThan(s.TopStates[i-1].Total) {
			p.errorf("top_states not descending at %s", s.TopStates[i].State)
		}
	}
	return p
}

func validateFilterPartitions(table *domain.Table) *phase {
	p := &phase{name: "Filter partitions"}
	all := table.All()

	byCategory := 0
	for _, c := range domain.GiftCategories() {
		byCategory += len(domain.ParseFilter(url.Values{"gift_category": {c}}).Apply(all))
	}
	if byCategory != len(all) {
		p.errorf("gift categories cover %d of %d records", byCategory, len(all))
	}

	counts := table.StateCounts()
	for _, st := range table.States() {
		got := len(domain.ParseFilter(url.Values{"state": {st}}).Apply(all))
		if got != counts[st] {
			p.errorf("state %s: filter returns %d, count is %d", st, got, counts[st])
		}
	}

	if n := len(domain.ParseFilter(url.Values{"min_gift": {"10"}, "max_gift": {"5"}}).Apply(all)); n != 0 {
		p.errorf("inverted range matched %d records", n)
	}
	return p
}

func validateChoropleth(view domain.View) *phase {
	p := &phase{name: "Choropleth matches aggregation"}
	aggs := domain.AggregateByState(view)
	fig := scene.Choropleth(view, scene.DefaultStyle())

	data, ok := fig["data"].([]any)
	if !ok || len(data) != 1 {
		p.errorf("choropleth has no single trace")
		return p
	}
	trace, ok := data[0].(map[string]any)
	if !ok {
		p.errorf("choropleth trace has unexpected type %T", data[0])
		return p
	}
	locations, _ := trace["locations"].([]string)
	if len(locations) != len(aggs) {
		p.errorf("choropleth has %d states, aggregation has %d", len(locations), len(aggs))
		return p
	}
	for i, a := range aggs {
		if locations[i] != a.State {
			p.errorf("choropleth location %d is %s, want %s", i, locations[i], a.State)
		}
	}
	return p
}
