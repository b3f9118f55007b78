// Command genmock writes a deterministic mock donor export in the same
// column layout as the real CSV, including the quirks the normalizer has to
// cope with: currency-formatted amounts, state and city spread across
// fallback columns, and rows with no usable coordinates. It then loads the
// file back through the pipeline and prints the numbers tests assert on.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/donors.csv -rows 2000 -seed 42
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/couchcryptid/donor-map/internal/adapter/csvsource"
	"github.com/couchcryptid/donor-map/internal/domain"
	"github.com/couchcryptid/donor-map/internal/observability"
	"github.com/couchcryptid/donor-map/internal/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var header = []string{
	domain.ColLongitude, domain.ColLatitude, domain.ColGiftAmount, domain.ColState,
	domain.ColRegionAbbrev, domain.ColCity, domain.ColCityAlt, domain.ColBestCity,
	domain.ColZIP, domain.ColBestZIP, domain.ColPostal, domain.ColDonorID, domain.ColStreet,
}

type place struct {
	city  string
	state string
	zip   string
	lon   float64
	lat   float64
}

var places = []place{
	{"Los Angeles", "CA", "90012", -118.2437, 34.0522},
	{"San Diego", "CA", "92101", -117.1611, 32.7157},
	{"San Francisco", "CA", "94102", -122.4194, 37.7749},
	{"New York", "NY", "10007", -74.0060, 40.7128},
	{"Albany", "NY", "12207", -73.7562, 42.6526},
	{"Chicago", "IL", "60601", -87.6298, 41.8781},
	{"Houston", "TX", "77002", -95.3698, 29.7604},
	{"Austin", "TX", "78701", -97.7431, 30.2672},
	{"Miami", "FL", "33130", -80.1918, 25.7617},
	{"Seattle", "WA", "98104", -122.3321, 47.6062},
	{"Denver", "CO", "80202", -104.9903, 39.7392},
	{"Atlanta", "GA", "30303", -84.3880, 33.7490},
	{"Boston", "MA", "02108", -71.0589, 42.3601},
	{"Minneapolis", "MN", "55401", -93.2650, 44.9778},
	{"Phoenix", "AZ", "85004", -112.0740, 33.4484},
}

var streets = []string{"Main St", "Oak Ave", "Maple Dr", "Cedar Ln", "Park Blvd", "Lake Rd"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the mock donor CSV")
	rows := flag.Int("rows", 1000, "number of rows to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" || *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -rows")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	if err := writeCSV(*out, *rows, rng); err != nil {
		return fmt.Errorf("writing mock csv: %w", err)
	}
	log.Printf("wrote %d rows: %s", *rows, *out)

	return printStats(*out)
}

func writeCSV(path string, n int, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range n {
		if err := w.Write(mockRow(i, rng)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// mockRow builds one export row. Roughly 1 in 25 rows has no coordinates and
// 1 in 50 has an unparseable amount; state and city are moved into their
// fallback columns on a share of the rest.
func mockRow(i int, rng *rand.Rand) []string {
	p := places[rng.IntN(len(places))]
	row := make(map[string]string, len(header))

	lon := p.lon + (rng.Float64()-0.5)*0.2
	lat := p.lat + (rng.Float64()-0.5)*0.2
	if rng.IntN(25) != 0 {
		row[domain.ColLongitude] = fmt.Sprintf("%.6f", lon)
		row[domain.ColLatitude] = fmt.Sprintf("%.6f", lat)
	}

	row[domain.ColGiftAmount] = mockAmount(rng)
	if rng.IntN(50) == 0 {
		row[domain.ColGiftAmount] = "pledged"
	}

	switch rng.IntN(4) {
	case 0:
		row[domain.ColRegionAbbrev] = p.state
	case 1:
		row[domain.ColState] = p.state
		row[domain.ColRegionAbbrev] = "ZZ"
	default:
		row[domain.ColState] = p.state
	}

	switch rng.IntN(5) {
	case 0:
		row[domain.ColCityAlt] = p.city
	case 1:
		row[domain.ColBestCity] = p.city
	default:
		row[domain.ColCity] = p.city
	}

	switch rng.IntN(3) {
	case 0:
		row[domain.ColBestZIP] = p.zip
	case 1:
		row[domain.ColPostal] = p.zip
	default:
		row[domain.ColZIP] = p.zip
	}

	row[domain.ColDonorID] = fmt.Sprintf("D%06d", i+1)
	if rng.IntN(3) != 0 {
		row[domain.ColStreet] = fmt.Sprintf("%d %s", 100+rng.IntN(9900), streets[rng.IntN(len(streets))])
	}

	out := make([]string, len(header))
	for j, col := range header {
		out[j] = row[col]
	}
	return out
}

// mockAmount draws a major-gift amount skewed toward the low buckets and
// formats it the way the export does.
func mockAmount(rng *rand.Rand) string {
	var cents int64
	switch r := rng.IntN(100); {
	case r < 45:
		cents = 100_000 + rng.Int64N(400_000)
	case r < 65:
		cents = 500_000 + rng.Int64N(500_000)
	case r < 85:
		cents = 1_000_000 + rng.Int64N(1_500_000)
	case r < 95:
		cents = 2_500_000 + rng.Int64N(7_500_000)
	default:
		cents = 10_000_000 + rng.Int64N(40_000_000)
	}
	amount := decimal.New(cents, -2)
	if rng.IntN(2) == 0 {
		return domain.FormatCurrency(amount)
	}
	return amount.StringFixed(2)
}

func printStats(path string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := pipeline.NewLoader(csvsource.NewFile(path), nil, logger, observability.NewMetricsForTesting())
	table, report, err := loader.Load(context.Background())
	if err != nil {
		return err
	}

	summary := domain.Summarize(table.All())

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Rows: %d, kept: %d, missing location: %d, invalid amount: %d\n",
		report.Rows, report.Kept, report.MissingLocation, report.InvalidAmount)
	fmt.Printf("Total: %s, average: %s, median: %s\n",
		summary.TotalGifts, summary.AvgGift, summary.MedianGift)

	fmt.Println("By gift category:")
	for _, c := range domain.GiftCategories() {
		fmt.Printf("  %-10s %s\n", c, humanize.Comma(int64(summary.GiftDistribution[c])))
	}

	fmt.Println("Top states:")
	for _, s := range summary.TopStates {
		fmt.Printf("  %s %s (%d donors)\n", s.State, domain.FormatCurrency(s.Total), s.Count)
	}
	return nil
}
