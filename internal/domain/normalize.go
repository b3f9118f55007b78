package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// Row rejection reasons. NormalizeRow wraps one of these so callers can count
// drops by cause with errors.Is.
var (
	ErrMissingLocation = errors.New("missing or invalid location")
	ErrInvalidAmount   = errors.New("invalid gift amount")
)

// currencyReplacer strips the formatting the export puts around amounts,
// e.g. " $12,500.00 " -> "12500.00".
var currencyReplacer = strings.NewReplacer("$", "", ",", "")

// NormalizeRow converts a raw CSV row into a DonationRecord. It returns an
// error wrapping ErrMissingLocation or ErrInvalidAmount when the row cannot
// be kept.
func NormalizeRow(row RawRow) (DonationRecord, error) {
	amount, err := ParseGiftAmount(row.Get(ColGiftAmount))
	if err != nil {
		return DonationRecord{}, err
	}

	loc, err := parseLocation(row.Get(ColLongitude), row.Get(ColLatitude))
	if err != nil {
		return DonationRecord{}, err
	}

	rec := DonationRecord{
		Location:      loc,
		GiftAmount:    amount,
		GiftCategory:  CategorizeGift(amount),
		State:         strings.ToUpper(coalesce(row.Get(ColState), row.Get(ColRegionAbbrev))),
		City:          coalesce(row.Get(ColCityAlt), row.Get(ColCity), row.Get(ColBestCity)),
		ZIP:           coalesce(row.Get(ColZIP), row.Get(ColBestZIP), row.Get(ColPostal)),
		DonorID:       row.Get(ColDonorID),
		StreetAddress: row.Get(ColStreet),
		GeoSource:     "original",
	}
	rec.ID = generateID(rec.DonorID, loc, amount)
	return rec, nil
}

// ParseGiftAmount parses a locale-formatted currency string such as
// "$12,500.00". Empty, non-numeric, negative and out-of-range values are
// rejected.
func ParseGiftAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %q", ErrInvalidAmount, s)
	}
	// Map traces carry amounts as float64; anything that overflows it cannot
	// be rendered or encoded.
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, fmt.Errorf("%w: out of range %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// parseLocation parses the X/Y columns into a point, rejecting empty,
// non-finite and out-of-range coordinates.
func parseLocation(x, y string) (orb.Point, error) {
	lon, errX := parseCoordinate(x)
	lat, errY := parseCoordinate(y)
	if errX != nil || errY != nil {
		return orb.Point{}, fmt.Errorf("%w: x=%q y=%q", ErrMissingLocation, x, y)
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return orb.Point{}, fmt.Errorf("%w: out of range x=%q y=%q", ErrMissingLocation, x, y)
	}
	return orb.Point{lon, lat}, nil
}

func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty coordinate")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("non-finite coordinate")
	}
	return v, nil
}

// coalesce returns the first non-empty value.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// trimCell trims whitespace and treats the null spellings that spreadsheet tools
// write into hand-edited exports as empty.
func trimCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a":
		return ""
	}
	return s
}

// generateID produces a deterministic ID from the record's key fields.
// Re-exporting the same file yields the same IDs, which keeps Kafka message
// keys stable across runs.
func generateID(donorID string, loc orb.Point, amount decimal.Decimal) string {
	input := fmt.Sprintf("%s|%.6f|%.6f|%s", donorID, loc.Lon(), loc.Lat(), amount.String())
	hash := sha256.Sum256([]byte(input))
	return "gift-" + hex.EncodeToString(hash[:8])
}
