package domain

import (
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// RawRow is one CSV row keyed by trimmed header name. Missing columns and
// empty cells both read as "".
type RawRow map[string]string

// Get returns the trimmed cell value for a column.
func (r RawRow) Get(column string) string {
	return trimCell(r[column])
}

// Source column names as they appear (after trimming) in the donor export.
const (
	ColGiftAmount   = "Gift $"
	ColLongitude    = "X"
	ColLatitude     = "Y"
	ColState        = "State"
	ColRegionAbbrev = "Region Abbreviation"
	ColCity         = "City"
	ColCityAlt      = "City.1"
	ColBestCity     = "ARC Best City"
	ColZIP          = "ZIP"
	ColBestZIP      = "ARC Best Zip"
	ColPostal       = "Postal"
	ColDonorID      = "Donor #"
	ColStreet       = "Street Address"
)

// DonationRecord is a cleaned donor gift. Location is always valid and
// GiftAmount is never negative.
type DonationRecord struct {
	ID            string          `json:"id"`
	Location      orb.Point       `json:"location"` // [lon, lat]
	GiftAmount    decimal.Decimal `json:"gift_amount"`
	GiftCategory  string          `json:"gift_category"`
	State         string          `json:"state,omitempty"`
	City          string          `json:"city,omitempty"`
	ZIP           string          `json:"zip,omitempty"`
	DonorID       string          `json:"donor_id,omitempty"`
	StreetAddress string          `json:"street_address,omitempty"`

	// GeoSource records how State/City were resolved: "original" from the row's
	// own columns, "reverse" from the geocoder, "failed" when lookup errored.
	GeoSource string `json:"geo_source,omitempty"`
}

// Lon returns the record longitude.
func (r *DonationRecord) Lon() float64 { return r.Location.Lon() }

// Lat returns the record latitude.
func (r *DonationRecord) Lat() float64 { return r.Location.Lat() }

// Amount returns the gift amount as a float for rendering.
func (r *DonationRecord) Amount() float64 { return r.GiftAmount.InexactFloat64() }

// View is a filtered subset of a Table. It holds pointers into the table's
// backing slice and must not be used to mutate records.
type View []*DonationRecord
