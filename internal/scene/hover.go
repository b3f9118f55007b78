package scene

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/donor-map/internal/domain"
)

// placeLabel renders "City, ST", tolerating either half being unknown.
func placeLabel(r *domain.DonationRecord) string {
	switch {
	case r.City != "" && r.State != "":
		return r.City + ", " + r.State
	case r.City != "":
		return r.City
	case r.State != "":
		return r.State
	default:
		return "Unknown location"
	}
}

// detailedHover is the tooltip for marker modes: place, amount, donor and
// street address when present.
func detailedHover(r *domain.DonationRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>", placeLabel(r))
	fmt.Fprintf(&b, "Gift: %s<br>", domain.FormatCurrency(r.GiftAmount))
	if r.DonorID != "" {
		fmt.Fprintf(&b, "Donor #: %s<br>", r.DonorID)
	}
	if r.StreetAddress != "" {
		fmt.Fprintf(&b, "Address: %s", r.StreetAddress)
	}
	return strings.TrimSuffix(b.String(), "<br>")
}

// simpleHover is the short point-map tooltip.
func simpleHover(r *domain.DonationRecord) string {
	return placeLabel(r) + "<br>" + domain.FormatCurrency(r.GiftAmount)
}

func hoverTexts(view domain.View, label func(*domain.DonationRecord) string) []string {
	out := make([]string, len(view))
	for i, r := range view {
		out[i] = label(r)
	}
	return out
}
