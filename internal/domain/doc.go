// Package domain models donor gift records and the read-only table the
// dashboard filters and summarizes.
//
// # Data Source
//
// Donor rows come from a single CSV export (data/donors.csv by default). The
// file is read once at startup, normalized into [DonationRecord] values, and
// frozen into a [Table] that every request shares.
//
// # Column Conventions
//
// Header names carry stray whitespace in the export (the amount column is
// literally " Gift $ "), so headers are matched after trimming.
//
//	Gift $              "$12,500.00"   currency string, "$" "," and spaces stripped
//	X, Y                -87.62, 41.88  longitude and latitude (WGS-84)
//	State               "IL"           falls back to "Region Abbreviation"
//	City.1, City        "Chicago"      first non-empty of City.1, City, ARC Best City
//	ZIP                 "60601"        first non-empty of ZIP, ARC Best Zip, Postal
//	Donor #             "D-1042"       opaque, display only
//	Street Address      "1 Main St"    opaque, display only
//
// Rows without coordinates, or whose amount does not parse to a non-negative
// number, are dropped. A row with no resolvable state stays in the table but
// is skipped by every per-state grouping.
//
// # Gift Categories
//
// Amounts are bucketed into eight fixed categories. The first bucket is closed
// on both ends, the rest are left-open and right-closed, and the last is
// unbounded:
//
//	$5K         [0, 5000]
//	$5K-7.5K    (5000, 7500]
//	$7.5K-10K   (7500, 10000]
//	$10K-15K    (10000, 15000]
//	$15K-25K    (15000, 25000]
//	$25K-50K    (25000, 50000]
//	$50K-100K   (50000, 100000]
//	>$100K      (100000, +inf)
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of donor|lon|lat|amount so a
// re-export of the same file produces the same message keys. See [generateID].
package domain
