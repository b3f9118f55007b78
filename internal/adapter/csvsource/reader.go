// Package csvsource reads the donor CSV export into raw rows.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/donor-map/internal/domain"
)

// requiredColumns must be present in the header for any row to survive
// normalization.
var requiredColumns = []string{domain.ColGiftAmount, domain.ColLongitude, domain.ColLatitude}

// File reads rows from a CSV file on disk. It implements pipeline.RowSource.
type File struct {
	path string
}

// NewFile returns a source for the CSV at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// ReadRows opens and parses the whole file.
func (f *File) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open donor csv: %w", err)
	}
	defer fh.Close()

	return ReadRows(ctx, fh)
}

// ReadRows parses CSV data with a header row. Header names are trimmed and
// repeated names are suffixed (see uniqueColumns); short rows leave trailing
// columns empty and long rows have extra cells ignored.
func ReadRows(ctx context.Context, r io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("donor csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read donor csv header: %w", err)
	}

	columns := uniqueColumns(header)
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("donor csv header missing column %q", col)
		}
	}

	var rows []domain.RawRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read donor csv line %d: %w", line, err)
		}

		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// uniqueColumns trims header names and renames repeats to name.1, name.2, ...
// in order, so the export's second "City" column is read as "City.1".
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for i, h := range header {
		base := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		name := base
		for used[name] {
			next[base]++
			name = fmt.Sprintf("%s.%d", base, next[base])
		}
		used[name] = true
		columns[i] = name
	}
	return columns
}
