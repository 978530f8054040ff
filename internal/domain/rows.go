package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Column names of the WGMS sheets consumed by the collection.
const (
	ColumnGlacierID     = "WGMS_ID"
	ColumnName          = "NAME"
	ColumnPoliticalUnit = "POLITICAL_UNIT"
	ColumnLatitude      = "LATITUDE"
	ColumnLongitude     = "LONGITUDE"
	ColumnPrimClassific = "PRIM_CLASSIFIC"
	ColumnForm          = "FORM"
	ColumnFrontalChars  = "FRONTAL_CHARS"

	ColumnYear          = "YEAR"
	ColumnWinterBalance = "WINTER_BALANCE"
	ColumnAnnualBalance = "ANNUAL_BALANCE"
)

// ErrMissingColumn is returned when a row lacks a column the parser needs.
var ErrMissingColumn = errors.New("missing column")

// Row is one line of a table, keyed by header column name.
type Row map[string]string

// TableReader yields the rows of a delimited table. It is the collaborator
// that hides how tables are stored.
type TableReader interface {
	ReadTable(ctx context.Context, path string) ([]Row, error)
}

func (r Row) field(column string) (string, error) {
	v, ok := r[column]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	return strings.TrimSpace(v), nil
}

// parseGlacierRow converts a sheet A row into a validated Glacier.
func parseGlacierRow(row Row) (*Glacier, error) {
	rawID, err := row.field(ColumnGlacierID)
	if err != nil {
		return nil, err
	}
	name, err := row.field(ColumnName)
	if err != nil {
		return nil, err
	}
	unit, err := row.field(ColumnPoliticalUnit)
	if err != nil {
		return nil, err
	}
	lat, err := parseFloatColumn(row, ColumnLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloatColumn(row, ColumnLongitude)
	if err != nil {
		return nil, err
	}
	code, err := parseCode(row)
	if err != nil {
		return nil, err
	}

	return NewGlacier(normalizeGlacierID(rawID), name, unit, lat, lon, code)
}

// normalizeGlacierID zero-pads numeric identifiers to five characters:
// "4392" → "04392". Anything else is returned unchanged and left to validation.
func normalizeGlacierID(raw string) string {
	if raw == "" || len(raw) >= 5 {
		return raw
	}
	if _, err := strconv.ParseUint(raw, 10, 32); err != nil {
		return raw
	}
	return strings.Repeat("0", 5-len(raw)) + raw
}

// parseCode joins the single digits of PRIM_CLASSIFIC, FORM and FRONTAL_CHARS
// into one code: 6, 3, 8 gives 638 and 0, 3, 8 gives 38.
func parseCode(row Row) (int, error) {
	code := 0
	for _, column := range []string{ColumnPrimClassific, ColumnForm, ColumnFrontalChars} {
		v, err := row.field(column)
		if err != nil {
			return 0, err
		}
		if len(v) != 1 || v[0] < '0' || v[0] > '9' {
			return 0, fmt.Errorf("parse classification code: %s %q is not a single digit", column, v)
		}
		code = code*10 + int(v[0]-'0')
	}
	return code, nil
}

func parseFloatColumn(row Row, column string) (float64, error) {
	s, err := row.field(column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", column, s, err)
	}
	return v, nil
}

// massBalanceRow is a parsed sheet EE row. Nil values were empty in the source.
type massBalanceRow struct {
	GlacierID string
	Year      int
	Partial   *float64
	Total     *float64
}

func parseMassBalanceRow(row Row) (massBalanceRow, error) {
	rawID, err := row.field(ColumnGlacierID)
	if err != nil {
		return massBalanceRow{}, err
	}
	yearStr, err := row.field(ColumnYear)
	if err != nil {
		return massBalanceRow{}, err
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return massBalanceRow{}, fmt.Errorf("parse %s %q: %w", ColumnYear, yearStr, err)
	}
	partial, err := parseOptionalFloat(row, ColumnWinterBalance)
	if err != nil {
		return massBalanceRow{}, err
	}
	total, err := parseOptionalFloat(row, ColumnAnnualBalance)
	if err != nil {
		return massBalanceRow{}, err
	}

	return massBalanceRow{
		GlacierID: normalizeGlacierID(rawID),
		Year:      year,
		Partial:   partial,
		Total:     total,
	}, nil
}

// parseOptionalFloat returns nil for an empty or absent cell.
func parseOptionalFloat(row Row, column string) (*float64, error) {
	s := strings.TrimSpace(row[column])
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", column, s, err)
	}
	return &v, nil
}
