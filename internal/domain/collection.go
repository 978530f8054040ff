package domain

import (
	"context"
	"fmt"
	"time"
)

// GlacierCollection owns an ordered set of glaciers built from a primary
// table and enriched with mass-balance tables.
//
// A collection is not safe for concurrent mutation. Readers that share one
// across goroutines must stop calling ReadMassBalanceData first.
type GlacierCollection struct {
	glaciers  []*Glacier
	names     []string
	reader    TableReader
	updatedAt time.Time
}

// MergeResult summarizes one ReadMassBalanceData call.
type MergeResult struct {
	Rows         int // rows read from the table
	Matched      int // rows whose glacier id is in the collection
	Unmatched    int // rows skipped because no glacier has their id
	Measurements int // values appended across all glaciers
}

// NewCollection builds a collection from already validated glaciers, in order.
func NewCollection(glaciers ...*Glacier) *GlacierCollection {
	c := &GlacierCollection{
		glaciers:  make([]*Glacier, 0, len(glaciers)),
		names:     make([]string, 0, len(glaciers)),
		updatedAt: clock.Now(),
	}
	for _, g := range glaciers {
		c.glaciers = append(c.glaciers, g)
		c.names = append(c.names, g.Name)
	}
	return c
}

// NewGlacierCollection reads the primary table at path and builds one Glacier
// per row, in file order. The first row that fails to parse or validate aborts
// the call and no collection is returned.
func NewGlacierCollection(ctx context.Context, reader TableReader, path string) (*GlacierCollection, error) {
	rows, err := reader.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}

	glaciers := make([]*Glacier, 0, len(rows))
	for i, row := range rows {
		g, err := parseGlacierRow(row)
		if err != nil {
			return nil, fmt.Errorf("glacier table %s row %d: %w", path, i+1, err)
		}
		glaciers = append(glaciers, g)
	}

	c := NewCollection(glaciers...)
	c.reader = reader
	return c, nil
}

// ReadMassBalanceData reads the mass-balance table at path and appends each
// row's measurements to the glacier with the same id: partial first, then
// total, rows in file order. Rows for unknown glaciers are skipped.
//
// Every row is parsed before any is applied, so a malformed row leaves the
// collection untouched. Repeated calls keep appending.
func (c *GlacierCollection) ReadMassBalanceData(ctx context.Context, path string) (MergeResult, error) {
	if c.reader == nil {
		return MergeResult{}, fmt.Errorf("read mass balance %s: collection has no table reader", path)
	}
	rows, err := c.reader.ReadTable(ctx, path)
	if err != nil {
		return MergeResult{}, err
	}

	parsed := make([]massBalanceRow, 0, len(rows))
	for i, row := range rows {
		mb, err := parseMassBalanceRow(row)
		if err != nil {
			return MergeResult{}, fmt.Errorf("mass balance table %s row %d: %w", path, i+1, err)
		}
		parsed = append(parsed, mb)
	}

	return c.merge(parsed), nil
}

func (c *GlacierCollection) merge(rows []massBalanceRow) MergeResult {
	index := make(map[string]*Glacier, len(c.glaciers))
	for _, g := range c.glaciers {
		// First occurrence wins when the primary table repeats an id.
		if _, ok := index[g.GlacierID]; !ok {
			index[g.GlacierID] = g
		}
	}

	res := MergeResult{Rows: len(rows)}
	for _, row := range rows {
		g, ok := index[row.GlacierID]
		if !ok {
			res.Unmatched++
			continue
		}
		res.Matched++
		if row.Partial != nil {
			g.appendMeasurement(Measurement{Year: row.Year, Kind: MeasurementPartial, Value: *row.Partial})
			res.Measurements++
		}
		if row.Total != nil {
			g.appendMeasurement(Measurement{Year: row.Year, Kind: MeasurementTotal, Value: *row.Total})
			res.Measurements++
		}
	}
	c.updatedAt = clock.Now()
	return res
}

// Glaciers returns the glaciers in primary-table order.
func (c *GlacierCollection) Glaciers() []*Glacier {
	out := make([]*Glacier, len(c.glaciers))
	copy(out, c.glaciers)
	return out
}

// Names returns the glacier names, parallel to Glaciers.
func (c *GlacierCollection) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of glaciers.
func (c *GlacierCollection) Len() int { return len(c.glaciers) }

// UpdatedAt reports when the collection was built or last merged.
func (c *GlacierCollection) UpdatedAt() time.Time { return c.updatedAt }

// Snapshots returns a snapshot of every glacier stamped with UpdatedAt.
func (c *GlacierCollection) Snapshots() []GlacierSnapshot {
	out := make([]GlacierSnapshot, len(c.glaciers))
	for i, g := range c.glaciers {
		out[i] = g.Snapshot(c.updatedAt)
	}
	return out
}
