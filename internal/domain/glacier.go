package domain

import (
	"errors"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrInvalidType marks a field whose value has the wrong type, e.g. a
	// number where a string is required.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidValue marks a field of the right type whose value is outside
	// its accepted domain.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError describes the first constraint a glacier record violated.
// Kind is ErrInvalidType or ErrInvalidValue, so callers can classify it with
// errors.Is.
type ValidationError struct {
	Field string
	Kind  error
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return e.Kind }

func typeError(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidType, Msg: msg}
}

func valueError(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidValue, Msg: msg}
}

// MeasurementKind distinguishes seasonal from full-year mass-balance values.
type MeasurementKind string

const (
	MeasurementPartial MeasurementKind = "partial"
	MeasurementTotal   MeasurementKind = "total"
)

// Measurement is one mass-balance value together with the year it was
// reported for.
type Measurement struct {
	Year  int             `json:"year"`
	Kind  MeasurementKind `json:"kind"`
	Value float64         `json:"value"`
}

// Glacier is a validated record for a single glacier.
type Glacier struct {
	GlacierID string
	Name      string
	Unit      string
	Lat       float64
	Lon       float64
	Code      int

	// MassBalance holds every merged measurement in ingestion order. It is
	// only ever appended to.
	MassBalance []float64

	history []Measurement
}

// NewGlacier validates its arguments and returns a Glacier with an empty
// mass-balance history. glacierID and unit are accepted as any so that values
// decoded from loosely typed sources are checked rather than coerced; both
// must be strings.
//
// Checks run in a fixed order and the first failure is returned.
func NewGlacier(glacierID any, name string, unit any, lat, lon float64, code int) (*Glacier, error) {
	id, ok := glacierID.(string)
	if !ok {
		return nil, typeError("glacier_id", "glacier id should be a string")
	}
	if utf8.RuneCountInString(id) != 5 {
		return nil, valueError("glacier_id", "The Glacier ID should be a five digit string")
	}

	u, ok := unit.(string)
	if !ok {
		return nil, typeError("unit", "unit should be a string")
	}
	if utf8.RuneCountInString(u) != 2 {
		return nil, valueError("unit", "The unit should be a two charachter string")
	}
	if !isUpper(u) {
		return nil, valueError("unit", "The unit should be in capital letters")
	}

	// Written as negated ranges so NaN is rejected too.
	if !(lat >= -90 && lat <= 90) {
		return nil, valueError("lat", "The latitude is not within the accepted range")
	}
	if !(lon >= -180 && lon <= 180) {
		return nil, valueError("lon", "The longitude is not within the accepted range")
	}

	return &Glacier{
		GlacierID:   id,
		Name:        name,
		Unit:        u,
		Lat:         lat,
		Lon:         lon,
		Code:        code,
		MassBalance: []float64{},
	}, nil
}

// isUpper reports whether s has at least one cased letter and no lowercase or
// titlecase letters. Digits and punctuation are allowed: "A1" passes, "12" does not.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// LatestMassBalance returns the most recent mass-balance value, or false when
// the glacier has no history.
func (g *Glacier) LatestMassBalance() (float64, bool) {
	if len(g.MassBalance) == 0 {
		return 0, false
	}
	return g.MassBalance[len(g.MassBalance)-1], true
}

// History returns the merged measurements with their year and kind, in the
// same order as MassBalance.
func (g *Glacier) History() []Measurement {
	out := make([]Measurement, len(g.history))
	copy(out, g.history)
	return out
}

func (g *Glacier) appendMeasurement(m Measurement) {
	g.MassBalance = append(g.MassBalance, m.Value)
	g.history = append(g.history, m)
}

// GlacierSnapshot is the serialized view of a glacier published downstream
// and returned by the HTTP API.
type GlacierSnapshot struct {
	GlacierID         string        `json:"glacier_id"`
	Name              string        `json:"name"`
	Unit              string        `json:"unit"`
	Lat               float64       `json:"lat"`
	Lon               float64       `json:"lon"`
	Code              int           `json:"code"`
	MassBalance       []float64     `json:"mass_balance"`
	History           []Measurement `json:"history,omitempty"`
	LatestMassBalance *float64      `json:"latest_mass_balance,omitempty"`
	LoadedAt          time.Time     `json:"loaded_at"`
}

// Snapshot copies the glacier into a GlacierSnapshot stamped with loadedAt.
func (g *Glacier) Snapshot(loadedAt time.Time) GlacierSnapshot {
	mb := make([]float64, len(g.MassBalance))
	copy(mb, g.MassBalance)

	s := GlacierSnapshot{
		GlacierID:   g.GlacierID,
		Name:        g.Name,
		Unit:        g.Unit,
		Lat:         g.Lat,
		Lon:         g.Lon,
		Code:        g.Code,
		MassBalance: mb,
		History:     g.History(),
		LoadedAt:    loadedAt,
	}
	if latest, ok := g.LatestMassBalance(); ok {
		s.LatestMassBalance = &latest
	}
	return s
}
