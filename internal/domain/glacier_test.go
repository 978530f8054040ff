package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGlacierID = "04392"
	testName      = "AGUA NEGRA"
	testUnit      = "AR"
	testCode      = 638
)

func TestNewGlacier_StoresFields(t *testing.T) {
	g, err := NewGlacier("17363", "Any name", "FG", 30, 39.87, testCode)
	require.NoError(t, err)

	assert.Equal(t, "17363", g.GlacierID)
	assert.Equal(t, "Any name", g.Name)
	assert.Equal(t, "FG", g.Unit)
	assert.Equal(t, 30.0, g.Lat)
	assert.Equal(t, 39.87, g.Lon)
	assert.Equal(t, testCode, g.Code)
	assert.NotNil(t, g.MassBalance)
	assert.Empty(t, g.MassBalance)
	assert.Empty(t, g.History())
}

func TestNewGlacier_UnitAllowsDigitWithCapital(t *testing.T) {
	for _, unit := range []string{"A1", "1A", "FG", "ÅÄ"} {
		g, err := NewGlacier(testGlacierID, testName, unit, 30, -63, testCode)
		require.NoError(t, err, unit)
		assert.Equal(t, unit, g.Unit)
	}
}

func TestNewGlacier_AcceptsRangeBounds(t *testing.T) {
	for _, c := range []struct{ lat, lon float64 }{
		{-90, -180}, {90, 180}, {0, 0},
	} {
		_, err := NewGlacier(testGlacierID, testName, testUnit, c.lat, c.lon, testCode)
		assert.NoError(t, err, "lat=%v lon=%v", c.lat, c.lon)
	}
}

func TestNewGlacier_Validation(t *testing.T) {
	tests := []struct {
		name      string
		glacierID any
		unit      any
		lat       float64
		lon       float64
		kind      error
		field     string
		msg       string
	}{
		{"numeric id", 54392, testUnit, 30, -63, ErrInvalidType, "glacier_id", "glacier id should be a string"},
		{"numeric id checked before unit", 54392, 18, 30, -63, ErrInvalidType, "glacier_id", "glacier id should be a string"},
		{"float id from JSON", float64(4392), testUnit, 30, -63, ErrInvalidType, "glacier_id", "glacier id should be a string"},
		{"short id", "0432", testUnit, 30, -69.8094, ErrInvalidValue, "glacier_id", "The Glacier ID should be a five digit string"},
		{"long id", "043921", testUnit, 30, -69.8094, ErrInvalidValue, "glacier_id", "The Glacier ID should be a five digit string"},
		{"short id checked before bad unit", "0432", 18, 300, -63, ErrInvalidValue, "glacier_id", "The Glacier ID should be a five digit string"},
		{"numeric unit", testGlacierID, 18, 30, -63, ErrInvalidType, "unit", "unit should be a string"},
		{"long unit", testGlacierID, "ARE", 30, -63, ErrInvalidValue, "unit", "The unit should be a two charachter string"},
		{"lowercase unit", testGlacierID, "ar", 30, -63, ErrInvalidValue, "unit", "The unit should be in capital letters"},
		{"mixed case unit", testGlacierID, "Ar", 30, -63, ErrInvalidValue, "unit", "The unit should be in capital letters"},
		{"digit unit", testGlacierID, "12", 30, -63, ErrInvalidValue, "unit", "The unit should be in capital letters"},
		{"digit with lowercase unit", testGlacierID, "1a", 30, -63, ErrInvalidValue, "unit", "The unit should be in capital letters"},
		{"latitude too high", testGlacierID, testUnit, 300, -69.8094, ErrInvalidValue, "lat", "The latitude is not within the accepted range"},
		{"latitude too low", testGlacierID, testUnit, -90.01, 0, ErrInvalidValue, "lat", "The latitude is not within the accepted range"},
		{"latitude NaN", testGlacierID, testUnit, math.NaN(), 0, ErrInvalidValue, "lat", "The latitude is not within the accepted range"},
		{"latitude checked before longitude", testGlacierID, testUnit, 300, -639.8094, ErrInvalidValue, "lat", "The latitude is not within the accepted range"},
		{"longitude too low", testGlacierID, testUnit, 30, -639.8094, ErrInvalidValue, "lon", "The longitude is not within the accepted range"},
		{"longitude too high", testGlacierID, testUnit, 30, 180.5, ErrInvalidValue, "lon", "The longitude is not within the accepted range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGlacier(tt.glacierID, testName, tt.unit, tt.lat, tt.lon, testCode)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Equal(t, tt.msg, err.Error())
			assert.ErrorIs(t, err, tt.kind)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGlacier_LatestMassBalance(t *testing.T) {
	g, err := NewGlacier(testGlacierID, testName, testUnit, 30, -63, testCode)
	require.NoError(t, err)

	_, ok := g.LatestMassBalance()
	assert.False(t, ok)

	g.appendMeasurement(Measurement{Year: 2018, Kind: MeasurementPartial, Value: -793})
	g.appendMeasurement(Measurement{Year: 2018, Kind: MeasurementTotal, Value: -418})

	latest, ok := g.LatestMassBalance()
	assert.True(t, ok)
	assert.Equal(t, -418.0, latest)
	assert.Equal(t, []float64{-793, -418}, g.MassBalance)
	assert.Equal(t, []Measurement{
		{Year: 2018, Kind: MeasurementPartial, Value: -793},
		{Year: 2018, Kind: MeasurementTotal, Value: -418},
	}, g.History())
}

func TestGlacier_Snapshot(t *testing.T) {
	loadedAt := time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)
	g, err := NewGlacier(testGlacierID, testName, testUnit, 30, -63, testCode)
	require.NoError(t, err)

	s := g.Snapshot(loadedAt)
	assert.Nil(t, s.LatestMassBalance)
	assert.Empty(t, s.MassBalance)
	assert.Equal(t, loadedAt, s.LoadedAt)

	g.appendMeasurement(Measurement{Year: 2019, Kind: MeasurementTotal, Value: 332})
	s = g.Snapshot(loadedAt)
	require.NotNil(t, s.LatestMassBalance)
	assert.Equal(t, 332.0, *s.LatestMassBalance)
	assert.Equal(t, testGlacierID, s.GlacierID)
	assert.Equal(t, testCode, s.Code)

	// The snapshot owns its slices.
	s.MassBalance[0] = 0
	assert.Equal(t, []float64{332}, g.MassBalance)
}
