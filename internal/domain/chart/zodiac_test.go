package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		sign Sign
		deg  float64
	}{
		{name: "zero is aries", lon: 0, sign: Aries, deg: 0},
		{name: "boundary belongs to next sign", lon: 30, sign: Taurus, deg: 0},
		{name: "just below boundary", lon: 29.999999, sign: Aries, deg: 29.999999},
		{name: "last sign", lon: 359.5, sign: Pisces, deg: 29.5},
		{name: "full turn wraps", lon: 360, sign: Aries, deg: 0},
		{name: "negative input", lon: -10, sign: Pisces, deg: 20},
		{name: "large negative input", lon: -725.25, sign: Pisces, deg: 24.75},
		{name: "above one turn", lon: 400.5, sign: Taurus, deg: 10.5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sign, deg := Classify(tt.lon)
			require.Equal(t, tt.sign, sign)
			require.InDelta(t, tt.deg, deg, 1e-9)
		})
	}
}

func TestClassifyPeriodicity(t *testing.T) {
	for lon := -720.0; lon <= 720; lon += 0.25 {
		sign, deg := Classify(lon)
		for k := -3; k <= 3; k++ {
			s, d := Classify(lon + 360*float64(k))
			require.Equal(t, sign, s, "lon=%v k=%d", lon, k)
			require.Equal(t, deg, d, "lon=%v k=%d", lon, k)
		}
	}
}

func TestClassifyDegreeRange(t *testing.T) {
	for lon := -1000.0; lon <= 1000; lon += 0.125 {
		_, deg := Classify(lon)
		require.GreaterOrEqual(t, deg, 0.0)
		require.Less(t, deg, 30.0)
		isMultipleOf30 := NormalizeLongitude(lon) == float64(SignIndex(lon))*30
		require.Equal(t, isMultipleOf30, deg == 0, "lon=%v", lon)
	}
}

func TestNormalizeLongitudeTinyNegative(t *testing.T) {
	n := NormalizeLongitude(-1e-15)
	require.GreaterOrEqual(t, n, 0.0)
	require.Less(t, n, 360.0)
	require.Equal(t, 11, SignIndex(-1e-9))
}

func TestRoundTo(t *testing.T) {
	require.Equal(t, 12.35, RoundTo(12.345678, 2))
	require.Equal(t, 280.368921, RoundTo(280.3689214, 6))
	require.Equal(t, 30.0, RoundTo(29.999999, 2))
}
