package chart

import (
	"testing"
	"time"
)

func TestDecimate(t *testing.T) {
	tests := []struct {
		name          string
		raw           []float64
		expectedDates []int64
	}{
		{
			name:          "Empty",
			raw:           nil,
			expectedDates: []int64{},
		},
		{
			name:          "SingleTriple",
			raw:           []float64{100, 5, 900},
			expectedDates: []int64{100},
		},
		{
			name:          "FourTriplesKeepsFirstAndFourth",
			raw:           []float64{100, 5, 900, 101, 6, 910, 102, 7, 920, 103, 8, 930},
			expectedDates: []int64{100, 103},
		},
		{
			name:          "SevenTriples",
			raw:           []float64{1, 0, 0, 2, 0, 0, 3, 0, 0, 4, 0, 0, 5, 0, 0, 6, 0, 0, 7, 0, 0},
			expectedDates: []int64{1, 4, 7},
		},
		{
			name:          "TrailingPartialTripleIgnored",
			raw:           []float64{100, 5, 900, 101, 6},
			expectedDates: []int64{100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := Decimate(tt.raw)

			if len(samples) != len(tt.expectedDates) {
				t.Fatalf("Expected %d samples, got %d", len(tt.expectedDates), len(samples))
			}
			for i, sample := range samples {
				if sample.Date.UnixMilli() != tt.expectedDates[i] {
					t.Errorf("Sample %d: expected date %d, got %d", i, tt.expectedDates[i], sample.Date.UnixMilli())
				}
			}
		})
	}
}

func TestDecimateFields(t *testing.T) {
	samples := Decimate([]float64{100, 5, 900, 101, 6, 910, 102, 7, 920, 103, 8, 930})

	last := samples[1]
	if !last.Date.Equal(time.UnixMilli(103)) {
		t.Errorf("Expected date 103ms, got %v", last.Date)
	}
	if last.NumPlayersTracked != 8 {
		t.Errorf("Expected 8 players tracked, got %d", last.NumPlayersTracked)
	}
	if last.Balance != 930 {
		t.Errorf("Expected balance 930, got %f", last.Balance)
	}
}
