package mathutil

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"Exact", 10.00, 10.00},
		{"Round down", 10.004, 10.00},
		{"Round up", 10.005, 10.01},
		{"One percent of 1000", 1000 * 0.01, 10.00},
		{"Repeating fraction", 10.0 / 3.0, 3.33},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.in); got != tt.expected {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestImplied(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
		delta    float64
	}{
		{"Evens", 2.0, 0.5, 0.0001},
		{"Short price", 1.5, 0.6667, 0.0001},
		{"Long price", 10.0, 0.1, 0.0001},
		{"Unavailable", 0, 0, 0.0001},
		{"Negative guards to zero", -1.5, 0, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Implied(tt.price)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("Implied(%v) = %v, want %v", tt.price, got, tt.expected)
			}
		})
	}
}

// Converting a lay price to its back equivalent and back again must return
// the original price for any price > 1.
func TestBackEquivalentSelfInverse(t *testing.T) {
	prices := []float64{1.01, 1.5, 2.0, 3.75, 10.0, 100.0}

	for _, p := range prices {
		roundTrip := BackEquivalent(BackEquivalent(p))
		if math.Abs(roundTrip-p) > 1e-9 {
			t.Errorf("BackEquivalent(BackEquivalent(%v)) = %v, want %v", p, roundTrip, p)
		}
	}
}

func TestBackEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		lay      float64
		expected float64
		delta    float64
	}{
		{"Evens maps to itself", 2.0, 2.0, 0.0001},
		{"Short lay", 1.5, 3.0, 0.0001},
		{"Long lay", 5.0, 1.25, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BackEquivalent(tt.lay)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("BackEquivalent(%v) = %v, want %v", tt.lay, got, tt.expected)
			}
		})
	}
}
