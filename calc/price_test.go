package calc

import (
	"math"
	"testing"
)

func TestAllInPrice(t *testing.T) {
	// 1.00 SEK/kWh spot, 0.55 tax, 0.25 grid fee, 25% VAT.
	got := AllInPrice(1.00, 25.0, 0.55, 0.25)
	if !almostEqual(got, 2.25) {
		t.Errorf("got all-in price %f, wanted 2.25", got)
	}
}

func TestAllInPriceZeroFees(t *testing.T) {
	if got := AllInPrice(1.5, 0, 0, 0); !almostEqual(got, 1.5) {
		t.Errorf("got all-in price %f, wanted 1.5", got)
	}
}

func TestAllInPriceNegativeSpot(t *testing.T) {
	// Negative spot prices happen; fees and VAT still apply to the sum.
	got := AllInPrice(-0.10, 25.0, 0.55, 0.25)
	if !almostEqual(got, 0.875) {
		t.Errorf("got all-in price %f, wanted 0.875", got)
	}
}

func TestAllInPriceMonotonicInFees(t *testing.T) {
	base := AllInPrice(1.0, 25.0, 0.5, 0.2)
	for _, step := range []float64{0.01, 0.1, 1.0} {
		if AllInPrice(1.0+step, 25.0, 0.5, 0.2) < base {
			t.Errorf("price not monotonic in base price at step %f", step)
		}
		if AllInPrice(1.0, 25.0+step, 0.5, 0.2) < base {
			t.Errorf("price not monotonic in VAT at step %f", step)
		}
		if AllInPrice(1.0, 25.0, 0.5+step, 0.2) < base {
			t.Errorf("price not monotonic in energy tax at step %f", step)
		}
		if AllInPrice(1.0, 25.0, 0.5, 0.2+step) < base {
			t.Errorf("price not monotonic in grid fee at step %f", step)
		}
	}
}

func almostEqual(f1 float64, f2 float64) bool {
	return math.Abs(f1-f2) < 1e-9
}
