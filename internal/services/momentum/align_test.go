package momentum

import (
	"errors"
	"testing"
	"time"

	"MomentumLab/internal/domain/models"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func days(ns ...int) []time.Time {
	out := make([]time.Time, len(ns))
	for i, n := range ns {
		out[i] = day(n)
	}
	return out
}

func TestAlignUnionAxisWithGaps(t *testing.T) {
	frame, err := Align([]models.PriceSeries{
		{Symbol: "A", Dates: days(0, 1, 2), Closes: []float64{10, 11, 12}},
		{Symbol: "B", Dates: days(0, 2, 3), Closes: []float64{20, 22, 23}},
	})
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if len(frame.Dates) != 4 {
		t.Fatalf("expected union of 4 dates, got %d", len(frame.Dates))
	}
	for i := 1; i < len(frame.Dates); i++ {
		if !frame.Dates[i-1].Before(frame.Dates[i]) {
			t.Fatalf("dates not ascending at %d", i)
		}
	}
	// A missed day 3, B missed day 1; neither slot is filled in.
	if frame.Prices["A"][3].Defined {
		t.Fatalf("A should be absent on day 3")
	}
	if frame.Prices["B"][1].Defined {
		t.Fatalf("B should be absent on day 1")
	}
	if got := frame.Prices["B"][2].Value; got != 22 {
		t.Fatalf("B day 2 = %v, want 22", got)
	}
}

func TestAlignInsufficientOverlap(t *testing.T) {
	_, err := Align([]models.PriceSeries{
		{Symbol: "A", Dates: days(0, 1), Closes: []float64{10, 11}},
		{Symbol: "B", Dates: days(1, 2), Closes: []float64{20, 21}},
	})
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AlignmentError, got %v", err)
	}
	if ae.Overlap != 1 {
		t.Fatalf("overlap = %d, want 1", ae.Overlap)
	}
}

func TestAlignRejectsDuplicateSymbol(t *testing.T) {
	_, err := Align([]models.PriceSeries{
		{Symbol: "A", Dates: days(0, 1), Closes: []float64{1, 2}},
		{Symbol: "A", Dates: days(0, 1), Closes: []float64{3, 4}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestAlignRejectsEmptyInput(t *testing.T) {
	if _, err := Align(nil); err == nil {
		t.Fatalf("expected error")
	}
}
