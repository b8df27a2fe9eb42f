package contracts

import (
	"testing"
	"time"
)

func TestMonthsToWindow(t *testing.T) {
	tests := []struct {
		months int
		want   int
	}{
		{0, 0},
		{1, 21},
		{3, 63},
		{6, 126},
		{12, 252},
	}

	for _, tt := range tests {
		if got := MonthsToWindow(tt.months); got != tt.want {
			t.Errorf("MonthsToWindow(%d) = %d, want %d", tt.months, got, tt.want)
		}
	}
}

func TestNormalizeBars(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	bars := []Bar{
		{Date: day(3), Close: 3},
		{Date: day(1), Close: 1},
		{Date: time.Date(2025, 6, 1, 21, 0, 0, 0, saoPaulo), Close: 20}, // 2025-06-02 00:00 UTC
		{Date: day(3), Close: 30},
	}

	got := NormalizeBars(bars)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantCloses := []float64{1, 20, 30}
	for i, b := range got {
		if b.Close != wantCloses[i] {
			t.Errorf("bar %d close = %v, want %v", i, b.Close, wantCloses[i])
		}
		if b.Date.Location() != time.UTC {
			t.Errorf("bar %d location = %v, want UTC", i, b.Date.Location())
		}
	}
	if !got[1].Date.Equal(day(2)) {
		t.Errorf("converted date = %v, want %v", got[1].Date, day(2))
	}

	// input untouched
	if bars[0].Close != 3 {
		t.Error("NormalizeBars mutated its input")
	}
}

func TestNormalizeBars_Empty(t *testing.T) {
	got := NormalizeBars(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("NormalizeBars(nil) = %v, want empty slice", got)
	}
}

func TestHistoryRecord_Accessors(t *testing.T) {
	rec := NewHistoryRecord("PETR4", "PETR4.SA", []Bar{
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10},
		{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Close: 11},
	})

	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rec.Len())
	}
	last, ok := rec.Last()
	if !ok || last.Close != 11 {
		t.Errorf("Last() = %v, %v", last, ok)
	}
	closes := rec.Closes()
	if len(closes) != 2 || closes[0] != 10 || closes[1] != 11 {
		t.Errorf("Closes() = %v", closes)
	}

	empty := HistoryRecord{}
	if _, ok := empty.Last(); ok {
		t.Error("Last() on empty record should report false")
	}
}
