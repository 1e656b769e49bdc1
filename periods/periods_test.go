package periods

import (
	"testing"
	"time"
)

func TestDayLabel(t *testing.T) {
	// 22:30 UTC is 00:30 the next day in Stockholm (CEST).
	ts := time.Date(2026, 6, 1, 22, 30, 0, 0, time.UTC)
	if got := DayLabel(ts); got != "2026-06-02" {
		t.Errorf("got day label %s, wanted 2026-06-02", got)
	}

	// In winter (CET, UTC+1) the boundary moves to 23:00 UTC.
	ts = time.Date(2026, 1, 1, 22, 30, 0, 0, time.UTC)
	if got := DayLabel(ts); got != "2026-01-01" {
		t.Errorf("got day label %s, wanted 2026-01-01", got)
	}
}

func TestHourOf(t *testing.T) {
	ts := time.Date(2026, 6, 1, 12, 45, 0, 0, time.UTC)
	if got := HourOf(ts); got != 14 {
		t.Errorf("got hour %d, wanted 14 (CEST)", got)
	}
}

func TestEnd(t *testing.T) {
	ts := time.Date(2026, 6, 1, 12, 45, 0, 0, time.UTC)
	want := time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC)
	if got := End(ts); !got.Equal(want) {
		t.Errorf("got end %v, wanted %v", got, want)
	}
}

func TestCount(t *testing.T) {
	cases := map[int]int{15: 1, 60: 4, 90: 6, 2880: 192}
	for minutes, want := range cases {
		if got := Count(minutes); got != want {
			t.Errorf("got %d periods for %d minutes, wanted %d", got, minutes, want)
		}
	}
}
