package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-03-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if _, ok := ParseDay("15/03/2024"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestDayTruncates(t *testing.T) {
	in := time.Date(2024, 3, 15, 21, 45, 3, 0, time.FixedZone("X", 3600))
	got := Day(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("not truncated to UTC midnight: %v", got)
	}
}

func TestAlignDayRangeDefaultsToToday(t *testing.T) {
	from := time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)
	gotFrom, gotTo := AlignDayRange(from, time.Time{})
	if !gotFrom.Equal(Day(from)) {
		t.Fatalf("from not aligned: %v", gotFrom)
	}
	if !gotTo.Equal(Day(time.Now())) {
		t.Fatalf("to should default to today: %v", gotTo)
	}
}
