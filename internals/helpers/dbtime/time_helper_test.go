package dbtime

import (
	"testing"
	"time"
)

func TestDayIn(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 16:30 UTC is already the next day in Seoul
	got := DayIn(time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC), seoul)
	if want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("DayIn = %v, want %v", got, want)
	}
	got = DayIn(time.Date(2026, 3, 10, 14, 59, 0, 0, time.UTC), seoul)
	if want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("DayIn = %v, want %v", got, want)
	}
	if got := DayIn(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC), nil); got.Day() != 10 {
		t.Fatalf("nil location should be UTC, got %v", got)
	}
}

func TestLoadLocationFallback(t *testing.T) {
	if loc := LoadLocation("Not/AZone"); loc == nil {
		t.Fatal("nil location")
	}
}
