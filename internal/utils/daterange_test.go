package utils

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestToLocalDateStringUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 1st is already the 2nd in India.
	instant := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	if got := ToLocalDateString(instant, ist); got != "2024-05-02" {
		t.Fatalf("ToLocalDateString = %s, want 2024-05-02", got)
	}
	if got := ToLocalDateString(instant, time.UTC); got != "2024-05-01" {
		t.Fatalf("ToLocalDateString(UTC) = %s, want 2024-05-01", got)
	}
	if got := ToLocalMonthString(time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC), ist); got != "2024-06" {
		t.Fatalf("ToLocalMonthString = %s, want 2024-06", got)
	}
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2024-02-29", 1, "2024-03-01"},
		{"2024-01-01", -1, "2023-12-31"},
		{"2024-03-31", -30, "2024-03-01"},
		{"2024-10-27", 0, "2024-10-27"},
	}
	for _, tc := range cases {
		got, err := AddDays(tc.in, tc.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) error: %v", tc.in, tc.n, err)
		}
		if got != tc.want {
			t.Fatalf("AddDays(%s, %d) = %s, want %s", tc.in, tc.n, got, tc.want)
		}
	}
	if _, err := AddDays("2024/01/01", 1); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDaysIsInclusiveAscendingAndRestartable(t *testing.T) {
	seq, err := Days("2024-02-27", "2024-03-02")
	if err != nil {
		t.Fatalf("Days error: %v", err)
	}
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if got := slices.Collect(seq); !slices.Equal(got, want) {
		t.Fatalf("first pass = %v, want %v", got, want)
	}
	if got := slices.Collect(seq); !slices.Equal(got, want) {
		t.Fatalf("second pass = %v, want %v", got, want)
	}
	n, err := DaysInclusive("2024-02-27", "2024-03-02")
	if err != nil || n != len(want) {
		t.Fatalf("DaysInclusive = %d, %v; want %d", n, err, len(want))
	}
}

func TestDaysSingleDayAndEarlyStop(t *testing.T) {
	seq, err := Days("2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("Days error: %v", err)
	}
	if got := slices.Collect(seq); len(got) != 1 || got[0] != "2024-05-01" {
		t.Fatalf("single day = %v", got)
	}
	seq, _ = Days("2024-05-01", "2024-05-31")
	count := 0
	for range seq {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("early stop count = %d", count)
	}
}

func TestDaysRejectsReversedRange(t *testing.T) {
	if _, err := Days("2024-05-03", "2024-05-01"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if err := ValidateRange("2024-05-01", "nope"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTrailingWindow(t *testing.T) {
	start, end, err := TrailingWindow("2024-05-07", 7)
	if err != nil {
		t.Fatalf("TrailingWindow error: %v", err)
	}
	if start != "2024-05-01" || end != "2024-05-07" {
		t.Fatalf("TrailingWindow = %s..%s", start, end)
	}
	start, _, _ = TrailingWindow("2024-05-07", 0)
	if start != "2024-05-07" {
		t.Fatalf("TrailingWindow(n=0) start = %s", start)
	}
}

func TestMonthBounds(t *testing.T) {
	cases := map[string][2]string{
		"2024-02": {"2024-02-01", "2024-02-29"},
		"2023-02": {"2023-02-01", "2023-02-28"},
		"2024-12": {"2024-12-01", "2024-12-31"},
		"2024-06": {"2024-06-01", "2024-06-30"},
	}
	for month, want := range cases {
		s, e, err := MonthBounds(month)
		if err != nil {
			t.Fatalf("MonthBounds(%s) error: %v", month, err)
		}
		if s != want[0] || e != want[1] {
			t.Fatalf("MonthBounds(%s) = %s..%s, want %s..%s", month, s, e, want[0], want[1])
		}
	}
	if _, _, err := MonthBounds("2024-13"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
