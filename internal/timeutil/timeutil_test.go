package timeutil

import (
	"testing"
	"time"
)

func TestDayKeyRoundtrip(t *testing.T) {
	day := time.Date(2024, 3, 1, 18, 45, 12, 0, time.Local)

	key := DayKey(day)
	if key != "20240301" {
		t.Fatalf("expected key 20240301, got %q", key)
	}

	parsed, err := ParseDayKey(key)
	if err != nil {
		t.Fatal(err)
	}

	if !parsed.Equal(RoundToStart(day)) {
		t.Errorf("expected %v, got %v", RoundToStart(day), parsed)
	}
}

func TestParseDayKeyRejectsBadInput(t *testing.T) {
	for _, key := range []string{"", "2024030", "202403012", "2024-3-1", "notaday8"} {
		_, err := ParseDayKey(key)
		if err == nil {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}

func TestCeilMinutes(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{time.Second, 1},
		{time.Minute, 1},
		{time.Minute + time.Second, 2},
		{-time.Second, 1},
		{-3*time.Minute - time.Second, 4},
	}

	for _, tc := range cases {
		if got := CeilMinutes(tc.in); got != tc.want {
			t.Errorf("CeilMinutes(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestCeilHours(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{time.Minute, 1},
		{time.Hour, 1},
		{time.Hour + time.Minute, 2},
		{90 * time.Minute, 2},
		{3 * time.Hour, 3},
	}

	for _, tc := range cases {
		if got := CeilHours(tc.in); got != tc.want {
			t.Errorf("CeilHours(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
