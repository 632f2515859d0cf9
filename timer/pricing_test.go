package timer

import (
	"testing"
	"time"
)

func TestSessionPrice(t *testing.T) {
	table := []struct {
		duration time.Duration
		rate     int
		want     int
	}{
		{30 * time.Minute, 100, 100},
		{time.Hour, 100, 100},
		{90 * time.Minute, 100, 200},
		{2 * time.Hour, 150, 300},
		{121 * time.Minute, 150, 450},
	}

	for _, v := range table {
		got := sessionPrice(v.duration, v.rate)

		if got != v.want {
			t.Errorf(
				"sessionPrice(%s, %d): expected %d, but got: %d",
				v.duration,
				v.rate,
				v.want,
				got,
			)
		}
	}
}

func TestExtensionPrice(t *testing.T) {
	table := []struct {
		minutes int
		rate    int
		want    int
	}{
		{15, 100, 100},
		{30, 100, 100},
		{60, 100, 100},
		{61, 100, 200},
		{90, 150, 300},
	}

	for _, v := range table {
		got := extensionPrice(v.minutes, v.rate)

		if got != v.want {
			t.Errorf(
				"extensionPrice(%d, %d): expected %d, but got: %d",
				v.minutes,
				v.rate,
				v.want,
				got,
			)
		}
	}
}
