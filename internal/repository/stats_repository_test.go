package repository

import (
	"testing"
	"time"
)

func TestDayStart(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, 8, 28, 17, 45, 12, 999, time.Local)
	got := dayStart(in)

	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("dayStart(%v) = %v, want %v", in, got, want)
	}
	if got.Location() != in.Location() {
		t.Fatalf("day boundary must stay in local time, got %v", got.Location())
	}

	// Already at midnight stays put.
	if again := dayStart(got); !again.Equal(got) {
		t.Fatalf("dayStart not idempotent: %v -> %v", got, again)
	}
}
