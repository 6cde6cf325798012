package sim

import (
	"testing"
	"time"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock(0.01, 0)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{5 * time.Millisecond, 0},
		{5 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{10 * time.Millisecond, 1},
		{0, 0},
		{-time.Second, 0},
	}

	for i, tt := range tests {
		if got := c.Advance(tt.elapsed); got != tt.want {
			t.Errorf("advance %d (%v): got %d steps, want %d", i, tt.elapsed, got, tt.want)
		}
	}
}

func TestClockCarriesRemainder(t *testing.T) {
	c := NewClock(1.0/120.0, 0)
	total := 0
	for i := 0; i < 60; i++ {
		total += c.Advance(time.Second / 60)
	}
	if total < 119 || total > 120 {
		t.Errorf("expected ~120 steps over one second, got %d", total)
	}
	if a := c.Alpha(); a < 0 || a >= 1 {
		t.Errorf("alpha out of range: %g", a)
	}
}

func TestClockMaxSteps(t *testing.T) {
	c := NewClock(0.01, 4)
	if got := c.Advance(time.Second); got != 4 {
		t.Errorf("expected capped 4 steps, got %d", got)
	}
	if got := c.Advance(0); got != 0 {
		t.Errorf("excess time should be dropped, got %d more steps", got)
	}
}

func TestClockReset(t *testing.T) {
	c := NewClock(0.01, 0)
	c.Advance(5 * time.Millisecond)
	c.Reset()
	if c.Alpha() != 0 {
		t.Error("expected empty accumulator after reset")
	}
	if c.Dt() != 0.01 {
		t.Error("unexpected dt")
	}
}

func TestClockZeroDt(t *testing.T) {
	c := NewClock(0, 0)
	if c.Advance(time.Second) != 0 || c.Alpha() != 0 {
		t.Error("zero dt clock must never report steps")
	}
}
