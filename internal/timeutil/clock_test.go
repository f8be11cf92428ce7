package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	now := c.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("RealClock.Now() = %v, outside [%v, %v]", now, before, after)
	}
}

func TestMockClockSetAndAdvance(t *testing.T) {
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	if got := c.Now(); !got.Equal(base) {
		t.Fatalf("Now() = %v, want %v", got, base)
	}

	c.Advance(90 * time.Minute)
	if got := c.Now(); !got.Equal(base.Add(90 * time.Minute)) {
		t.Errorf("after Advance, Now() = %v", got)
	}

	later := base.Add(24 * time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", got, later)
	}
}

func TestMockClockSince(t *testing.T) {
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	earlier := base.Add(-2 * time.Hour)
	if got := c.Since(earlier); got != 2*time.Hour {
		t.Errorf("Since = %v, want 2h", got)
	}
}

func TestMockTickerFiresOnAdvance(t *testing.T) {
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	ticker := c.NewTicker(10 * time.Second)
	defer ticker.Stop()

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before interval elapsed")
	default:
	}

	c.Advance(10 * time.Second)
	select {
	case tick := <-ticker.C():
		if !tick.Equal(base.Add(10 * time.Second)) {
			t.Errorf("tick time = %v", tick)
		}
	default:
		t.Fatal("expected tick after Advance")
	}
}

func TestMockTickerStop(t *testing.T) {
	c := NewMockClock(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}
