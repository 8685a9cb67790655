package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied under the limit", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("request over the limit allowed")
	}
	// Other keys have their own budget.
	if !l.Allow("10.0.0.2") {
		t.Fatalf("unrelated key denied")
	}
}

func TestWindowExpiry(t *testing.T) {
	l := New(1, 10*time.Millisecond)
	if !l.Allow("k") {
		t.Fatalf("first request denied")
	}
	if l.Allow("k") {
		t.Fatalf("second request allowed inside window")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatalf("request denied after window expired")
	}
}
