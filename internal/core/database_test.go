// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"
)

func TestWithJitter(t *testing.T) {
	if got := withJitter(0); got != 0 {
		t.Errorf("withJitter(0) = %v", got)
	}

	base := 7 * time.Minute
	for range 50 {
		got := withJitter(base)
		if got < base || got > base+time.Minute {
			t.Fatalf("withJitter(%v) = %v, want within [%v, %v]", base, got, base, base+time.Minute)
		}
	}
}
