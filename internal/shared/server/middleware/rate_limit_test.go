package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	current := time.Unix(1000, 0)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 3}

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", rule)
		if !allowed {
			t.Fatalf("request %d within burst was limited", i)
		}
	}
	if allowed, _ := limiter.Allow("1.2.3.4", rule); allowed {
		t.Fatalf("request beyond burst was allowed")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	current := time.Unix(1000, 0)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if allowed, _ := limiter.Allow("k", rule); !allowed {
		t.Fatalf("first request limited")
	}
	if allowed, retry := limiter.Allow("k", rule); allowed || retry <= 0 {
		t.Fatalf("expected limited with positive retry, got allowed=%v retry=%v", allowed, retry)
	}

	current = current.Add(2 * time.Second)
	if allowed, _ := limiter.Allow("k", rule); !allowed {
		t.Fatalf("expected refill after wait")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	current := time.Unix(1000, 0)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if allowed, _ := limiter.Allow("a", rule); !allowed {
		t.Fatalf("key a limited")
	}
	if allowed, _ := limiter.Allow("b", rule); !allowed {
		t.Fatalf("key b limited by key a's bucket")
	}
}
