package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPUsesLastForwardedHop(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2")

	if ip := clientIP(r); ip != "198.51.100.2" {
		t.Errorf("clientIP = %q, want the proxy-appended hop 198.51.100.2", ip)
	}
}

func TestClientIPIgnoresSpoofedPrefix(t *testing.T) {
	// The same client varying the leading entries must still key to one
	// bucket: only the hop our proxy appended counts.
	r1 := httptest.NewRequest("GET", "/", nil)
	r1.Header.Set("X-Forwarded-For", "1.2.3.4, 198.51.100.2")
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.Header.Set("X-Forwarded-For", "5.6.7.8, 198.51.100.2")

	if clientIP(r1) != clientIP(r2) {
		t.Errorf("spoofed prefixes produced different keys: %q vs %q", clientIP(r1), clientIP(r2))
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:54321"

	if ip := clientIP(r); ip != "10.0.0.1" {
		t.Errorf("clientIP = %q, want 10.0.0.1 from the connection address", ip)
	}
}

func TestIPLimiterThrottlesPerIP(t *testing.T) {
	l := &ipLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		burst:    2,
	}

	if !l.allow("198.51.100.2") || !l.allow("198.51.100.2") {
		t.Fatal("burst requests should be allowed")
	}
	if l.allow("198.51.100.2") {
		t.Error("request past the burst should be throttled")
	}
	if !l.allow("198.51.100.9") {
		t.Error("a different IP must not share the exhausted bucket")
	}
}

func TestIPLimiterEvictsIdleVisitors(t *testing.T) {
	l := &ipLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		burst:    1,
	}
	l.allow("198.51.100.2")

	l.visitors["198.51.100.2"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.evictIdle(3 * time.Minute)

	if _, ok := l.visitors["198.51.100.2"]; ok {
		t.Error("idle visitor should have been evicted")
	}
}
