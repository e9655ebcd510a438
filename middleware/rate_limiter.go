package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter tracks one token bucket per client IP. Idle entries are evicted
// so the map stays bounded.
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var requestLimiter = &ipLimiter{
	visitors: make(map[string]*visitor),
	rate:     5,
	burst:    30,
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *ipLimiter) evictIdle(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(l.visitors, ip)
		}
	}
}

// clientIP picks the limiter key. Only the last X-Forwarded-For entry is
// used: it is the one our own proxy appended, while everything before it is
// client-supplied and spoofable. Without the header the connection address
// stands in.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware throttles each client IP to a sustained 5 req/s with a
// burst of 30.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requestLimiter.allow(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CleanupVisitors drops limiters for IPs idle longer than three minutes.
// Run it as a goroutine from main.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		requestLimiter.evictIdle(3 * time.Minute)
	}
}
