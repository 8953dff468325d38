/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// KeyedLimiter applies a token bucket per client key and evicts idle entries.
type KeyedLimiter struct {
	limit rate.Limit
	burst int

	lock  sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
	now   func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter returns nil, which allows everything, when rps is not positive.
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &KeyedLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		byKey: map[string]*limiterEntry{},
		now:   time.Now,
	}
}

// Allow reports whether one token can be consumed for key.
func (l *KeyedLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	now := l.now()
	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-limiterIdleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}

// WithRateLimit rejects requests with 429 once the client, identified by its remote
// host, exceeds the limiter. A nil limiter lets every request through.
func WithRateLimit(l *KeyedLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !l.Allow(clientKey(req)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientKey(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
