// Package ratelimit provides per-client token-bucket rate limiting for the
// gateway's HTTP surface.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket allows a number of requests per window, with tokens refilling
// at a steady rate.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewTokenBucket creates a bucket holding capacity tokens that refills fully
// once per window.
func NewTokenBucket(capacity int, window time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: float64(capacity) / window.Seconds(),
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available.
func (b *TokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Remaining reports the whole tokens left in the bucket.
func (b *TokenBucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return int(b.tokens)
}

// refill adds tokens for the time elapsed since the last refill. Callers
// hold b.mu.
func (b *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// Info describes the rate-limit state returned alongside an Allow decision.
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter applies per-client, per-endpoint token buckets.
type Limiter struct {
	config *Config

	mu       sync.Mutex
	buckets  map[string]*TokenBucket
	lastSeen map[string]time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	l := &Limiter{
		config:   config,
		buckets:  make(map[string]*TokenBucket),
		lastSeen: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
	if config.Enabled {
		go l.cleanupLoop()
	}
	return l
}

// Allow decides whether clientID may issue one more request against the
// given path and method.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{}
	}
	if l.config.whitelisted(clientID) {
		return true, Info{}
	}
	if l.config.blacklisted(clientID) {
		return false, Info{Limit: 0, Remaining: 0, RetryAfter: l.config.DefaultWindow}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil && path == "/health" {
		return true, Info{}
	}

	limit := l.config.DefaultLimit
	window := l.config.DefaultWindow
	if endpoint != nil {
		limit = endpoint.Limit
		window = endpoint.Window
	}

	key := clientID + " " + method + " " + bucketPath(path, endpoint)

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = NewTokenBucket(limit, window)
		l.buckets[key] = bucket
	}
	l.lastSeen[key] = time.Now()
	l.mu.Unlock()

	allowed := bucket.Allow()
	info := Info{Limit: limit, Remaining: bucket.Remaining()}
	if !allowed {
		info.RetryAfter = window / time.Duration(limit)
	}
	return allowed, info
}

// Stop ends the cleanup loop.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func bucketPath(path string, endpoint *EndpointConfig) string {
	if endpoint != nil {
		return endpoint.Path
	}
	return path
}

// cleanupLoop drops buckets not seen for two cleanup intervals so one-off
// clients do not accumulate forever.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * l.config.CleanupInterval)
			l.mu.Lock()
			for key, seen := range l.lastSeen {
				if seen.Before(cutoff) {
					delete(l.buckets, key)
					delete(l.lastSeen, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
