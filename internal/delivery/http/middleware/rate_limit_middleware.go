package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go-doctor-directory/pkg/response"

	"golang.org/x/time/rate"
)

const (
	// Interval for dropping limiters of clients that went quiet
	limiterCleanupInterval = 5 * time.Minute

	// How long a limiter must be unused before cleanup
	limiterStaleThreshold = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix timestamp
}

// RateLimitMiddleware keeps one token bucket per client IP.
type RateLimitMiddleware struct {
	rps      rate.Limit
	burst    int
	resolver *ClientIPResolver

	clients sync.Map // map[string]*clientLimiter

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewRateLimitMiddleware starts a background goroutine that drops idle
// clients. Call Stop() during graceful shutdown.
func NewRateLimitMiddleware(rps float64, burst int, resolver *ClientIPResolver) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		rps:      rate.Limit(rps),
		burst:    burst,
		resolver: resolver,
		stopChan: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

func (m *RateLimitMiddleware) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
		m.wg.Wait()
	}
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		client := m.limiterFor(m.resolver.ClientIP(req))

		reservation := client.limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			response.TooManyRequests(w, "")
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (m *RateLimitMiddleware) limiterFor(key string) *clientLimiter {
	actual, _ := m.clients.LoadOrStore(key, &clientLimiter{limiter: rate.NewLimiter(m.rps, m.burst)})
	client := actual.(*clientLimiter)
	client.lastSeen.Store(time.Now().Unix())
	return client
}

func (m *RateLimitMiddleware) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			threshold := time.Now().Add(-limiterStaleThreshold).Unix()
			m.clients.Range(func(key, value any) bool {
				if value.(*clientLimiter).lastSeen.Load() < threshold {
					m.clients.Delete(key)
				}
				return true
			})
		}
	}
}
