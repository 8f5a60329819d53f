package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"medlink-portal/config"
	"medlink-portal/pkg/response"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	msgTooManyRequests = "Muitas tentativas. Aguarde e tente novamente."
	limiterIdleTTL     = 10 * time.Minute
	limiterSweep       = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles each client IP with its own token bucket. Idle
// buckets are dropped by a background sweep.
type RateLimiter struct {
	log     *logrus.Logger
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewRateLimiter(cfg config.RateLimitConfig, log *logrus.Logger) *RateLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	l := &RateLimiter{
		log:      log,
		limit:    rate.Limit(cfg.RPS),
		burst:    burst,
		clients:  make(map[string]*clientLimiter),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.sweepLoop()
	return l
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *RateLimiter) Stop() {
	if l.stopped.Swap(true) {
		return
	}
	close(l.stopChan)
	l.wg.Wait()
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (l *RateLimiter) sweepLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(limiterSweep)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			if n := l.sweep(time.Now()); n > 0 {
				l.log.Debugf("Dropped %d idle rate limiters", n)
			}
		}
	}
}

func (l *RateLimiter) sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
			n++
		}
	}
	return n
}

// Handle rejects a client over its budget with 429.
func (l *RateLimiter) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.allow(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}

		l.log.WithField("path", r.URL.Path).Warn("Rate limit exceeded")
		if strings.HasPrefix(r.URL.Path, "/api/") {
			response.TooManyRequests(w, msgTooManyRequests)
			return
		}
		http.Error(w, msgTooManyRequests, http.StatusTooManyRequests)
	})
}

// HandleFunc limits a single handler, e.g. only the POST of a form page.
func (l *RateLimiter) HandleFunc(next http.HandlerFunc) http.Handler {
	return l.Handle(next)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
