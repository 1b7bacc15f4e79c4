package handlers

import (
	"context"
	"expvar"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/icco/moviestats/lib/config"
	"github.com/icco/moviestats/lib/validation"
	"golang.org/x/time/rate"
)

// Clients unseen for this long lose their limiter.
const clientIdle = 3 * time.Minute

var (
	totalRequestsReceived     = expvar.NewInt("total_requests_received")
	totalResponsesSent        = expvar.NewInt("total_responses_sent")
	totalProcessingTimeMicros = expvar.NewInt("total_processing_time_μs")
	totalResponsesByStatus    = expvar.NewMap("total_responses_sent_by_status")
)

// Metrics records request counts, latency and status codes in expvar.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totalRequestsReceived.Add(1)

		m := httpsnoop.CaptureMetrics(next, w, r)

		totalResponsesSent.Add(1)
		totalProcessingTimeMicros.Add(m.Duration.Microseconds())
		totalResponsesByStatus.Add(strconv.Itoa(m.Code), 1)
	})
}

// RateLimit limits each client IP to cfg.RPS requests per second with bursts
// of cfg.Burst. Idle clients are forgotten until ctx is cancelled.
func RateLimit(ctx context.Context, cfg config.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	if cfg.Enabled {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}

				mu.Lock()
				for ip, c := range clients {
					if time.Since(c.lastSeen) > clientIdle {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			c, found := clients[ip]
			if !found {
				c = &client{limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				logger.Debug("Rate limit exceeded", slog.String("ip", ip))
				validation.WriteError(w, fmt.Errorf("rate limit exceeded"), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
