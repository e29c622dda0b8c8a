package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"campus-auth/internal/model"
)

type clientLimiter struct {
	general    *rate.Limiter
	credential *rate.Limiter
	lastSeen   time.Time
}

// RateLimitMiddleware keeps one token bucket pair per client IP. The
// credential bucket (register/login) is deliberately smaller than the
// general one to slow guessing.
type RateLimitMiddleware struct {
	generalRPM    int
	credentialRPM int
	mu            sync.Mutex
	clients       map[string]*clientLimiter
}

func NewRateLimitMiddleware(generalRPM int, credentialRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if credentialRPM <= 0 {
		credentialRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM:    generalRPM,
		credentialRPM: credentialRPM,
		clients:       map[string]*clientLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := m.getLimiter(clientIP(r))

		target := limiter.general
		if isCredentialPath(r.URL.Path) {
			target = limiter.credential
		}

		if !target.Allow() {
			w.Header().Set("Retry-After", "60")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = jsonEncode(w, model.ErrorResponse{Error: "too many requests"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isCredentialPath(path string) bool {
	lowered := strings.ToLower(path)
	return strings.HasSuffix(lowered, "/register") || strings.HasSuffix(lowered, "/login")
}

func (m *RateLimitMiddleware) getLimiter(ip string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter, exists := m.clients[ip]; exists {
		limiter.lastSeen = time.Now()
		return limiter
	}

	created := &clientLimiter{
		general:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM),
		credential: rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.credentialRPM)), m.credentialRPM),
		lastSeen:   time.Now(),
	}
	m.clients[ip] = created
	m.gcLocked()

	return created
}

func (m *RateLimitMiddleware) gcLocked() {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}
