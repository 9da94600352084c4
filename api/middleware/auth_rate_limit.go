package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/api/responses"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

// maxRateLimitBody bounds how much of an auth payload is buffered to find the email.
const maxRateLimitBody = 64 << 10

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// AuthRateLimitPolicy is a fixed-window budget for one auth surface, counted
// separately per client IP and per submitted email address.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// rateCheck is one counter consulted for a request.
type rateCheck struct {
	kind  string
	value string
	limit int
}

func (c rateCheck) scope(policy string) string {
	return c.kind + ":" + policy + ":" + c.value
}

// AuthRateLimit rejects auth attempts with 429 once either budget of the
// policy is spent. A failing counter store yields 503 rather than letting
// the attempt through.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			checks, err := policy.checksFor(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			for _, check := range checks {
				count, err := store.IncrWithTTL(ctx, store.RateLimitKey(check.scope(policy.name)), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(check.limit) {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":         policy.name,
							"scope":          check.kind,
							"key":            check.value,
							"attempts":       count,
							"limit":          check.limit,
							"window_seconds": int(policy.window.Seconds()),
						}), "auth.rate_limit.blocked")
					}
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checksFor lists the counters a request spends. Reading the email consumes
// the body, so it is restored for the next handler.
func (p AuthRateLimitPolicy) checksFor(r *http.Request) ([]rateCheck, error) {
	var checks []rateCheck
	if ip := clientIP(r); p.ipLimit > 0 && ip != "" {
		checks = append(checks, rateCheck{kind: "ip", value: ip, limit: p.ipLimit})
	}
	if p.emailLimit <= 0 || r.Body == nil {
		return checks, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRateLimitBody))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return checks, nil
	}
	if email := strings.ToLower(strings.TrimSpace(payload.Email)); email != "" {
		sum := sha256.Sum256([]byte(email))
		checks = append(checks, rateCheck{kind: "email", value: hex.EncodeToString(sum[:]), limit: p.emailLimit})
	}
	return checks, nil
}

// clientIP prefers the first hop of X-Forwarded-For, then X-Real-IP, then
// the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
