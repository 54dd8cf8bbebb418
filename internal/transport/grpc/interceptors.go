package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func DefaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

const rateLimiterEntries = 10000

// RateLimiter keeps a token bucket per authenticated user. The least recently
// seen users are evicted once the table is full.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[uuid.UUID, *rate.Limiter]
}

func NewRateLimiter(rps float64, burst int) (*RateLimiter, error) {
	if burst < 1 {
		burst = 1
	}
	limiters, err := lru.New[uuid.UUID, *rate.Limiter](rateLimiterEntries)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{limit: rate.Limit(rps), burst: burst, limiters: limiters}, nil
}

func (l *RateLimiter) Allow(userID uuid.UUID) bool {
	if l.limit <= 0 {
		return true
	}
	lim, ok := l.limiters.Get(userID)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		if prev, found, _ := l.limiters.PeekOrAdd(userID, lim); found {
			lim = prev
		}
	}
	return lim.Allow()
}

// UnaryInterceptor must run after authentication.
func (l *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if auth, ok := AuthFromContext(ctx); ok && !l.Allow(auth.UserID) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return handler(ctx, req)
	}
}
