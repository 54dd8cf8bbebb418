package grpc

import (
	"time"

	"google.golang.org/grpc"
)

type ServerConfig struct {
	RequestTimeout time.Duration
	Authenticator  *Authenticator
	RateLimiter    *RateLimiter
}

type Services struct {
	Availability AvailabilityServiceServer
	Appointments AppointmentsServiceServer
	BlockedTimes BlockedTimesServiceServer
	Offers       OffersServiceServer
}

// NewServer builds a grpc.Server with every salonbook.v1 service registered.
// Interceptors run as timeout, authentication, then rate limiting.
func NewServer(cfg ServerConfig, svcs Services, opts ...grpc.ServerOption) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{DefaultRequestTimeoutInterceptor(cfg.RequestTimeout)}
	if cfg.Authenticator != nil {
		interceptors = append(interceptors, cfg.Authenticator.UnaryInterceptor())
	}
	if cfg.RateLimiter != nil {
		interceptors = append(interceptors, cfg.RateLimiter.UnaryInterceptor())
	}

	opts = append(opts, grpc.ChainUnaryInterceptor(interceptors...))
	s := grpc.NewServer(opts...)

	if svcs.Availability != nil {
		RegisterAvailabilityServiceServer(s, svcs.Availability)
	}
	if svcs.Appointments != nil {
		RegisterAppointmentsServiceServer(s, svcs.Appointments)
	}
	if svcs.BlockedTimes != nil {
		RegisterBlockedTimesServiceServer(s, svcs.BlockedTimes)
	}
	if svcs.Offers != nil {
		RegisterOffersServiceServer(s, svcs.Offers)
	}
	return s
}
