package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"salonbook/backend/internal/cache"
	"salonbook/backend/internal/config"
	"salonbook/backend/internal/notify"
	"salonbook/backend/internal/service/appointments"
	"salonbook/backend/internal/service/availability"
	"salonbook/backend/internal/service/blockedtimes"
	"salonbook/backend/internal/service/offers"
	"salonbook/backend/internal/store"
	"salonbook/backend/internal/store/postgres"
	grpcTransport "salonbook/backend/internal/transport/grpc"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(parent context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.Timezone.String()),
	)

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(parent, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}, log)
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return err
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	catalog := postgres.NewCatalogRepo(db)
	appointmentRepo := postgres.NewAppointmentRepo(db)
	blockedRepo := postgres.NewBlockedTimeRepo(db)

	var (
		offerRepo store.OfferRepository = catalog.Offers()
		shiftRepo store.ShiftRepository = catalog.Shifts()
	)
	if cfg.CacheEnabled {
		cacheCfg := cache.Config{Size: cfg.CacheSize, TTL: cfg.CacheTTL}
		offerRepo = cache.NewOffers(offerRepo, cacheCfg)
		shiftRepo = cache.NewShifts(shiftRepo, cacheCfg)
		log.Info("catalog cache enabled", slog.Int("size", cfg.CacheSize), slog.Duration("ttl", cfg.CacheTTL))
	}

	notifier, closeNotifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	resolver := availability.NewResolver(catalog.Professionals(), blockedRepo, cfg.Timezone,
		availability.WithMaxPeriodDays(cfg.MaxPeriodDays),
		availability.WithResolverLogger(log),
	)
	engine := availability.NewEngine(offerRepo, shiftRepo, appointmentRepo, resolver, cfg.Timezone, log)
	guard := appointments.NewGuard(appointmentRepo, appointments.GuardConfig{
		MinLeadTime:          cfg.MinLeadTime,
		MaxDailyAppointments: cfg.MaxDailyAppointments,
		Location:             cfg.Timezone,
	})

	appointmentSvc := appointments.NewService(appointmentRepo, offerRepo, guard, engine, notifier, log)
	blockedSvc := blockedtimes.NewService(blockedRepo, catalog.Professionals(), resolver, log)
	offerSvc := offers.NewService(offerRepo, catalog.Services(), log)

	limiter, err := grpcTransport.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if err != nil {
		return err
	}

	grpcServer := grpcTransport.NewServer(grpcTransport.ServerConfig{
		RequestTimeout: cfg.GRPCRequestTimeout,
		Authenticator:  grpcTransport.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer),
		RateLimiter:    limiter,
	}, grpcTransport.Services{
		Availability: grpcTransport.NewAvailabilityServer(engine, blockedSvc, cfg.Timezone, log),
		Appointments: grpcTransport.NewAppointmentsServer(appointmentSvc, log),
		BlockedTimes: grpcTransport.NewBlockedTimesServer(blockedSvc, log),
		Offers:       grpcTransport.NewOffersServer(offerSvc, log),
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, grpcServer, cfg.ShutdownTimeout)
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc server stopped with error", slog.Any("err", err))
			return err
		}
		return nil
	}
}

func newNotifier(cfg config.Config, log *slog.Logger) (notify.Notifier, func(), error) {
	if !cfg.AMQPEnabled {
		return notify.Noop{}, func() {}, nil
	}
	pub, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, log)
	if err != nil {
		log.Error("amqp connection failed", slog.Any("err", err), slog.String("exchange", cfg.AMQPExchange))
		return nil, nil, err
	}
	log.Info("appointment events enabled", slog.String("exchange", cfg.AMQPExchange))
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("amqp close failed", slog.Any("err", err))
		}
	}, nil
}

func shutdown(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}
