package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ppv-gate/pkg/clock"
	"ppv-gate/pkg/config"
	"ppv-gate/pkg/database"
	"ppv-gate/pkg/email"
	"ppv-gate/pkg/logger"
	"ppv-gate/pkg/payment"
	"ppv-gate/pkg/redis"
	"ppv-gate/pkg/video"
	ctl "ppv-gate/service-api/internal/controller"
	deviceRepo "ppv-gate/service-api/internal/repository/device"
	tokenRepo "ppv-gate/service-api/internal/repository/token"
	adminService "ppv-gate/service-api/internal/service/admin"
	admissionService "ppv-gate/service-api/internal/service/admission"
	issuanceService "ppv-gate/service-api/internal/service/issuance"
)

type appServer struct {
	config     *config.Config
	controller ctl.ControllerProvider
}

// NewAppServer wires the repositories, collaborators and services into a
// ready-to-serve application.
func NewAppServer(cfg *config.Config) *appServer {
	ctx := context.Background()

	// initialize database
	db, err := database.NewPgDB(cfg)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}

	err = database.ApplySchema(ctx, db)
	if err != nil {
		logger.Fatalf("failed to apply database schema: %v", err)
	}

	// token cache is optional; without Redis every lookup hits Postgres
	var cache admissionService.TokenCache
	if cfg.Redis.Host != "" {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			logger.Fatalf("failed to initialize redis: %v", err)
		}
		cache = redisClient
	}

	clk, err := clock.NewClock(cfg.Access.Timezone)
	if err != nil {
		logger.Fatalf("failed to initialize clock: %v", err)
	}

	// collaborators
	paymentProvider, err := payment.NewPaymentProvider(ctx, &cfg.Payment)
	if err != nil {
		logger.Fatalf("failed to initialize payment provider: %v", err)
	}
	provisioner, err := video.NewProvisioner(ctx, &cfg.Video)
	if err != nil {
		logger.Fatalf("failed to initialize video provisioner: %v", err)
	}
	emailProvider, err := email.NewEmailProvider(ctx, &cfg.Email)
	if err != nil {
		logger.Fatalf("failed to initialize email provider: %v", err)
	}

	// initialize repositories
	tokenRepository := tokenRepo.NewRepository(db)
	deviceRepository := deviceRepo.NewRepository(db)

	// initialize services
	playbackURLs := video.NewPlaybackURLBuilder(&cfg.Video)
	admissionSvc := admissionService.NewService(tokenRepository, deviceRepository, cache, clk, playbackURLs, cfg)
	issuanceSvc := issuanceService.NewService(tokenRepository, paymentProvider, provisioner, emailProvider, clk, cfg)
	adminSvc := adminService.NewService(tokenRepository, deviceRepository, clk, cfg)

	controller := ctl.NewController(admissionSvc, issuanceSvc, adminSvc, clk, cfg)

	return &appServer{
		config:     cfg,
		controller: controller,
	}
}

func (a *appServer) Serve() {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.Port),
		Handler: a.RegisterHandlers(),
	}

	// serve the server
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	logger.Infof("server started on port %s", a.config.Port)

	a.gracefulShutdown(server)

	logger.Info("server shutdown complete")
}

func (a *appServer) gracefulShutdown(server *http.Server) {
	ctx, stopCtx := context.WithCancel(context.Background())

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP) // wait for the sigterm
		<-signals

		// we received an os signal, shut down.
		err := server.Shutdown(ctx)
		if err != nil {
			logger.Error(err, "server shutdown error")
		} else {
			logger.Info("server graceful shutdown")
		}

		stopCtx()
	}()

	<-ctx.Done()
}
