package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/api/http/cookie"
	"github.com/dchaban/taskdeck-server/internal/api/http/middleware"
	"github.com/dchaban/taskdeck-server/internal/api/http/router"
	httpserver "github.com/dchaban/taskdeck-server/internal/api/http/server"
	"github.com/dchaban/taskdeck-server/internal/config"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/mail"
	"github.com/dchaban/taskdeck-server/internal/repository/postgres"
	"github.com/dchaban/taskdeck-server/internal/service"
	"github.com/dchaban/taskdeck-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewRefreshSessionRepository(db)
	revocationRepo := postgres.NewRevocationRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)

	tokenManager, err := token.NewJWT(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret)
	if err != nil {
		logger.Fatal("failed to create token manager", "error", err)
	}
	secretMinter, err := token.NewSecretMinter(cfg.Auth.SecretPepper)
	if err != nil {
		logger.Fatal("failed to create secret minter", "error", err)
	}

	var mailer mail.Mailer
	if cfg.SMTP.Enabled {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Addr, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		mailer = mail.NewLogMailer(logger)
	}

	sessionService := service.NewSession(tokenManager, sessionRepo, logger)
	authService := service.NewAuth(userRepo, sessionService, revocationRepo, tokenManager, secretMinter, mailer, logger, cfg.Auth.BcryptCost)
	janitor := service.NewJanitor(sessionRepo, revocationRepo, cfg.Auth.CleanupInterval, logger)

	cookies := cookie.NewWriter(!cfg.DevMode)
	stats := middleware.NewRequestStats()

	engine := router.New(
		authService, sessionService, tokenManager,
		userRepo, revocationRepo, membershipRepo,
		cookies, stats, logger,
	).Register()

	srv := httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl httpserver.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = httpserver.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = httpserver.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "address", srv.Address())
		if err := srv.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
