package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mentorhood/internal/http/handlers"
	httpapi "mentorhood/internal/http/httpapi"
	"mentorhood/internal/infra"
	"mentorhood/internal/infra/geoip"
	"mentorhood/internal/mail"
	"mentorhood/internal/meeting"
	"mentorhood/internal/middleware"
	"mentorhood/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, country detection disabled")
	}
	var countryLookup middleware.CountryLookup
	if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	var mailer mail.Mailer
	if cfg.SMTPConfigured() {
		smtp, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init smtp mailer")
		}
		mailer = smtp
	} else {
		logger.Warn().Msg("smtp not configured, emails will be dropped")
		mailer = mail.NopMailer{Logger: logger}
	}

	var uploader storage.Uploader
	if cfg.S3Configured() {
		store, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init s3 storage")
		}
		uploader = storage.S3Uploader{Store: store}
	} else if cfg.StorageBasePath != "" {
		store, err := storage.NewFileStore(cfg.StorageBasePath)
		if err != nil {
			logger.Warn().Err(err).Msg("local storage unavailable, uploads fall back to generated avatars")
		} else {
			uploader = storage.FileUploader{Store: store, BaseURL: cfg.FrontendURL + "/uploads"}
		}
	}

	app := &handlers.App{
		SQL:         infra.NewSQLRunner(dbpool, logger),
		Logger:      logger,
		Mailer:      mailer,
		Meetings:    meeting.NewGenerator(cfg.MeetingBaseURL),
		Uploader:    uploader,
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		CountryLookup:      countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
