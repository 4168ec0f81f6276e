// Command server runs the chat-bot document store and its operator API.
//
// @title                       Chatbot Docstore API
// @version                     1.0
// @description                 Users and dialogs of a Telegram chat bot, stored as JSON documents.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/chatbot-docstore/internal/blob"
	"github.com/tbourn/chatbot-docstore/internal/config"
	httpapi "github.com/tbourn/chatbot-docstore/internal/http"
	"github.com/tbourn/chatbot-docstore/internal/observability"
	"github.com/tbourn/chatbot-docstore/internal/repo"
	"github.com/tbourn/chatbot-docstore/internal/services"
	"github.com/tbourn/chatbot-docstore/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	app := kingpin.New("chatbot-docstore", "Document store and operator API for a Telegram chat bot")
	configFile := app.Flag("config", "Path to the settings YAML file").String()
	envFile := app.Flag("env-file", "Path to the env file").String()
	chatModes := app.Flag("chat-modes", "Path to the chat modes YAML file").String()
	port := app.Flag("port", "HTTP port").String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(&config.Overrides{
		EnvFile:       *envFile,
		ConfigFile:    *configFile,
		ChatModesFile: *chatModes,
		Port:          *port,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	ver := sysutil.FirstNonEmpty(version, "dev")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, ver); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config, ver string) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg, ver)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	bucket, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := bucket.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	store := repo.NewStore(bucket)
	session := services.NewSessionService(store, cfg.Settings, cfg.ChatModes)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, store, session, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Storage.Backend).
			Str("version", ver).
			Int("chat_modes", len(cfg.ChatModes)).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
		return srv.Close()
	}
	return nil
}
