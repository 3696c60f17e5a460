package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devunion/storefront-auth/approvals"
	"github.com/devunion/storefront-auth/dispatch"
	"github.com/devunion/storefront-auth/internal/config"
	"github.com/devunion/storefront-auth/internal/filestore"
	"github.com/devunion/storefront-auth/internal/metrics"
	"github.com/devunion/storefront-auth/notifications"
	"github.com/devunion/storefront-auth/server"
	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	displayAppname(c.GetAppName())

	repos, err := buildRepos(c)
	if err != nil {
		return fmt.Errorf("building repositories: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	handler, err := server.New(c, repos, dispatch.NewSMTPDispatcher(c), log.Logger,
		server.WithMetrics(collector, registry))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildRepos picks the storage backend: JSON tables under the data folder
// when one is configured, in-memory otherwise.
func buildRepos(c config.Config) (server.Repos, error) {
	folder := c.GetDataFolder()
	if folder == "" {
		return server.Repos{
			Users:         users.NewInMemoryRepo(),
			Sessions:      sessions.NewInMemoryRepo(),
			Requests:      approvals.NewInMemoryRepo(),
			Notifications: notifications.NewInMemoryRepo(c.GetNotificationLogCap()),
		}, nil
	}

	store, err := filestore.New(folder)
	if err != nil {
		return server.Repos{}, fmt.Errorf("opening data folder %q: %w", folder, err)
	}
	return server.Repos{
		Users:         users.NewFileRepo(store),
		Sessions:      sessions.NewFileRepo(store),
		Legacy:        sessions.NewFileLegacyStore(store),
		Requests:      approvals.NewFileRepo(store),
		Notifications: notifications.NewFileRepo(store, c.GetNotificationLogCap()),
	}, nil
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
