package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/dh-notes/internal/auth/http"
	authservice "github.com/AlibekovAA/dh-notes/internal/auth/service"
	"github.com/AlibekovAA/dh-notes/internal/common/bootstrap"
	commoncrypto "github.com/AlibekovAA/dh-notes/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/dh-notes/internal/common/http"
	srv "github.com/AlibekovAA/dh-notes/internal/common/server"
	"github.com/AlibekovAA/dh-notes/internal/note/events"
	notehttp "github.com/AlibekovAA/dh-notes/internal/note/http"
	noteservice "github.com/AlibekovAA/dh-notes/internal/note/service"
)

const serviceName = "notes"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewNotesApp(ctx, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize %s service: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config

	hub := events.NewHub(log)
	go hub.Run(ctx)

	tokenService := authservice.NewTokenService(cfg.JWTSecret, app.IDGenerator, cfg.TokenTTL, app.Clock)
	authService := authservice.NewAuthService(app.UserRepo, commoncrypto.NewBcryptHasher(cfg.BcryptCost), tokenService, app.Clock, log)
	noteService := noteservice.NewNoteService(app.NoteStore, app.Clock, hub, log)

	router := mux.NewRouter()
	router.HandleFunc("/health", commonhttp.HealthHandler(serviceName)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	authhttp.NewHandler(authService, cfg.RequestTimeout, log).RegisterRoutes(router)
	notehttp.NewHandler(noteService, tokenService, events.NewHandler(hub, log), cfg.RequestTimeout, log).RegisterRoutes(router)

	serverConfig := srv.DefaultConfig(cfg.HTTPPort)
	server := srv.New(serverConfig, commonhttp.BuildBaseHandler(log, router))

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("%s service: closing %d note stream subscribers", serviceName, hub.ClientCount())
			cancel()
			return nil
		},
	}

	if err := srv.StartWithGracefulShutdown(server, serverConfig, log, serviceName, shutdownHooks...); err != nil {
		log.Errorf("%s service stopped with error: %v", serviceName, err)
	}
}
