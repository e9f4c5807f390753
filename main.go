// main.go
//
// Conduit API server.
//
//	$ go run .            serve on ADDR (default :3000), metrics on DIAG_ADDR (:9999)
//	$ go run . -routes    print the route table as Markdown and exit
//
// Configuration comes from the environment or a .env file; see
// internal/config for the variables and their defaults.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/metric/global"

	"github.com/robalobadob/conduit/internal/auth"
	"github.com/robalobadob/conduit/internal/config"
	"github.com/robalobadob/conduit/internal/db"
	"github.com/robalobadob/conduit/internal/httpserver"
	"github.com/robalobadob/conduit/internal/metrics"
	"github.com/robalobadob/conduit/internal/service"
	"github.com/robalobadob/conduit/internal/store"
)

const serviceName = "conduit"

func main() {
	routes := flag.Bool("routes", false, "print router documentation and exit")
	flag.Parse()

	if *routes {
		// handlers are never invoked, so no dependencies are needed
		srv := httpserver.New(httpserver.Deps{})
		fmt.Println(docgen.MarkdownRoutesDoc(srv.Router(), docgen.MarkdownOpts{
			ProjectPath: "github.com/robalobadob/conduit",
			Intro:       "Conduit API routes.",
		}))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	if cfg.JWTSecret == config.DevSecret {
		log.Warn().Msg("JWT_SECRET not set; using the development secret")
	}

	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = db.Migrate(ctx, database)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	m, err := metrics.New(serviceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}
	global.SetMeterProvider(m.Provider())

	st := store.New(database)
	srv := httpserver.New(httpserver.Deps{
		Store:          st,
		Tokens:         auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Users:          service.NewUsers(st),
		Profiles:       service.NewProfiles(st),
		Articles:       service.NewArticles(st),
		Tags:           service.NewTags(st),
		Metrics:        m,
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})

	if cfg.DiagAddr != "" {
		diag := chi.NewRouter()
		diag.Get("/metrics", m.Handler().ServeHTTP)
		go func() {
			log.Info().Str("addr", cfg.DiagAddr).Msg("starting diagnostics listener")
			if err := http.ListenAndServe(cfg.DiagAddr, diag); err != nil {
				log.Error().Err(err).Msg("diagnostics listener exited")
			}
		}()
	}

	log.Info().Str("addr", cfg.Addr).Str("driver", cfg.DBDriver).Msg("starting conduit")
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = log.With().Str("service", serviceName).Logger()
}
