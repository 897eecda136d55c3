// Command stubapi runs a local storefront backend for development and
// end-to-end testing of the client. It implements the same REST contract
// the production API exposes.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/imaxretail/storefront/internal/stubapi/db"
	"github.com/imaxretail/storefront/internal/stubapi/events"
	"github.com/imaxretail/storefront/internal/stubapi/httpserver"
	"github.com/imaxretail/storefront/internal/stubapi/search"
	"github.com/imaxretail/storefront/pkg/config"
	"github.com/imaxretail/storefront/pkg/logging"
	loggingmw "github.com/imaxretail/storefront/pkg/middleware/logging"
)

func main() {
	requirePostgres := flag.Bool("postgres", false, "require DATABASE_URL instead of falling back to sqlite")
	flag.Parse()

	cfg := config.Load()
	if *requirePostgres {
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	productSearch := &search.ProductSearch{DB: database}
	if cfg.ESURL != "" {
		esClient, err := search.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		productSearch.ES = esClient
	}

	seeded, err := db.Seed(database)
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}
	for i := range seeded {
		if err := productSearch.IndexProduct(context.Background(), &seeded[i]); err != nil {
			logger.Warn("product_index_failed", "product_id", seeded[i].ID, "error", err)
		}
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{DB: database, Secret: cfg.SessionSecret, Producer: producer},
		Cart:    &httpserver.CartHTTP{DB: database, Producer: producer},
		Catalog: &httpserver.CatalogHTTP{DB: database, Search: productSearch},
		Orders:  &httpserver.OrderHTTP{DB: database, Producer: producer},
		Support: &httpserver.SupportHTTP{DB: database},
		Secret:  cfg.SessionSecret,
	})

	go func() {
		logger.Info("starting stub backend", "port", cfg.ServerPort)
		if err := e.Start(":" + strconv.Itoa(cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
}
