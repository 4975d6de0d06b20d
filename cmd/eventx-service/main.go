package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"eventx/internal/clock"
	"eventx/internal/config"
	"eventx/internal/engine"
	"eventx/internal/eventx_api"
	"eventx/internal/kafka"
	"eventx/internal/logger"
	"eventx/internal/qr"
	"eventx/internal/store"
)

func openStore(cfg *config.Config, appLog *logger.Logger) store.Store {
	switch cfg.Store.Backend {
	case "memory":
		appLog.LogStore("memory", "using in-process store; state is lost on restart")
		return store.NewMemory()

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		rs := store.NewRedis(client, cfg.Store.Prefix)
		if err := rs.Ping(context.Background()); err != nil {
			appLog.Fatal("STORE", "failed to connect to Redis: "+err.Error())
		}
		appLog.LogStore("redis", "connected to "+cfg.Redis.Addr)
		return rs

	case "sqlite":
		sqldb, err := sql.Open("sqlite", cfg.Database.Path)
		if err != nil {
			appLog.Fatal("STORE", "failed to open SQLite: "+err.Error())
		}
		return openSQLStore(bun.NewDB(sqldb, sqlitedialect.New()), "sqlite", appLog)

	case "postgres":
		sqldb, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			appLog.Fatal("STORE", "failed to open Postgres: "+err.Error())
		}
		sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)
		return openSQLStore(bun.NewDB(sqldb, pgdialect.New()), "postgres", appLog)

	default:
		appLog.Fatal("STORE", "unknown STORE_BACKEND: "+cfg.Store.Backend)
		return nil
	}
}

func openSQLStore(bunDB *bun.DB, backend string, appLog *logger.Logger) store.Store {
	s := store.NewSQL(bunDB)
	if err := s.Init(context.Background()); err != nil {
		appLog.Fatal("STORE", "failed to initialize schema: "+err.Error())
	}
	appLog.LogStore(backend, "schema ready")
	return s
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	appLog := logger.NewLogger("eventx-service")
	defer appLog.Close()

	st := openStore(cfg, appLog)
	eng := engine.New(st, clock.NewSystem())

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		if !cfg.Kafka.MockMode {
			topics := []string{kafka.TopicTicketMinted, kafka.TopicEventCancelled}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
				appLog.Warn("KAFKA", "could not ensure topics: "+err.Error())
			}
		}
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode)
		defer producer.Close()
	}

	handler := eventx_api.NewHandler(eng, producer, qr.NewGenerator(cfg.QR.SecretKey), appLog)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info("SERVER", "eventx service on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	appLog.Info("SERVER", "eventx service shutdown complete")
}
