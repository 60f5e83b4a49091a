package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/crenwick/chatstore/internal/chat"
	"github.com/crenwick/chatstore/internal/chatdb"
	"github.com/crenwick/chatstore/internal/config"
	"github.com/crenwick/chatstore/internal/database"
	"github.com/crenwick/chatstore/internal/stats"
)

var (
	debugAddr string
	dsn       string
	redisURL  string
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	flag.StringVar(&debugAddr, "debug-addr", envOr("CHATSTORE_DEBUG_ADDR", "localhost:8000"), "address for the debug vars endpoint")
	flag.StringVar(&dsn, "dsn", envOr("CHATSTORE_DSN", "host=localhost user=postgres password=postgres dbname=chatstore sslmode=disable"), "database connection string")
	flag.StringVar(&redisURL, "redis-url", envOr("CHATSTORE_REDIS_URL", "redis://localhost:6379/0"), "redis connection URL")
	flag.Parse()

	logger := log.New(os.Stderr, "[chatstore] ", log.LstdFlags)

	cfg, err := config.NewConfig(debugAddr, dsn, redisURL)
	if err != nil {
		logger.Fatal("config:", err)
	}

	accounts, err := database.NewPgAccountRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := accounts.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	if err := accounts.EnsureSchema(); err != nil {
		logger.Fatal("ensure schema:", err)
	}

	mux := http.NewServeMux()
	statsUpdater := stats.NewStatsUpdater(mux)

	chatStore, err := chatdb.NewRedisStore(cfg.RedisURL, logger, statsUpdater)
	if err != nil {
		logger.Fatal("redis open:", err)
	}
	defer func() {
		if err := chatStore.Close(); err != nil {
			logger.Fatal("redis close:", err)
		}
	}()

	// the service is handed to the embedding web layer; main only keeps the
	// debug vars endpoint alive
	_ = chat.NewChatService(logger, accounts, chatStore, chatStore, chatStore)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	srv := &http.Server{
		Addr:    cfg.DebugAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("serving debug vars on %s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
