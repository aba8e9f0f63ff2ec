/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the municipal field operations dashboard server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Initialize SQLite store
  3. Seed the default operator on an empty database
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080, env PORT)
  -db      SQLite database path (default: fieldops.db, env DB_PATH)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  PORT            overrides -port
  DB_PATH         overrides -db
  JWT_SECRET      token signing secret (required outside dev)
  ADMIN_PASSWORD  initial operator password on first run (default "admin")
  LOG_LEVEL       logrus level (default "info")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/fieldops.db"

  # Run on a different port
  PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vigia/fieldops/api"
	"github.com/vigia/fieldops/auth"
	"github.com/vigia/fieldops/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "fieldops.db", "SQLite database path")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	if raw := os.Getenv("PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("PORT inválido: %v", err)
		}
		*port = p
	}
	if raw := os.Getenv("DB_PATH"); raw != "" {
		*dbPath = raw
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-nao-usar-em-producao"
		log.Warn("JWT_SECRET não definido, usando segredo de desenvolvimento")
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Falha ao abrir o banco: %v", err)
	}
	defer store.Close()

	if err := seedAdmin(context.Background(), store, log); err != nil {
		log.Fatalf("Falha ao criar operador inicial: %v", err)
	}

	handler := api.NewHandler(store, auth.NewService(store, secret), log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Servidor no ar em http://localhost:%d", *port)
		log.Infof("API disponível em http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Servidor falhou: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Encerramento forçado: %v", err)
	}

	log.Info("Servidor parado")
}

// seedAdmin creates the default operator when the users table is empty,
// so a fresh install can log in at all.
func seedAdmin(ctx context.Context, store *sqlite.Store, log *logrus.Logger) error {
	n, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	password := envOr("ADMIN_PASSWORD", "admin")
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := store.SaveUser(ctx, auth.User{
		Username:     "admin",
		DisplayName:  "Coordenação",
		PasswordHash: hash,
	}); err != nil {
		return err
	}

	log.Warn("Operador 'admin' criado; troque a senha padrão")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
