package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	grpcAdapter "github.com/quentinrf/brewhouse/services/bitterness-service/internal/adapters/grpc"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/adapters/memory"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/adapters/sqlite"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/bitterness"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/ports"
	"github.com/quentinrf/brewhouse/services/bitterness-service/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Read configuration from environment
	config := loadConfig()
	zerolog.SetGlobalLevel(config.LogLevel)

	log.Info().Msg("starting bitterness service")

	// Initialize repository
	var repo domain.CalculationRepository
	switch config.RepoType {
	case "sqlite":
		r, err := sqlite.NewCalculationRepository(config.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", config.DBPath).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", config.DBPath).Msg("initialized SQLite repository")
	default:
		repo = memory.NewCalculationRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize gRPC handler
	defaults := bitterness.IntegrationConfig{StepMinutes: config.IntegrationStep.Minutes()}
	handler := grpcAdapter.NewBitternessServiceHandler(ports.NewCalculator(repo), repo, defaults)

	// Configure TLS if certificates are provided
	serverOpts := []grpc.ServerOption{grpc.UnaryInterceptor(grpcAdapter.LoggingInterceptor())}
	if config.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(config.TLSCert, config.TLSKey, config.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	// Create gRPC server
	grpcServer := grpc.NewServer(serverOpts...)
	grpcAdapter.RegisterBitternessServiceServer(grpcServer, handler)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	// Start gRPC server
	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", config.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().
		Str("port", config.Port).
		Dur("integration_step", config.IntegrationStep).
		Msg("gRPC server listening")

	// Start server in goroutine
	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start history retention
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pruner := ports.NewPruner(repo, config.Retention, config.PruneInterval)
	go pruner.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	cancel()
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

// Config holds application configuration
type Config struct {
	Port            string
	RepoType        string // "memory" | "sqlite"
	DBPath          string // SQLite database file path (used when RepoType=sqlite)
	LogLevel        zerolog.Level
	IntegrationStep time.Duration // simulated time per integration step
	Retention       time.Duration // how long calculations are kept
	PruneInterval   time.Duration
	TLSCert         string // path to this service's certificate
	TLSKey          string // path to this service's private key
	TLSCA           string // path to the CA certificate
}

// loadConfig reads configuration from environment variables
func loadConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "50051"
	}

	repoType := os.Getenv("REPO_TYPE")
	if repoType == "" {
		repoType = "memory"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./bitterness.db"
	}

	logLevel := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		logLevel = lvl
	}

	return Config{
		Port:            port,
		RepoType:        repoType,
		DBPath:          dbPath,
		LogLevel:        logLevel,
		IntegrationStep: durationEnv("INTEGRATION_STEP", time.Second),
		Retention:       durationEnv("RETENTION", 30*24*time.Hour),
		PruneInterval:   durationEnv("PRUNE_INTERVAL", 24*time.Hour),
		TLSCert:         os.Getenv("TLS_CERT"),
		TLSKey:          os.Getenv("TLS_KEY"),
		TLSCA:           os.Getenv("TLS_CA"),
	}
}

func durationEnv(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
		log.Warn().Str(key, s).Msg("ignoring invalid duration")
	}
	return def
}
