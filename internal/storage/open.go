package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	migrate "github.com/GolovachevS/listings-service/internal/db"
	"github.com/GolovachevS/listings-service/internal/service"
	"github.com/GolovachevS/listings-service/internal/storage/mongodb"
	"github.com/GolovachevS/listings-service/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgresql"

	defaultDatabase = "listings"
)

// Backend is an opened listings repository and the hook releasing it.
type Backend struct {
	Name  string
	Repo  service.Repository
	Close func(ctx context.Context) error
}

// Open connects to the database named by databaseURL, choosing the backend
// from the URL scheme.
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (*Backend, error) {
	switch BackendFor(databaseURL) {
	case BackendPostgres:
		return openPostgres(ctx, databaseURL, logger)
	case BackendMongo:
		return openMongo(ctx, databaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported database url scheme in %q", redact(databaseURL))
	}
}

// BackendFor returns the backend name for databaseURL, or "" if unknown.
func BackendFor(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(databaseURL, "mongodb://"):
		return BackendMongo
	default:
		return ""
	}
}

// DatabaseName extracts the database from a MongoDB URL path.
func DatabaseName(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}

func openPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (*Backend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate.Run(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database connected", zap.String("backend", BackendPostgres))
	return &Backend{
		Name: BackendPostgres,
		Repo: postgres.New(pool),
		Close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, databaseURL string, logger *zap.Logger) (*Backend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	name := DatabaseName(databaseURL)
	logger.Info("database connected", zap.String("backend", BackendMongo), zap.String("database", name))
	return &Backend{
		Name:  BackendMongo,
		Repo:  mongodb.New(client.Database(name)),
		Close: client.Disconnect,
	}, nil
}

// redact drops userinfo so credentials never reach logs or errors.
func redact(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
