package repositories

import (
	"StaffRankService/internal/config"
	"StaffRankService/internal/migrator"
	"StaffRankService/internal/utils/logger/sl"
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Capabilities describes optional schema features resolved once at
// startup. Legacy back-office databases predate the resolution-tracking
// column, so SLA counting adapts to what is actually present.
type Capabilities struct {
	HasActualResolutionTime bool
}

// Repository provides read access to the MSP activity data.
type Repository struct {
	DB     *sqlx.DB
	log    *slog.Logger
	schema string
	caps   Capabilities
}

// New creates a new repository, connects to the database, runs migrations,
// and resolves schema capabilities.
func New(logger *slog.Logger, cfg *config.Config) *Repository {
	op := "repositories.New()"
	log := logger.With(
		slog.String("op", op))

	username := cfg.DBConfig.User
	password := cfg.DBConfig.Password
	dbName := cfg.DBConfig.Name
	dbHost := cfg.DBConfig.Host
	dbPort := cfg.DBConfig.Port
	schema := cfg.DBConfig.Schema

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=disable password=%s search_path=%s",
		dbHost, dbPort, username, dbName, password, schema)

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Error("error connecting to database", sl.Err(err))
		panic("error connecting to database")
	}

	if err := conn.Ping(); err != nil {
		log.Error("error pinging database", sl.Err(err))
		panic("error pinging database")
	}

	log.Debug("sqlx connected to database")

	m := migrator.NewMigrator(conn, log, schema)
	if err := m.Run(); err != nil {
		log.Error("error running database migrations", sl.Err(err))
		panic("error running database migrations")
	}

	caps, err := resolveCapabilities(conn, schema)
	if err != nil {
		log.Error("error resolving schema capabilities", sl.Err(err))
		panic("error resolving schema capabilities")
	}
	log.Info("schema capabilities resolved",
		slog.Bool("hasActualResolutionTime", caps.HasActualResolutionTime))

	return &Repository{
		DB:     conn,
		log:    log,
		schema: schema,
		caps:   caps,
	}
}

// Caps returns the schema capabilities resolved at startup.
func (r *Repository) Caps() Capabilities {
	return r.caps
}

// resolveCapabilities probes information_schema once; the answer holds for
// the lifetime of the process, never per request.
func resolveCapabilities(db *sqlx.DB, schema string) (Capabilities, error) {
	var count int
	query := `SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = 'tickets' AND column_name = 'actual_resolution_hours'`
	if err := db.Get(&count, query, schema); err != nil {
		return Capabilities{}, fmt.Errorf("resolveCapabilities: %w", err)
	}
	return Capabilities{HasActualResolutionTime: count > 0}, nil
}

// Shutdown closes the database connection.
func (r *Repository) Shutdown(ctx context.Context) error {
	op := "Repository.Shutdown"
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("force exit %s: %w", op, ctx.Err())
		default:
			if err := r.DB.Close(); err != nil {
				return fmt.Errorf("error exit %s: %w", op, err)
			}
			return nil
		}
	}
}
