package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// PostgresConfig configures the PostgreSQL-backed history store.
type PostgresConfig struct {
	// ConnectionString is the PostgreSQL connection DSN.
	ConnectionString string

	// MaxOpenConns is the maximum number of open connections. Default: 25.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections. Default: 5.
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime. Default: 5 minutes.
	ConnMaxLifetime time.Duration

	// TablePrefix allows customizing the table name prefix. Default: "prompty_".
	TablePrefix string

	// AutoMigrate runs schema migrations on Open. Default: false.
	AutoMigrate bool

	// QueryTimeout is the default timeout for queries. Default: 30 seconds.
	QueryTimeout time.Duration

	// Logger receives diagnostic output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultPostgresConfig returns a configuration with sensible defaults.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		MaxOpenConns:    defaultMaxOpenConns,
		MaxIdleConns:    defaultMaxIdleConns,
		ConnMaxLifetime: defaultConnMaxLifetime,
		TablePrefix:     defaultTablePrefix,
		QueryTimeout:    defaultQueryTimeout,
	}
}

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultTablePrefix     = "prompty_"
	defaultQueryTimeout    = 30 * time.Second
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	config PostgresConfig
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewPostgresStore opens a PostgreSQL-backed history store.
func NewPostgresStore(config PostgresConfig) (*PostgresStore, error) {
	if config.ConnectionString == "" {
		return nil, &StoreError{Message: ErrMsgEmptyConnString}
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = defaultMaxOpenConns
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = defaultMaxIdleConns
	}
	if config.ConnMaxLifetime == 0 {
		config.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if config.TablePrefix == "" {
		config.TablePrefix = defaultTablePrefix
	}
	if config.QueryTimeout == 0 {
		config.QueryTimeout = defaultQueryTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", config.ConnectionString)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgConnectionFailed, Cause: err}
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StoreError{Message: ErrMsgConnectionFailed, Cause: err}
	}

	store := &PostgresStore{db: db, config: config, logger: logger}

	if config.AutoMigrate {
		if err := store.runMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return store, nil
}

func (s *PostgresStore) tableName() string {
	return s.config.TablePrefix + "history"
}

// Record saves a render as a new history entry.
func (s *PostgresStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &StoreError{Message: ErrMsgClosed}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	id := generateEntryID()
	now := time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, project, language, args, output, rendered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.tableName())

	if _, err := s.db.ExecContext(ctx, query,
		id, entry.Slug, entry.Project, entry.Language, entry.Args, entry.Output, now); err != nil {
		return &StoreError{Message: ErrMsgQueryFailed, Cause: err}
	}

	entry.ID = id
	entry.RenderedAt = now
	s.logger.Debug("recorded render history entry", zap.String("slug", entry.Slug), zap.String("id", id))
	return nil
}

// Recent returns history entries matching query, newest first.
func (s *PostgresStore) Recent(ctx context.Context, query Query) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &StoreError{Message: ErrMsgClosed}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	var conditions []string
	var args []interface{}
	argIdx := 1

	if query.Slug != "" {
		conditions = append(conditions, fmt.Sprintf("slug = $%d", argIdx))
		args = append(args, query.Slug)
		argIdx++
	}
	if query.Project != "" {
		conditions = append(conditions, fmt.Sprintf("project = $%d", argIdx))
		args = append(args, query.Project)
		argIdx++
	}
	if query.Language != "" {
		conditions = append(conditions, fmt.Sprintf("language = $%d", argIdx))
		args = append(args, query.Language)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	sqlQuery := fmt.Sprintf(`
		SELECT id, slug, project, language, args, output, rendered_at
		FROM %s %s ORDER BY rendered_at DESC`, s.tableName(), whereClause)
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgQueryFailed, Cause: err}
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Slug, &e.Project, &e.Language, &e.Args, &e.Output, &e.RenderedAt); err != nil {
			return nil, &StoreError{Message: ErrMsgScanFailed, Cause: err}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Message: ErrMsgQueryFailed, Cause: err}
	}

	return entries, nil
}

// Close releases database connections.
func (s *PostgresStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &StoreError{Message: ErrMsgClosed}
	}
	s.closed = true
	return s.db.Close()
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          VARCHAR(255) PRIMARY KEY,
			slug        VARCHAR(512) NOT NULL,
			project     VARCHAR(255) NOT NULL DEFAULT '',
			language    VARCHAR(255) NOT NULL DEFAULT '',
			args        TEXT NOT NULL DEFAULT '{}',
			output      TEXT NOT NULL,
			rendered_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_slug ON %s(slug);
		CREATE INDEX IF NOT EXISTS idx_%s_rendered_at ON %s(rendered_at DESC);`,
		s.tableName(),
		s.config.TablePrefix+"history", s.tableName(),
		s.config.TablePrefix+"history", s.tableName(),
	)
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &StoreError{Message: ErrMsgMigrationFailed, Cause: err}
	}
	return nil
}

// StoreError represents a history-store error.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Error message constants.
const (
	ErrMsgEmptyConnString  = "history store: empty connection string"
	ErrMsgConnectionFailed = "history store: connection failed"
	ErrMsgClosed           = "history store: closed"
	ErrMsgQueryFailed      = "history store: query failed"
	ErrMsgScanFailed       = "history store: scan failed"
	ErrMsgMigrationFailed  = "history store: migration failed"
)

var idCounter uint64
var idMu sync.Mutex

// generateEntryID produces a monotonically increasing, process-unique
// history entry ID. It avoids a UUID dependency for this ancillary,
// low-cardinality store.
func generateEntryID() string {
	idMu.Lock()
	defer idMu.Unlock()
	idCounter++
	return fmt.Sprintf("hist_%d_%d", time.Now().UnixNano(), idCounter)
}
