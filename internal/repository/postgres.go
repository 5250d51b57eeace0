package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// Options configures the connection pool owned by a PostgresStore
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// PostgresStore is the gorm-backed Store
type PostgresStore struct {
	db *gorm.DB
}

// Open connects to Postgres and sizes the pool from opts
func Open(opts Options, log *logrus.Logger) (*PostgresStore, error) {
	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	log.WithFields(logrus.Fields{
		"max_open_conns": opts.MaxOpenConns,
		"max_idle_conns": opts.MaxIdleConns,
	}).Info("Database connection established")

	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing gorm handle
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB exposes the gorm handle for migrations and tooling
func (s *PostgresStore) DB() *gorm.DB { return s.db }

func (s *PostgresStore) Tenants() TenantRepository   { return &pgTenants{db: s.db} }
func (s *PostgresStore) Users() UserRepository       { return &pgUsers{db: s.db} }
func (s *PostgresStore) Projects() ProjectRepository { return &pgProjects{db: s.db} }
func (s *PostgresStore) Tasks() TaskRepository       { return &pgTasks{db: s.db} }
func (s *PostgresStore) Audit() AuditRepository      { return &pgAudit{db: s.db} }

// Transaction runs fn inside a database transaction
func (s *PostgresStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresStore{db: tx})
	})
}

// Ping checks that a pooled connection can reach the server
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// scoped adds the tenant predicate for scope on column. A global scope adds nothing.
func scoped(db *gorm.DB, scope models.Scope, column string) *gorm.DB {
	if scope.IsGlobal() {
		return db
	}
	return db.Where(column+" = ?", scope.TenantID())
}

func translate(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// the referenced row went away between the scoped read and the write
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into an ILIKE pattern that matches it literally
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func paginate(db *gorm.DB, page models.Page) *gorm.DB {
	return db.Offset(page.Offset()).Limit(page.Size)
}
