package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"rollcall/internal/config"
)

// Driver names a supported store backend.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverMySQL  Driver = "mysql"
)

// Store manages identity and seen-event persistence.
type Store struct {
	db     *sql.DB
	driver Driver
	source string
}

// Open connects to the store named by the configuration, verifies the
// connection, and applies the schema. The caller owns the returned Store
// for the duration of a run and must Close it on every exit path.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch Driver(cfg.Database.Driver) {
	case DriverMySQL:
		return openMySQL(ctx, cfg)
	case DriverSQLite:
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Paths.DataDir, "rollcall.db")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, driver: DriverSQLite, source: dbPath}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func openMySQL(ctx context.Context, cfg *config.Config) (*Store, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = cfg.Database.Host + ":" + strconv.Itoa(cfg.Database.Port)
	mysqlCfg.User = cfg.Database.User
	mysqlCfg.Passwd = cfg.Database.Password
	mysqlCfg.DBName = cfg.Database.Name
	// Schema bootstrap executes the embedded DDL as one script.
	mysqlCfg.MultiStatements = true

	db, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to mysql at %s: %w", mysqlCfg.Addr, err)
	}

	store := &Store{db: db, driver: DriverMySQL, source: mysqlCfg.Addr + "/" + cfg.Database.Name}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver reports which backend the store is connected to.
func (s *Store) Driver() Driver {
	return s.driver
}

// Source describes the store location for logs and error messages.
func (s *Store) Source() string {
	return s.source
}

// FindIdentityByEmail returns the identity for an exact email match, or nil
// when no identity exists.
func (s *Store) FindIdentityByEmail(ctx context.Context, email string) (*Identity, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, name, email, department FROM users WHERE email = ?`,
		email,
	)
	var identity Identity
	if err := row.Scan(&identity.ID, &identity.Name, &identity.Email, &identity.Department); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &identity, nil
}

// Activity summarizes the seen events recorded for an identity: the total
// count and the most recent date. ok is false when no events exist.
func (s *Store) Activity(ctx context.Context, userID int64) (count int64, last string, ok bool, err error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(MAX(seen_date), '') FROM user_reports WHERE user_id = ?`,
		userID,
	)
	if err := row.Scan(&count, &last); err != nil {
		return 0, "", false, fmt.Errorf("identity activity: %w", err)
	}
	return count, last, count > 0, nil
}
