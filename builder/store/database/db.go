package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mindshard/mindshard-server/builder/store/database/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/migrate"
)

type DatabaseDialect string

const (
	DialectPostgres DatabaseDialect = "pg"
)

type DBConfig struct {
	Dialect DatabaseDialect
	DSN     string
}

// Operator wraps the bun connection used by all stores.
type Operator struct {
	Core *bun.DB
}

type DB struct {
	Operator
	BunDB *bun.DB
}

func (db *DB) Close() error {
	return db.BunDB.Close()
}

var defaultDB *DB

// InitDB connects to the configured database and sets the package-level
// default used by store constructors. Call once at startup, before any
// NewXxxStore.
func InitDB(config DBConfig) error {
	db, err := NewDB(context.Background(), config)
	if err != nil {
		return err
	}
	defaultDB = db
	return nil
}

func GetDB() *DB {
	return defaultDB
}

func NewMigrator(db *DB) *migrate.Migrator {
	return migrate.NewMigrator(db.BunDB, migrations.Migrations)
}

func NewDB(ctx context.Context, config DBConfig) (*DB, error) {
	var bunDB *bun.DB
	switch config.Dialect {
	case DialectPostgres:
		sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.DSN)))
		bunDB = bun.NewDB(sqlDB, pgdialect.New(), bun.WithDiscardUnknownColumns())
	default:
		return nil, fmt.Errorf("unknown database dialect %q", config.Dialect)
	}

	err := bunDB.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("pinging %s database: %w", config.Dialect, err)
	}

	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),

		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	return &DB{
		Operator: Operator{Core: bunDB},
		BunDB:    bunDB,
	}, nil
}

// times adds the shared audit columns to a model.
type times struct {
	CreatedAt time.Time `bun:",nullzero,notnull,skipupdate,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func assertAffectedOneRow(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return fmt.Errorf("expected one row to be affected, got %d", affected)
	}
	return nil
}
