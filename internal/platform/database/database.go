package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"logic_exercises/internal/platform/config"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver for local runs
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

var DB *sql.DB

func Connect() {
	var err error
	dsn := config.AppConfig.DBConnStr
	if config.AppConfig.DBDriver == DriverSQLite {
		dsn = config.AppConfig.DBSQLitePath
	}
	DB, err = Open(config.AppConfig.DBDriver, dsn)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	if config.AppConfig.DBAutoMigrate {
		if err := Migrate(context.Background(), DB, config.AppConfig.DBDriver); err != nil {
			log.Fatalf("Error applying schema: %v", err)
		}
	}

	log.Printf("INFO: connected to %s database", config.AppConfig.DBDriver)
}

// Open returns a pooled handle for driver after verifying the connection.
// For sqlite3, dsn is a file path.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = "file:" + dsn + "?_foreign_keys=on&_busy_timeout=5000"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Println("INFO: database connection closed")
	}
}
