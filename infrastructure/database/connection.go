package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName maps a DSN to its database/sql driver: postgres:// DSNs go
// through lib/pq, everything else is treated as a sqlite3 file path.
func DriverName(uri string) string {
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

// Open connects to the campaign store and reports which driver it picked,
// so callers can adjust placeholder style.
func Open(uri string) (*sql.DB, string, error) {
	driver := DriverName(uri)

	db, err := sql.Open(driver, uri)
	if err != nil {
		return nil, driver, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, driver, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		// Serialized writes; the engine is single-writer anyway
		db.SetMaxOpenConns(1)
	}
	return db, driver, nil
}
