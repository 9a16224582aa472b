package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DSN builds the driver connection string.
// parseTime=true -> DATETIME -> time.Time | loc=Local so day-boundary
// stats queries line up with local midnight. clientFoundRows=true makes
// RowsAffected report matched rows instead of changed rows: the
// repositories map zero affected rows to not-found, and without this flag
// an update that re-sends the stored values would read as a missing record.
func DSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true",
		auth, host, port, name)
}

// Open connects to MySQL and verifies the connection. The returned pool is
// opened once at process start, handed to the repositories explicitly, and
// closed at shutdown; nothing reaches it through package-level state.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
