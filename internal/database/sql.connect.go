package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales_crm/config"
	"sales_crm/internal/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenSQL mở kết nối SQL theo DB_DRIVER (postgres, mysql, sqlite) và ping kiểm tra
func OpenSQL(c *config.Configuration) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(c.DBDriver)
	if err != nil {
		return nil, dialect, err
	}
	db, err := OpenSQLWithDialect(dialect, c.SQL_DSN)
	if err != nil {
		return nil, dialect, err
	}
	logger.GetAppLogger().WithField("driver", dialect.Name).Info("Successfully connected to SQL database")
	return db, dialect, nil
}

// OpenSQLWithDialect mở kết nối với dialect đã chọn
func OpenSQLWithDialect(dialect Dialect, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("SQL DSN is empty")
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if dialect.Name == config.DriverSQLite {
		// Mỗi connection sqlite (nhất là :memory:) là một database riêng
		db.SetMaxOpenConns(1)
		for _, p := range []string{"PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("exec pragma %q: %w", p, err)
			}
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	return db, nil
}
