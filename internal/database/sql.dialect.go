package database

import (
	"fmt"
	"strconv"
	"strings"

	"sales_crm/config"
)

// Dialect khác biệt cú pháp giữa các hệ quản trị SQL
type Dialect struct {
	Name       string // postgres, mysql, sqlite
	DriverName string // tên driver đăng ký với database/sql

	// Kiểu cột dùng trong DDL
	IDColumn    string
	MoneyColumn string
	BoolColumn  string
	KeyText     string // cột text có index (MySQL không index được TEXT)
}

// DialectFor trả về Dialect theo tên driver trong cấu hình
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return Dialect{
			Name:        config.DriverPostgres,
			DriverName:  "postgres",
			IDColumn:    "BIGSERIAL PRIMARY KEY",
			MoneyColumn: "NUMERIC(18,2) NOT NULL DEFAULT 0",
			BoolColumn:  "BOOLEAN NOT NULL DEFAULT FALSE",
			KeyText:     "VARCHAR(255)",
		}, nil
	case config.DriverMySQL:
		return Dialect{
			Name:        config.DriverMySQL,
			DriverName:  "mysql",
			IDColumn:    "BIGINT AUTO_INCREMENT PRIMARY KEY",
			MoneyColumn: "DECIMAL(18,2) NOT NULL DEFAULT 0",
			BoolColumn:  "BOOLEAN NOT NULL DEFAULT FALSE",
			KeyText:     "VARCHAR(255)",
		}, nil
	case config.DriverSQLite:
		return Dialect{
			Name:        config.DriverSQLite,
			DriverName:  "sqlite",
			IDColumn:    "INTEGER PRIMARY KEY AUTOINCREMENT",
			MoneyColumn: "TEXT NOT NULL DEFAULT '0'",
			BoolColumn:  "INTEGER NOT NULL DEFAULT 0",
			KeyText:     "TEXT",
		}, nil
	}
	return Dialect{}, fmt.Errorf("unsupported SQL driver %q", driver)
}

// Rebind đổi placeholder "?" sang "$n" cho postgres
func (d Dialect) Rebind(query string) string {
	if d.Name != config.DriverPostgres {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SupportsReturning postgres trả ID qua RETURNING, các dialect còn lại dùng LastInsertId
func (d Dialect) SupportsReturning() bool {
	return d.Name == config.DriverPostgres
}
