package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sales_crm/config"
	"sales_crm/internal/logger"
)

// migration một bước nâng cấp schema; %s được thay bằng kiểu cột theo dialect
type migration struct {
	version    int
	statements func(d Dialect) []string
}

var migrations = []migration{
	{version: 1, statements: schemaV1},
}

func schemaV1(d Dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id                   %s,
			name                 %s NOT NULL,
			email                %s NOT NULL,
			role                 %s NOT NULL,
			enable_notifications %s
		)`, d.IDColumn, d.KeyText, d.KeyText, d.KeyText, d.BoolColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pipelines (
			id             %s,
			opportunity_id BIGINT NOT NULL DEFAULT 0,
			status         %s NOT NULL,
			owner_id       BIGINT NOT NULL,
			order_value    %s,
			created_at     BIGINT NOT NULL,
			updated_at     BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText, d.MoneyColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS opportunities (
			id         %s,
			name       %s NOT NULL,
			owner_id   BIGINT NOT NULL,
			lead_id    BIGINT NULL,
			created_at BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS leads (
			id                  %s,
			name                %s NOT NULL,
			status              %s NOT NULL,
			qualification_stage %s NOT NULL,
			owner_id            BIGINT NOT NULL,
			created_date        BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText, d.KeyText, d.KeyText),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS quotations (
			id             %s,
			opportunity_id BIGINT NOT NULL DEFAULT 0,
			owner_id       BIGINT NOT NULL,
			status         %s NOT NULL,
			total_value    %s,
			created_at     BIGINT NOT NULL,
			updated_at     BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText, d.MoneyColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS immediate_sales (
			id            %s,
			owner_id      BIGINT NOT NULL,
			customer_name %s NOT NULL,
			amount        %s,
			sold_at       BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText, d.MoneyColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS attendances (
			id      %s,
			user_id BIGINT NOT NULL,
			date    BIGINT NOT NULL,
			status  %s NOT NULL,
			note    TEXT
		)`, d.IDColumn, d.KeyText),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS notifications (
			id         %s,
			user_id    BIGINT NOT NULL,
			title      %s NOT NULL,
			message    TEXT NOT NULL,
			type       %s NOT NULL,
			link       TEXT,
			is_read    %s,
			created_at BIGINT NOT NULL
		)`, d.IDColumn, d.KeyText, d.KeyText, d.BoolColumn),
		"CREATE UNIQUE INDEX idx_users_email ON users(email)",
		"CREATE INDEX idx_pipelines_updated ON pipelines(updated_at, owner_id)",
		"CREATE INDEX idx_pipelines_created ON pipelines(created_at, owner_id)",
		"CREATE INDEX idx_quotations_updated ON quotations(updated_at, owner_id)",
		"CREATE INDEX idx_leads_created ON leads(created_date, owner_id)",
		"CREATE INDEX idx_opportunities_created ON opportunities(created_at, owner_id)",
		"CREATE INDEX idx_immediate_sales_sold ON immediate_sales(sold_at, owner_id)",
		"CREATE INDEX idx_attendances_date ON attendances(date, user_id)",
		"CREATE INDEX idx_notifications_user ON notifications(user_id, created_at)",
	}
}

// Migrate đưa schema lên phiên bản mới nhất, ghi version vào bảng schema_migrations
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.version) <= current.Int64 {
			continue
		}
		for _, stmt := range m.statements(d) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if isIndexExistsError(err) || isMySQLDuplicateIndex(d, err) {
					continue
				}
				return fmt.Errorf("migrate v%d: %w", m.version, err)
			}
		}
		if _, err := db.ExecContext(ctx, d.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), m.version); err != nil {
			return fmt.Errorf("record schema version %d: %w", m.version, err)
		}
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"driver":  d.Name,
			"version": m.version,
		}).Info("Đã migrate schema SQL")
	}
	return nil
}

func isMySQLDuplicateIndex(d Dialect, err error) bool {
	return d.Name == config.DriverMySQL && strings.Contains(err.Error(), "Duplicate key name")
}
