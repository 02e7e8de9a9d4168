package datastore

import (
	"context"
	"time"

	"sales_crm/config"
	"sales_crm/internal/database"
)

// Open tạo Store theo DB_DRIVER, chạy migrate/tạo index khi cần
func Open(ctx context.Context, c *config.Configuration) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if c.DBDriver == config.DriverMongoDB {
		client, err := database.GetMongoClient(c)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, c.MongoDB_DBName)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		return store, nil
	}

	db, dialect, err := database.OpenSQL(c)
	if err != nil {
		return nil, err
	}
	if c.SQL_AutoMigrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			db.Close()
			return nil, err
		}
	}
	return NewSQLStore(db, dialect), nil
}
