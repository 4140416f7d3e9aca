package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// OpenMemory opens a migrated, private in-memory SQLite database.  Each
// distinct name is a separate database that lives until the handle is
// closed.  Used for local runs with DB_NAME=:memory: and by tests.
func OpenMemory(ctx context.Context, name string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
