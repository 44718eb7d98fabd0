// Package database provides the SQLite connection used by the plan cache.
//
// It opens the database with WAL mode and a busy timeout, and applies
// embedded schema migrations. Migrations are supplied as an fs.FS so the
// binary carries its schema:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
package database
