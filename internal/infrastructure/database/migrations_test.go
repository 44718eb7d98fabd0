package database

import (
	"context"
	"testing"
	"testing/fstest"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"20260101_000000_first.up.sql":    {Data: []byte("CREATE TABLE first (id INTEGER)")},
		"20260101_000000_first.down.sql":  {Data: []byte("DROP TABLE first")},
		"20260102_000000_second.up.sql":   {Data: []byte("CREATE TABLE second (id INTEGER)")},
		"20260102_000000_second.down.sql": {Data: []byte("DROP TABLE second")},
		"README.md":                       {Data: []byte("ignored")},
		"20260103_000000_orphan.down.sql": {Data: []byte("SELECT 1")},
	}
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	applied, err := db.Migrate(ctx, testMigrations())
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if !tableExists(t, db, "first") || !tableExists(t, db, "second") {
		t.Error("migration tables missing")
	}

	// Idempotent.
	applied, err = db.Migrate(ctx, testMigrations())
	if err != nil || applied != 0 {
		t.Errorf("second Migrate() = %d, %v; want 0, nil", applied, err)
	}

	pending, err := db.Pending(ctx, testMigrations())
	if err != nil || len(pending) != 0 {
		t.Errorf("Pending() = %v, %v; want none", pending, err)
	}
}

func TestMigrate_FailureKeepsEarlier(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"20260101_000000_ok.up.sql":  {Data: []byte("CREATE TABLE ok (id INTEGER)")},
		"20260102_000000_bad.up.sql": {Data: []byte("CREATE TABLE (")},
	}

	applied, err := db.Migrate(context.Background(), fsys)
	if err == nil {
		t.Fatal("Migrate() expected error")
	}
	if applied != 1 || !tableExists(t, db, "ok") {
		t.Errorf("applied = %d, ok table = %v; want first migration committed", applied, tableExists(t, db, "ok"))
	}
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Migrate(ctx, testMigrations()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx, testMigrations()); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	if tableExists(t, db, "second") {
		t.Error("second table still present after rollback")
	}
	if !tableExists(t, db, "first") {
		t.Error("first table removed by rollback")
	}

	pending, err := db.Pending(ctx, testMigrations())
	if err != nil || len(pending) != 1 || pending[0].Name != "second" {
		t.Errorf("Pending() = %+v, %v; want [second]", pending, err)
	}
}

func TestMigrateNilFS(t *testing.T) {
	db := openTestDB(t)

	applied, err := db.Migrate(context.Background(), nil)
	if err != nil || applied != 0 {
		t.Errorf("Migrate(nil) = %d, %v; want 0, nil", applied, err)
	}
	if err := db.MigrateDown(context.Background(), nil); err != nil {
		t.Errorf("MigrateDown(nil) on empty db error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOK      bool
	}{
		{"20260301_090000_generated_plans.up.sql", "20260301_090000", "generated_plans", true, true},
		{"20260301_090000_generated_plans.down.sql", "20260301_090000", "generated_plans", false, true},
		{"20260301_090000.up.sql", "20260301_090000", "20260301_090000", true, true},
		{"20260301.up.sql", "", "", false, false},
		{"20260301_090000_x.sql", "", "", false, false},
		{"notes.txt", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, up, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || name != tt.wantName || up != tt.wantUp {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)",
					version, name, up, tt.wantVersion, tt.wantName, tt.wantUp)
			}
		})
	}
}
