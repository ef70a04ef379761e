package database

import (
	"context"
	"testing"
)

func TestMigrationManager_UpVersionDown(t *testing.T) {
	cfg := sqliteConfig(t)
	manager := NewMigrationManager(cfg, testLogger())

	info, err := manager.GetMigrationInfo()
	if err != nil {
		t.Fatalf("GetMigrationInfo() failed: %v", err)
	}
	if info.Applied {
		t.Errorf("fresh database should have no applied migrations, got version %d", info.Version)
	}

	if err := manager.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	// Running again is a no-op
	if err := manager.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() failed: %v", err)
	}

	info, err = manager.GetMigrationInfo()
	if err != nil {
		t.Fatalf("GetMigrationInfo() failed: %v", err)
	}
	if !info.Applied || info.Version != 1 || info.Dirty {
		t.Errorf("migration info = %+v, want version 1 applied and clean", info)
	}

	ctx := context.Background()
	conn, err := NewSQLConnector(testLogger()).Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	cursor, err := conn.Query(ctx, "SELECT * FROM users;")
	if err != nil {
		t.Fatalf("users table should exist after migrating: %v", err)
	}
	cursor.Close()
	conn.Close()

	if err := manager.RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() failed: %v", err)
	}

	if err := manager.RollbackMigration(); err == nil {
		t.Error("RollbackMigration() should fail with nothing left to roll back")
	}
}

func TestMigrationManager_InvalidConfig(t *testing.T) {
	manager := NewMigrationManager(sqliteConfig(t), testLogger())
	manager.config.Driver = "oracle"

	if err := manager.RunMigrations(); err == nil {
		t.Error("RunMigrations() should fail for an unsupported driver")
	}
}
