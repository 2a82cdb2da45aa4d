// Package testutil builds a migrated, seeded in-memory store for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/room-scheduler/internal/db"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

var seq atomic.Int64

type Env struct {
	DB      *gorm.DB
	Catalog *lookup.Catalog
}

// NewEnv opens a private in-memory SQLite database, migrates it and
// seeds the lookup tables.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	gdb, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if err := lookup.Seed(ctx, gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	catalog, err := lookup.Load(ctx, gdb)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	return &Env{DB: gdb, Catalog: catalog}
}

func (e *Env) User(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s.%d@example.com", strings.ToLower(name), seq.Add(1)),
	}
	if err := e.DB.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *Env) Room(t *testing.T, name string) *models.Room {
	t.Helper()
	r := &models.Room{Name: name, Capacity: 10, Active: true}
	if err := e.DB.Create(r).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return r
}
