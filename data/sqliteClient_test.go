package data

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/KotFed0t/holdings_keeper/config"
)

func TestNewSqliteClient_UnreachablePath(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sqlite.Path = filepath.Join(t.TempDir(), "missing", "sub", "holdings.db")
	cfg.Sqlite.BusyTimeout = time.Second

	db, err := NewSqliteClient(cfg)
	if db != nil {
		_ = db.Close()
	}
	if !errors.Is(err, ErrConnectionUnavailable) {
		t.Fatalf("NewSqliteClient(unreachable path) error = %v, want ErrConnectionUnavailable", err)
	}
}
