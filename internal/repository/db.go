package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-tracker/internal/model"
)

// SchemaVersion is the current on-disk schema version. Version 1 introduced
// the task table, version 2 the category table with its seed data.
const SchemaVersion = 2

// Mode describes how the store opened.
type Mode int

const (
	// ModePersistent means the SQLite store is open and migrated.
	ModePersistent Mode = iota
	// ModeUnavailable means persistence is disabled on this host; callers run
	// on ephemeral in-memory repositories instead.
	ModeUnavailable
	// ModeFailed means the store exists but could not be opened or migrated;
	// the same in-memory degradation applies, with a diagnostic attached.
	ModeFailed
)

func (m Mode) String() string {
	switch m {
	case ModePersistent:
		return "persistent"
	case ModeUnavailable:
		return "unavailable"
	case ModeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// defaultCategories is the fixed set seeded exactly once, when the category
// table is first created. After that they are ordinary records.
func defaultCategories() []model.Category {
	return []model.Category{
		{Name: "Default", Slug: "default"},
		{Name: "Work", Slug: "work"},
		{Name: "Personal", Slug: "personal"},
		{Name: "Study", Slug: "study"},
		{Name: "Other", Slug: "other"},
	}
}

// schemaInfo tracks the applied schema version in a single row.
type schemaInfo struct {
	ID      uint `gorm:"primaryKey"`
	Version int
}

func (schemaInfo) TableName() string { return "schema_info" }

// Store owns the process-wide connection and the runner serializing access to
// it. It is created once at startup and passed to every repository.
type Store struct {
	db     *gorm.DB
	runner *txRunner
	mode   Mode
	diag   string
	seeded bool
}

// Open opens (creating if absent) the SQLite store at dsn and migrates it to
// the current schema version. It never returns an error: failure to persist is
// a mode the caller degrades around, not a fatal condition.
func Open(dsn string) *Store {
	if dsn == "" || strings.EqualFold(dsn, "off") {
		return &Store{mode: ModeUnavailable, diag: "persistence disabled"}
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return &Store{mode: ModeFailed, diag: err.Error()}
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
	})
	if err != nil {
		return &Store{mode: ModeFailed, diag: fmt.Sprintf("open db: %v", err)}
	}

	s := &Store{db: db, mode: ModePersistent}
	if err := s.migrate(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return &Store{mode: ModeFailed, diag: fmt.Sprintf("migrate db: %v", err)}
	}

	s.runner = newTxRunner()
	return s
}

// Mode reports how the store opened.
func (s *Store) Mode() Mode { return s.mode }

// Diag returns the diagnostic message for a failed or unavailable open.
func (s *Store) Diag() string { return s.diag }

// Seeded reports whether this open created the category table and seeded the
// default set. Subsequent opens of the same file report false.
func (s *Store) Seeded() bool { return s.seeded }

// Close stops the runner and releases the connection.
func (s *Store) Close() {
	if s.mode != ModePersistent {
		return
	}
	s.runner.close()
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// migrations run in increasing version order. Each step checks for the
// structures it creates, so re-running against a current store is a no-op.
var migrations = []struct {
	version int
	apply   func(s *Store) error
}{
	{1, migrateTasks},
	{2, migrateCategories},
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&schemaInfo{}); err != nil {
		return fmt.Errorf("schema info table: %w", err)
	}

	var info schemaInfo
	err := s.db.First(&info).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		info = schemaInfo{ID: 1}
		if err := s.db.Create(&info).Error; err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if info.Version >= m.version {
			continue
		}
		if err := m.apply(s); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		info.Version = m.version
		if err := s.db.Save(&info).Error; err != nil {
			return fmt.Errorf("record schema v%d: %w", m.version, err)
		}
	}

	return nil
}

func migrateTasks(s *Store) error {
	if s.db.Migrator().HasTable(&model.Task{}) {
		return nil
	}
	return s.db.AutoMigrate(&model.Task{})
}

func migrateCategories(s *Store) error {
	if s.db.Migrator().HasTable(&model.Category{}) {
		return nil
	}
	if err := s.db.AutoMigrate(&model.Category{}); err != nil {
		return err
	}
	// Seed defaults only when the table was just created, never on later opens.
	seed := defaultCategories()
	if err := s.db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	s.seeded = true
	return nil
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
