package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Journal persists user-facing notices. It is write-only from the
// terminal's point of view: nothing read back from it feeds the live state.
type Journal struct {
	db *gorm.DB
}

// NewJournal opens (or creates) the SQLite journal at path.
func NewJournal(path string) (*Journal, error) {
	if path != MemoryPath {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.JournalEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends a notice under the given connection session.
func (j *Journal) Record(ctx context.Context, sessionID string, n domain.Notice) error {
	entry := domain.JournalEntry{
		SessionID: sessionID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		CreatedAt: n.At,
	}
	return j.db.WithContext(ctx).Create(&entry).Error
}

// Entries returns the notices of one session, oldest first.
func (j *Journal) Entries(ctx context.Context, sessionID string) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := j.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&entries).Error
	return entries, err
}

// Sessions lists distinct session ids in first-seen order.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := j.db.WithContext(ctx).
		Model(&domain.JournalEntry{}).
		Select("session_id").
		Group("session_id").
		Order("MIN(id) asc").
		Pluck("session_id", &ids).Error
	return ids, err
}

// Close releases the underlying connection.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
