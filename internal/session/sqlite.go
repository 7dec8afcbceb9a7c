package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clubdesk/console/internal/assert"
)

// storedRecord is one named client record
type storedRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Token     string    `gorm:"type:text"`
	UserInfo  string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (storedRecord) TableName() string {
	return "client_records"
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (r *storedRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	assert.Length(r.ID, 26)
	return nil
}

// SQLitePersister keeps the record in a local SQLite database
type SQLitePersister struct {
	db  *gorm.DB
	key string
}

// OpenSQLite opens (and migrates) the database at path
func OpenSQLite(path string) (*SQLitePersister, error) {
	assert.NotEmpty(RecordKey, "record name")

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// One writer keeps SQLite free of busy errors
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(&storedRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLitePersister{db: db, key: RecordKey}, nil
}

// Load reads the record. A missing row is an empty record.
func (p *SQLitePersister) Load() (Record, error) {
	var row storedRecord
	if err := p.db.Where("name = ?", p.key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("failed to load session: %w", err)
	}

	rec := Record{Token: row.Token}
	if row.UserInfo != "" {
		if err := json.Unmarshal([]byte(row.UserInfo), &rec.UserInfo); err != nil {
			return Record{}, fmt.Errorf("failed to parse stored profile: %w", err)
		}
	}
	return rec, nil
}

// Save upserts the record
func (p *SQLitePersister) Save(rec Record) error {
	userInfo := ""
	if rec.UserInfo != nil {
		data, err := json.Marshal(rec.UserInfo)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		userInfo = string(data)
	}

	var row storedRecord
	err := p.db.Where(storedRecord{Name: p.key}).
		Assign(map[string]any{"token": rec.Token, "user_info": userInfo}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear deletes the record
func (p *SQLitePersister) Clear() error {
	if err := p.db.Where("name = ?", p.key).Delete(&storedRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the database
func (p *SQLitePersister) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
