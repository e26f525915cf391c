package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/example/sidedish/internal/models"
)

const defaultMaxAttempts = 8

// DocumentCollection stores a collection as a single row of the collections
// table. Writers compare-and-swap on the row version, so updates from
// several processes sharing one database serialize correctly.
type DocumentCollection[T any] struct {
	db          *gorm.DB
	name        string
	maxAttempts int
}

// NewDocumentCollection returns a collection stored under name.
func NewDocumentCollection[T any](db *gorm.DB, name string) *DocumentCollection[T] {
	return &DocumentCollection[T]{db: db, name: name, maxAttempts: defaultMaxAttempts}
}

// Load decodes the stored document. A missing row yields no records.
func (c *DocumentCollection[T]) Load(ctx context.Context) ([]T, error) {
	records, _, _, err := c.load(ctx)
	return records, err
}

// Update applies fn and writes the result if the version is unchanged,
// retrying against fresh data otherwise.
func (c *DocumentCollection[T]) Update(ctx context.Context, fn MutateFunc[T]) error {
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		records, version, exists, err := c.load(ctx)
		if err != nil {
			return err
		}

		next, err := fn(records)
		if err != nil {
			return err
		}
		if next == nil {
			next = []T{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("storage/document: encode %s: %w", c.name, err)
		}

		if !exists {
			doc := models.Document{Name: c.name, Data: string(data), Version: 1}
			if err := c.db.WithContext(ctx).Create(&doc).Error; err != nil {
				// Another writer may have created the row first.
				if _, _, nowExists, loadErr := c.load(ctx); loadErr == nil && nowExists {
					continue
				}
				return fmt.Errorf("storage/document: create %s: %w", c.name, err)
			}
			return nil
		}

		res := c.db.WithContext(ctx).Model(&models.Document{}).
			Where("name = ? AND version = ?", c.name, version).
			Updates(map[string]any{
				"data":       string(data),
				"version":    version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("storage/document: update %s: %w", c.name, res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return ErrConflict
}

func (c *DocumentCollection[T]) load(ctx context.Context) ([]T, int64, bool, error) {
	var doc models.Document
	err := c.db.WithContext(ctx).Where("name = ?", c.name).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []T{}, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("storage/document: load %s: %w", c.name, err)
	}

	records := []T{}
	if doc.Data != "" {
		if err := json.Unmarshal([]byte(doc.Data), &records); err != nil {
			return nil, 0, false, fmt.Errorf("storage/document: decode %s: %w", c.name, err)
		}
		if records == nil {
			records = []T{}
		}
	}
	return records, doc.Version, true, nil
}
