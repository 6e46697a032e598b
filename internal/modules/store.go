package modules

import (
	"errors"
	"time"

	"github.com/CourseLens/CL-Backend/internal/catalog"
	"gorm.io/gorm"
)

// sufficientReviewThreshold is the review count above which a module gets
// full sentiment analysis instead of a raw-comment passthrough.
const sufficientReviewThreshold = 3

// Store wraps all module/comment persistence. Handlers and the ingest
// pipeline share one instance constructed over the process DB handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that run their own queries
// (the sentiment analyzer walks modules and comments directly).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// UpsertModule inserts or refreshes a module row keyed by code. Applying the
// same metadata twice leaves an identical row.
func (s *Store) UpsertModule(meta catalog.Metadata) (*Module, error) {
	var existing Module
	err := s.db.Where("LOWER(code) = LOWER(?)", meta.Code).First(&existing).Error

	if err == nil {
		updates := map[string]interface{}{
			"name":                meta.Name,
			"units":               meta.Units,
			"description":         meta.Description,
			"url":                 meta.URL,
			"semesters_available": meta.Semesters,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	module := Module{
		Code:               meta.Code,
		Name:               meta.Name,
		Units:              meta.Units,
		Description:        meta.Description,
		URL:                meta.URL,
		SemestersAvailable: meta.Semesters,
	}
	if err := s.db.Create(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// ReplaceComments atomically swaps a module's comment set for a fresh scrape
// and updates the derived counters in the same transaction. A failure
// mid-replace rolls back to the previous set; readers never observe a
// half-replaced state.
func (s *Store) ReplaceComments(moduleID uint, comments []Comment) error {
	now := time.Now().UTC()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&Comment{}).Error; err != nil {
			return err
		}

		for i := range comments {
			comments[i].ID = 0
			comments[i].ModuleID = moduleID
			if comments[i].ScrapedAt.IsZero() {
				comments[i].ScrapedAt = now
			}
		}
		if len(comments) > 0 {
			if err := tx.Create(&comments).Error; err != nil {
				return err
			}
		}

		return tx.Model(&Module{}).Where("id = ?", moduleID).Updates(map[string]interface{}{
			"comment_count":          len(comments),
			"has_sufficient_reviews": len(comments) > sufficientReviewThreshold,
		}).Error
	})
}

// SetCommentCount records the latest scrape size without touching stored
// comment rows. Used for the NotFound/NoReviews outcomes, where stale rows
// are preferred over data loss.
func (s *Store) SetCommentCount(moduleID uint, count int) error {
	return s.db.Model(&Module{}).Where("id = ?", moduleID).Updates(map[string]interface{}{
		"comment_count":          count,
		"has_sufficient_reviews": count > sufficientReviewThreshold,
	}).Error
}

// SaveSentiment stores a freshly computed sentiment result. The result is
// recomputed wholesale on each analysis run, never patched.
func (s *Store) SaveSentiment(moduleID uint, data JSONB, sufficient bool) error {
	now := time.Now().UTC()
	return s.db.Model(&Module{}).Where("id = ?", moduleID).Updates(map[string]interface{}{
		"sentiment_data":         data,
		"has_sufficient_reviews": sufficient,
		"last_analyzed_at":       now,
	}).Error
}

// ClearSentiment wipes sentiment data from every module, keeping modules and
// comments intact. Used before re-running the analysis pass.
func (s *Store) ClearSentiment() (int64, error) {
	result := s.db.Model(&Module{}).Where("sentiment_data IS NOT NULL OR has_sufficient_reviews").Updates(map[string]interface{}{
		"sentiment_data":         nil,
		"has_sufficient_reviews": false,
		"last_analyzed_at":       nil,
	})
	return result.RowsAffected, result.Error
}

// FindByCode looks a module up by exact code, case-insensitively.
func (s *Store) FindByCode(code string) (*Module, error) {
	var module Module
	err := s.db.Where("LOWER(code) = LOWER(?)", code).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// CommentsFor returns a module's comments in stored order. Reconciliation is
// order-dependent, so the ordering here is part of the contract.
func (s *Store) CommentsFor(moduleID uint) ([]Comment, error) {
	var comments []Comment
	err := s.db.Where("module_id = ?", moduleID).Order("id ASC").Find(&comments).Error
	return comments, err
}

// Search matches modules by partial code or name, case-insensitively.
func (s *Store) Search(query string, limit int) ([]Module, error) {
	var results []Module
	pattern := "%" + query + "%"
	err := s.db.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern).
		Limit(limit).Find(&results).Error
	return results, err
}

// List returns every module.
func (s *Store) List() ([]Module, error) {
	var results []Module
	err := s.db.Order("code ASC").Find(&results).Error
	return results, err
}
