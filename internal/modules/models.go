package modules

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// JSONB wraps json.RawMessage with Scanner/Valuer for GORM JSONB columns.
// An empty value is stored as SQL NULL, which is how "no sentiment yet" reads.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// Module is one reviewable course. Code is globally unique and matched
// case-insensitively on lookup (enforced by a LOWER(code) index in Init).
type Module struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:200;index;not null" json:"name"`

	Units       int    `json:"units"`
	Description string `gorm:"type:text" json:"description"`
	URL         string `gorm:"size:500" json:"url"`

	SemestersAvailable pq.StringArray `gorm:"type:text[]" json:"semesters"`

	// Derived from the latest successful scrape.
	CommentCount         int  `gorm:"default:0" json:"comment_count"`
	HasSufficientReviews bool `gorm:"default:false" json:"has_sufficient_reviews"`

	// Aggregated sentiment analysis result; NULL until the analysis pass runs.
	SentimentData  JSONB      `gorm:"type:jsonb" json:"sentiment_data,omitempty"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Comment is one scraped review attached to a module. The upstream widget
// exposes no stable ID, so comments carry only content-adjacent metadata.
type Comment struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	ModuleID uint `gorm:"not null;index" json:"-"`

	Text     string     `gorm:"type:text;not null" json:"text"`
	PostedAt *time.Time `json:"posted_date"`
	Upvotes  int        `gorm:"default:0" json:"upvotes"`
	Author   string     `gorm:"size:120" json:"author"`

	ScrapedAt time.Time `json:"-"`
}
