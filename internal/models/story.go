package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Conceptual-Machines/fable-api/internal/catalog"
	"github.com/Conceptual-Machines/fable-api/internal/content"
)

// StringList stores a string slice as a jsonb column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// PosterColumn stores the poster concept as a jsonb column
type PosterColumn content.Poster

func (p PosterColumn) Value() (driver.Value, error) {
	return json.Marshal(content.Poster(p))
}

func (p *PosterColumn) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// TrackList stores soundtrack recommendations as a jsonb column
type TrackList []catalog.Track

func (t TrackList) Value() (driver.Value, error) {
	if t == nil {
		t = TrackList{}
	}
	return json.Marshal(t)
}

func (t *TrackList) Scan(value interface{}) error {
	return scanJSON(value, t)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// Story is a saved generation. The creative fields are snapshots: edits go
// through versions, and the current state lives on the story row itself.
type Story struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	PublicID  string         `gorm:"uniqueIndex;not null" json:"id"` // UUID exposed to clients
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Title   string `gorm:"not null" json:"title"`
	Tagline string `json:"tagline"`
	Mood    string `gorm:"not null;index" json:"mood"`
	Style   string `gorm:"not null;index" json:"style"`
	Engine  string `json:"engine"`

	// InputText is the classified text when the story came from /classify,
	// empty when the mood was picked directly.
	InputText  string  `gorm:"type:text" json:"input_text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	Paragraphs StringList   `gorm:"type:jsonb;not null" json:"paragraphs"`
	Themes     StringList   `gorm:"type:jsonb" json:"themes"`
	Poster     PosterColumn `gorm:"type:jsonb" json:"poster"`
	Soundtrack TrackList    `gorm:"type:jsonb" json:"soundtrack"`

	WordCount      int `gorm:"not null" json:"word_count"`
	CurrentVersion int `gorm:"default:1;not null" json:"current_version"`
}

// StoryVersion is an immutable snapshot of the story text at one point.
// Version 1 is the generated original; later versions are edits.
type StoryVersion struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	StoryID uint  `gorm:"not null;uniqueIndex:idx_story_version" json:"-"`
	Story   Story `gorm:"foreignKey:StoryID" json:"-"`
	Number  int   `gorm:"not null;uniqueIndex:idx_story_version" json:"number"`

	EditorID uint   `gorm:"index" json:"editor_id"`
	Note     string `gorm:"type:text" json:"note,omitempty"`

	Title      string     `gorm:"not null" json:"title"`
	Tagline    string     `json:"tagline"`
	Paragraphs StringList `gorm:"type:jsonb;not null" json:"paragraphs"`
}

// Collaborator roles
const (
	CollaboratorRoleViewer = "viewer"
	CollaboratorRoleEditor = "editor"
)

// Collaborator grants another user access to a story
type Collaborator struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoryID uint  `gorm:"not null;uniqueIndex:idx_story_collaborator" json:"-"`
	Story   Story `gorm:"foreignKey:StoryID" json:"-"`

	UserID uint `gorm:"not null;uniqueIndex:idx_story_collaborator" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Role        string `gorm:"not null;default:'viewer'" json:"role"` // "viewer", "editor"
	InvitedByID uint   `gorm:"index" json:"invited_by_id"`
}

// CanEdit reports whether the collaborator may change the story text.
func (c *Collaborator) CanEdit() bool {
	return c.Role == CollaboratorRoleEditor
}

// ValidCollaboratorRole checks a role string from a request.
func ValidCollaboratorRole(role string) bool {
	return role == CollaboratorRoleViewer || role == CollaboratorRoleEditor
}
