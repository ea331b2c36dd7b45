package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

// InvitationCode gates beta signup. Codes are minted by admins and may allow
// one or many uses.
type InvitationCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code        string     `gorm:"uniqueIndex;not null" json:"code"`
	CreatedByID uint       `gorm:"index" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"-"`
	UsedByID    *uint      `gorm:"index" json:"used_by_id,omitempty"`
	UsedBy      *User      `gorm:"foreignKey:UsedByID" json:"-"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxUses     int        `gorm:"default:1" json:"max_uses"`
	CurrentUses int        `gorm:"default:0" json:"current_uses"`
	Note        string     `gorm:"type:text" json:"note,omitempty"` // Who the code is for
}

const invitationCodeBytes = 16

// GenerateInvitationCode creates a random invitation code
func GenerateInvitationCode() (string, error) {
	bytes := make([]byte, invitationCodeBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValid checks if the invitation code can still be redeemed
func (i *InvitationCode) IsValid() bool {
	if i.CurrentUses >= i.MaxUses {
		return false
	}
	if i.ExpiresAt != nil && time.Now().After(*i.ExpiresAt) {
		return false
	}
	return true
}

// MarkAsUsed records a redemption. Single-use codes also record who used them.
func (i *InvitationCode) MarkAsUsed(userID uint, db *gorm.DB) error {
	now := time.Now()
	i.CurrentUses++

	if i.MaxUses == 1 {
		i.UsedByID = &userID
		i.UsedAt = &now
	}

	return db.Save(i).Error
}
