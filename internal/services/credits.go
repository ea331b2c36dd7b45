package services

import (
	"fmt"
	"time"

	"github.com/Conceptual-Machines/fable-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditsService struct {
	db *gorm.DB
}

func NewCreditsService(db *gorm.DB) *CreditsService {
	return &CreditsService{db: db}
}

// GetUserCredits retrieves the current credit balance for a user
func (s *CreditsService) GetUserCredits(userID uint) (*models.UserCredits, error) {
	var credits models.UserCredits
	if err := s.db.Where("user_id = ?", userID).First(&credits).Error; err != nil {
		return nil, err
	}
	return &credits, nil
}

// HasSufficientCredits checks if a user has enough credits for a generation
func (s *CreditsService) HasSufficientCredits(userID uint, requiredCredits int) (bool, int, error) {
	credits, err := s.GetUserCredits(userID)
	if err != nil {
		return false, 0, err
	}
	return credits.Credits >= requiredCredits, credits.Credits, nil
}

// CalculateCredits calculates credit cost for a generation
// Flat rate: 1 credit per story (regardless of length or engine)
// Word and pseudo-token counts are still logged for analytics
func (s *CreditsService) CalculateCredits(_ int) int {
	return 1 // Flat rate: 1 credit = 1 story
}

// DeductCredits deducts credits from a user's balance
// If already negative, blocks the request (must top up first)
// If positive, allows going negative by one request (overdraft grace)
// Users with unlimited credits (e.g., admins) are not deducted
func (s *CreditsService) DeductCredits(userID uint, credits int) error {
	// Check if user has unlimited credits
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if models.HasUnlimitedCredits(user.Role) {
		// Don't deduct for unlimited users (admins)
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the row to prevent race conditions
		var userCredits models.UserCredits
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&userCredits).Error; err != nil {
			return err
		}

		// If already in overdraft (negative), require top-up before next request
		if userCredits.Credits < 0 {
			return fmt.Errorf("account in overdraft (%d credits). Please purchase credits to continue",
				userCredits.Credits)
		}

		// Allow going negative (one-time overdraft grace)
		userCredits.Credits -= credits
		return tx.Save(&userCredits).Error
	})
}

// AddCredits adds credits to a user's balance (for purchases/rewards)
// If balance is negative, resets to 0 first (forgives overdraft), then adds credits
func (s *CreditsService) AddCredits(userID uint, credits int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var userCredits models.UserCredits
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&userCredits).Error; err != nil {
			return err
		}

		// If in overdraft, reset to 0 first (forgive the debt)
		if userCredits.Credits < 0 {
			userCredits.Credits = credits
		} else {
			userCredits.Credits += credits
		}
		return tx.Save(&userCredits).Error
	})
}

// RefundCredits returns a charge taken by DeductCredits when the paid-for
// generation never completed. Unlike AddCredits it does not forgive an
// overdraft: the balance simply goes back to where it was before the charge.
// Users with unlimited credits were never deducted, so nothing is returned.
func (s *CreditsService) RefundCredits(userID uint, credits int) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if models.HasUnlimitedCredits(user.Role) {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var userCredits models.UserCredits
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&userCredits).Error; err != nil {
			return err
		}

		userCredits.Credits += credits
		return tx.Save(&userCredits).Error
	})
}

// LogUsage logs a story generation and its credit consumption
func (s *CreditsService) LogUsage(log *models.UsageLog) error {
	return s.db.Create(log).Error
}

// GetUserUsageStats retrieves usage statistics for a user
func (s *CreditsService) GetUserUsageStats(userID uint, from, to time.Time) (*UsageStats, error) {
	var stats UsageStats

	query := s.db.Model(&models.UsageLog{}).Where("user_id = ?", userID)

	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at <= ?", to)
	}

	if err := query.Select(
		"COUNT(*) as total_stories",
		"COALESCE(SUM(credits_charged), 0) as total_credits_used",
		"COALESCE(SUM(total_tokens), 0) as total_tokens_used",
		"COALESCE(AVG(duration_ms), 0) as avg_duration_ms",
	).Scan(&stats).Error; err != nil {
		return nil, err
	}

	stats.MoodUsage = make(map[string]int64)
	stats.StyleUsage = make(map[string]int64)

	rows := []struct {
		Mood  string
		Style string
		Count int64
	}{}
	breakdown := s.db.Model(&models.UsageLog{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		breakdown = breakdown.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		breakdown = breakdown.Where("created_at <= ?", to)
	}
	if err := breakdown.Select("mood, style, COUNT(*) as count").
		Group("mood, style").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.MoodUsage[row.Mood] += row.Count
		stats.StyleUsage[row.Style] += row.Count
	}

	return &stats, nil
}

type UsageStats struct {
	TotalStories     int64            `json:"total_stories"`
	TotalTokensUsed  int64            `json:"total_tokens_used"`
	TotalCreditsUsed int64            `json:"total_credits_used"`
	AvgDurationMS    float64          `json:"avg_duration_ms"`
	MoodUsage        map[string]int64 `json:"mood_usage"`
	StyleUsage       map[string]int64 `json:"style_usage"`
}
