package handlers

const (
	// OAuth providers
	providerGoogle = "google"
	providerGitHub = "github"

	// Credit limits and defaults
	lowCreditThreshold = 20  // Warn users when credits fall below this
	maxHistoryPageSize = 100 // Maximum page size for story history

	// Input length bounds for mood classification
	minClassifyChars = 3
	maxClassifyChars = 500
)
