package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout     = 30 * time.Second
	SearchTimeout           = 10 * time.Second
	BatchQueryTimeout       = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	NetworkDialTimeout      = 5 * time.Second
	NetworkKeepAlive        = 30 * time.Second

	// Cache settings
	FragmentCacheSize       = 1024
	FragmentCacheExpiration = 5 * time.Minute
)

// Economy Constants
const (
	DailyGiftAmount   = 10
	DailyGiftPeriod   = 24 * time.Hour
	OnboardingBesitos = 30
)

// Narrative Constants
const (
	// Reading-time clamp bounds; intervals outside are discarded or capped.
	MinReadingTime = 3 * time.Second
	MaxReadingTime = 600 * time.Second

	// Default daily budgets; DailyNarrativeLimit rows may override per user.
	DefaultMaxFragments  = 50
	DefaultMaxDecisions  = 30
	DefaultMaxChallenges = 20

	// Hints release one per failed attempt.
	ChallengeDefaultTimeout = 5 * time.Minute
)

// Lifecycle Constants
const (
	NewAccountMaxAge   = 7 * 24 * time.Hour
	ActiveMaxInactive  = 3 * 24 * time.Hour
	AtRiskMaxInactive  = 7 * 24 * time.Hour
	DormantMaxInactive = 30 * 24 * time.Hour

	// Welcome-back bonus by tier of absence.
	WelcomeBackAtRisk  = 20
	WelcomeBackDormant = 50
	WelcomeBackLost    = 100

	// Re-engagement dignity caps.
	ReengagementMinGap        = 7 * 24 * time.Hour
	ReengagementMaxTrajectory = 3
)

// Conversion Constants
const (
	// Dignity windows per (user, offer_type).
	AcceptedSuppressWindow = 30 * 24 * time.Hour
	DeclinedSuppressWindow = 7 * 24 * time.Hour

	// Discount components stack additively up to the cap.
	MaxDiscountPercent           = 40.0
	FirstPurchaseDiscount        = 10.0
	MaxLevelDiscount             = 15.0
	MaxStreakDiscount            = 10.0
	MaxArchetypeDiscount         = 5.0
	ArchetypeDiscountMinConfidence = 0.6
)

// Archetype Constants
const (
	ArchetypeMinDecisions     = 5
	ArchetypeRecomputeAge     = 7 * 24 * time.Hour
	ArchetypeRecomputeDelta   = 10
	ArchetypeConfidenceAnchor = 20
)

// Transport Constants
const (
	// Inter-send pause when dispatching multimedia sets.
	ContentSendDelay = 500 * time.Millisecond

	// VIP channel invite links expire after this window.
	InviteLinkExpiry = 5 * time.Hour
)
