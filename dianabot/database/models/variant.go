package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FragmentVariant is alternate content for a fragment, selected by user
// context. Among active variants ordered by priority descending, the first
// whose condition evaluates true wins; otherwise the base fragment is shown.
type FragmentVariant struct {
	bun.BaseModel `bun:"table:fragment_variants,alias:fv"`

	ID             int64  `bun:"id,pk,autoincrement"`
	FragmentKey    string `bun:"fragment_key,notnull"`
	VariantKey     string `bun:"variant_key,notnull"`
	Priority       int    `bun:"priority,notnull,default:0"`
	ConditionType  string `bun:"condition_type,notnull"`
	ConditionValue string `bun:"condition_value"`

	// Overrides merged onto the base fragment when the variant wins.
	SpeakerOverride string `bun:"speaker_override"`
	TitleOverride   string `bun:"title_override"`
	ContentOverride string `bun:"content_override"`

	AdditionalDecisions []VariantDecision `bun:"additional_decisions,type:jsonb"`
	IsActive            bool              `bun:"is_active,notnull,default:true"`
	CreatedAt           time.Time         `bun:"created_at,notnull,default:current_timestamp"`
}

// VariantDecision is an extra decision surfaced only when its variant wins.
type VariantDecision struct {
	ButtonText        string `json:"button_text"`
	TargetFragmentKey string `json:"target_fragment_key"`
	BesitosCost       int64  `json:"besitos_cost"`
}

// Variant condition type constants
const (
	CondFirstVisit      = "FIRST_VISIT"
	CondReturnVisit     = "RETURN_VISIT"
	CondVisitCount      = "VISIT_COUNT"
	CondHasClue         = "HAS_CLUE"
	CondArchetype       = "ARCHETYPE"
	CondTimeOfDay       = "TIME_OF_DAY"
	CondDaysSinceStart  = "DAYS_SINCE_START"
	CondDecisionTaken   = "DECISION_TAKEN"
	CondChapterComplete = "CHAPTER_COMPLETE"
)
