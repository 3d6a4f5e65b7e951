package narrative

import (
	"strconv"
	"strings"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// SelectVariant picks the first active variant, in priority order, whose
// condition holds for the context. Returns nil when the base fragment should
// be shown. Variants must arrive ordered by priority DESC.
func SelectVariant(variants []*models.FragmentVariant, uctx *UserContext) *models.FragmentVariant {
	for _, v := range variants {
		if !v.IsActive {
			continue
		}
		if variantConditionHolds(v, uctx) {
			return v
		}
	}
	return nil
}

func variantConditionHolds(v *models.FragmentVariant, uctx *UserContext) bool {
	value := strings.TrimSpace(v.ConditionValue)
	switch v.ConditionType {
	case models.CondFirstVisit:
		return uctx.VisitCount == 0
	case models.CondReturnVisit:
		return uctx.VisitCount > 0
	case models.CondVisitCount:
		min, err := parseThreshold(value)
		if err != nil {
			return false
		}
		return uctx.VisitCount >= min
	case models.CondHasClue:
		return value != "" && uctx.HasClue(value)
	case models.CondArchetype:
		return value != "" && strings.EqualFold(uctx.Archetype, value)
	case models.CondTimeOfDay:
		return hourRangeAdmits(value, uctx.Now.UTC().Hour())
	case models.CondDaysSinceStart:
		min, err := parseThreshold(value)
		if err != nil {
			return false
		}
		return uctx.DaysSinceStart >= min
	case models.CondDecisionTaken:
		return value != "" && uctx.TakenDecisions[value]
	case models.CondChapterComplete:
		return value != "" && uctx.CompletedChapters[value]
	default:
		return false
	}
}

// parseThreshold accepts "N" or ">=N".
func parseThreshold(value string) (int, error) {
	value = strings.TrimSpace(strings.TrimPrefix(value, ">="))
	return strconv.Atoi(value)
}

// hourRangeAdmits checks "HH-HH" half-open UTC ranges, crossing midnight when
// start > end.
func hourRangeAdmits(value string, hour int) bool {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return false
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return false
	}
	if start == end {
		return true
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// ApplyVariant merges the variant's overrides onto a copy of the base
// fragment and returns the extra decisions to append.
func ApplyVariant(fragment *models.NarrativeFragment, v *models.FragmentVariant) (*models.NarrativeFragment, []models.VariantDecision) {
	if v == nil {
		return fragment, nil
	}
	merged := *fragment
	if v.SpeakerOverride != "" {
		merged.Speaker = v.SpeakerOverride
	}
	if v.TitleOverride != "" {
		merged.Title = v.TitleOverride
	}
	if v.ContentOverride != "" {
		merged.Content = v.ContentOverride
	}
	return &merged, v.AdditionalDecisions
}
