package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/uptrace/bun"
)

// Metric keys. All values are normalized to [0,1] before scoring; absent
// metrics simply drop out of the weighted average.
const (
	MetricBreadth          = "exploration_breadth"
	MetricRevisitRate      = "revisit_rate"
	MetricAvgFragmentTime  = "avg_fragment_time"
	MetricDecisionVariety  = "decision_variety"
	MetricDecisionSpeed    = "decision_speed"
	MetricChallengeSuccess = "challenge_success"
	MetricFewHints         = "few_hints"
	MetricStreakStrength   = "streak_strength"
)

// archetypeWeights is the fixed weight vector per archetype. Immutable after
// load.
var archetypeWeights = map[string]map[string]float64{
	models.ArchetypeExplorer: {
		MetricBreadth:         1.0,
		MetricRevisitRate:     0.6,
		MetricDecisionVariety: 0.8,
	},
	models.ArchetypeDirect: {
		MetricDecisionSpeed:   1.0,
		MetricDecisionVariety: 0.3,
		MetricBreadth:         0.4,
	},
	models.ArchetypeRomantic: {
		MetricAvgFragmentTime: 0.9,
		MetricRevisitRate:     0.8,
		MetricStreakStrength:  0.6,
	},
	models.ArchetypeAnalytical: {
		MetricChallengeSuccess: 1.0,
		MetricFewHints:         0.8,
		MetricAvgFragmentTime:  0.5,
	},
	models.ArchetypePersistent: {
		MetricStreakStrength:   0.9,
		MetricRevisitRate:      0.7,
		MetricChallengeSuccess: 0.5,
	},
	models.ArchetypePatient: {
		MetricAvgFragmentTime: 1.0,
		MetricDecisionSpeed:   -0.0, // speed is irrelevant, slowness scores below
		MetricStreakStrength:  0.7,
		MetricFewHints:        0.4,
	},
}

// ArchetypeScore is one archetype's weighted average.
type ArchetypeScore struct {
	Archetype string
	Score     float64
}

// ScoreArchetypes computes the weighted average per archetype over present
// metrics and derives the dominant label with its confidence. Below the
// minimum decision count the result is always UNKNOWN with confidence 0.
func ScoreArchetypes(metrics map[string]float64, totalDecisions int) (string, float64, []ArchetypeScore) {
	if totalDecisions < config.ArchetypeMinDecisions {
		return models.ArchetypeUnknown, 0, nil
	}

	scores := make([]ArchetypeScore, 0, len(archetypeWeights))
	for archetype, weights := range archetypeWeights {
		var sum, weightSum float64
		for key, w := range weights {
			if w <= 0 {
				continue
			}
			v, ok := metrics[key]
			if !ok {
				continue
			}
			sum += w * clamp01(v)
			weightSum += w
		}
		if weightSum == 0 {
			continue
		}
		scores = append(scores, ArchetypeScore{Archetype: archetype, Score: sum / weightSum})
	}
	if len(scores) == 0 {
		return models.ArchetypeUnknown, 0, nil
	}

	best, second := topTwo(scores)
	confidence := best.Score * minFloat(1, float64(totalDecisions)/float64(config.ArchetypeConfidenceAnchor))
	if second != nil && best.Score-second.Score > 0.2 {
		confidence *= 1.1
	}
	return best.Archetype, clamp01(confidence), scores
}

func topTwo(scores []ArchetypeScore) (ArchetypeScore, *ArchetypeScore) {
	best := scores[0]
	var second *ArchetypeScore
	for i := 1; i < len(scores); i++ {
		s := scores[i]
		if s.Score > best.Score {
			cp := best
			second = &cp
			best = s
		} else if second == nil || s.Score > second.Score {
			cp := s
			second = &cp
		}
	}
	return best, second
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ArchetypeDetector collects observable metrics and refreshes the stored
// archetype when the recompute triggers fire.
type ArchetypeDetector struct {
	progress   repositories.ProgressRepository
	engagement repositories.EngagementRepository
	narrative  repositories.NarrativeRepository
	streaks    repositories.StreakRepository
}

func NewArchetypeDetector(db bun.IDB) *ArchetypeDetector {
	return &ArchetypeDetector{
		progress:   repositories.NewProgressRepository(db),
		engagement: repositories.NewEngagementRepository(db),
		narrative:  repositories.NewNarrativeRepository(db),
		streaks:    repositories.NewStreakRepository(db),
	}
}

// ShouldRecompute applies the refresh triggers: no archetype yet, stale
// compute, or enough new decisions.
func ShouldRecompute(progress *models.UserNarrativeProgress, now time.Time) bool {
	if progress.DetectedArchetype == models.ArchetypeUnknown {
		return true
	}
	if progress.ArchetypeUpdatedAt == nil || now.Sub(*progress.ArchetypeUpdatedAt) >= config.ArchetypeRecomputeAge {
		return true
	}
	return progress.TotalDecisions-progress.DecisionsAtLastScore >= config.ArchetypeRecomputeDelta
}

// Refresh recomputes the archetype when a trigger fires and persists the
// result. Returns the (possibly unchanged) label.
func (d *ArchetypeDetector) Refresh(ctx context.Context, userID int64, now time.Time) (string, error) {
	progress, err := d.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ShouldRecompute(progress, now) {
		return progress.DetectedArchetype, nil
	}

	metrics, err := d.collect(ctx, userID)
	if err != nil {
		return "", err
	}

	archetype, confidence, _ := ScoreArchetypes(metrics, progress.TotalDecisions)

	progress.DetectedArchetype = archetype
	progress.ArchetypeConfidence = confidence
	at := now
	progress.ArchetypeUpdatedAt = &at
	progress.DecisionsAtLastScore = progress.TotalDecisions
	if err := d.progress.Update(ctx, progress); err != nil {
		return "", err
	}

	slog.Debug("Archetype refreshed",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("archetype", archetype),
		slog.Float64("confidence", confidence),
	)
	return archetype, nil
}

// collect derives the normalized metric map from observable store state only.
func (d *ArchetypeDetector) collect(ctx context.Context, userID int64) (map[string]float64, error) {
	metrics := map[string]float64{}

	visited, err := d.engagement.CountDistinctFragments(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalFragments, err := d.narrative.CountActiveFragments(ctx)
	if err != nil {
		return nil, err
	}
	if totalFragments > 0 {
		metrics[MetricBreadth] = float64(visited) / float64(totalFragments)
	}

	avgVisits, err := d.engagement.AvgVisitsPerFragment(ctx, userID)
	if err != nil {
		return nil, err
	}
	if avgVisits > 0 {
		// 1 visit -> 0, 5+ visits -> 1.
		metrics[MetricRevisitRate] = (avgVisits - 1) / 4
	}

	totalTime, err := d.engagement.SumTotalTime(ctx, userID)
	if err != nil {
		return nil, err
	}
	if visited > 0 && totalTime > 0 {
		avgSeconds := float64(totalTime) / float64(visited)
		metrics[MetricAvgFragmentTime] = avgSeconds / config.MaxReadingTime.Seconds()
	}

	totalDecisions, err := d.progress.CountDecisions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if totalDecisions > 0 {
		distinct, err := d.progress.CountDistinctDecisions(ctx, userID)
		if err != nil {
			return nil, err
		}
		metrics[MetricDecisionVariety] = float64(distinct) / float64(totalDecisions)

		rapid, err := d.progress.CountRapidDecisions(ctx, userID, 5)
		if err != nil {
			return nil, err
		}
		metrics[MetricDecisionSpeed] = float64(rapid) / float64(totalDecisions)
	}

	correct, attempts, err := d.narrative.CountCorrectAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempts > 0 {
		metrics[MetricChallengeSuccess] = float64(correct) / float64(attempts)
		// More attempts per success means more hints consumed along the way.
		metrics[MetricFewHints] = float64(correct) / float64(attempts)
	}

	streak, err := d.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak.LongestStreak > 0 {
		metrics[MetricStreakStrength] = float64(streak.CurrentStreak) / float64(streak.LongestStreak)
	}

	return metrics, nil
}
