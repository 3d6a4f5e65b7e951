package lifecycle

import (
	"math"
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// fullMetrics gives every archetype something to score so a single strong
// signal cannot win by default over archetypes whose metrics are absent.
func fullMetrics(overrides map[string]float64) map[string]float64 {
	m := map[string]float64{
		MetricBreadth:          0.3,
		MetricRevisitRate:      0.2,
		MetricAvgFragmentTime:  0.3,
		MetricDecisionVariety:  0.3,
		MetricDecisionSpeed:    0.2,
		MetricChallengeSuccess: 0.3,
		MetricFewHints:         0.3,
		MetricStreakStrength:   0.2,
	}
	for k, v := range overrides {
		m[k] = v
	}
	return m
}

func Test_ScoreArchetypes_minimumDecisions(t *testing.T) {
	metrics := fullMetrics(map[string]float64{MetricBreadth: 1.0})

	archetype, confidence, scores := ScoreArchetypes(metrics, 4)
	if archetype != models.ArchetypeUnknown {
		t.Errorf("archetype below minimum decisions = %s, want UNKNOWN", archetype)
	}
	if confidence != 0 || scores != nil {
		t.Errorf("UNKNOWN should carry zero confidence and no scores, got %f, %v", confidence, scores)
	}
}

func Test_ScoreArchetypes_dominantLabel(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]float64
		want    string
	}{
		{
			"breadth and variety point at explorer",
			fullMetrics(map[string]float64{
				MetricBreadth:         0.9,
				MetricDecisionVariety: 0.9,
				MetricRevisitRate:     0.6,
			}),
			models.ArchetypeExplorer,
		},
		{
			"challenge mastery points at analytical",
			fullMetrics(map[string]float64{
				MetricChallengeSuccess: 0.95,
				MetricFewHints:         0.9,
				MetricAvgFragmentTime:  0.6,
			}),
			models.ArchetypeAnalytical,
		},
		{
			"no scorable metrics",
			map[string]float64{},
			models.ArchetypeUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := ScoreArchetypes(tt.metrics, 50)
			if got != tt.want {
				t.Errorf("ScoreArchetypes() = %s, want %s", got, tt.want)
			}
		})
	}
}

func Test_ScoreArchetypes_confidenceGrowsWithDecisions(t *testing.T) {
	metrics := fullMetrics(map[string]float64{
		MetricChallengeSuccess: 1.0,
		MetricFewHints:         1.0,
	})

	_, low, _ := ScoreArchetypes(metrics, 5)
	_, high, _ := ScoreArchetypes(metrics, 40)
	if low >= high {
		t.Errorf("confidence should grow with decision count: %f then %f", low, high)
	}
	if high > 1 {
		t.Errorf("confidence must stay clamped to 1, got %f", high)
	}
}

func Test_ScoreArchetypes_marginBonus(t *testing.T) {
	metrics := fullMetrics(map[string]float64{
		MetricChallengeSuccess: 0.95,
		MetricFewHints:         0.9,
		MetricAvgFragmentTime:  0.6,
	})
	// At 10 decisions the anchor scales confidence to half, leaving room to
	// observe the margin bonus below the clamp.
	_, confidence, scores := ScoreArchetypes(metrics, 10)

	var best, second float64
	for _, s := range scores {
		if s.Score > best {
			second = best
			best = s.Score
		} else if s.Score > second {
			second = s.Score
		}
	}
	if best-second <= 0.2 {
		t.Fatalf("fixture lost its margin: best %f, second %f", best, second)
	}

	want := best * 0.5 * 1.1
	if math.Abs(confidence-want) > 1e-9 {
		t.Errorf("confidence = %f, want %f (margin bonus applied)", confidence, want)
	}
}

func Test_clamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{1.2, 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
