package narrative

import (
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_SelectVariant(t *testing.T) {
	uctx := &UserContext{
		VisitCount: 3,
		Archetype:  models.ArchetypeRomantic,
		ClueSlugs:  map[string]bool{"llave_rosa": true},
		Now:        time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		variants []*models.FragmentVariant
		want     string
	}{
		{
			name: "first matching by priority wins",
			variants: []*models.FragmentVariant{
				{VariantKey: "noche", ConditionType: models.CondTimeOfDay, ConditionValue: "20-6", IsActive: true},
				{VariantKey: "romantica", ConditionType: models.CondArchetype, ConditionValue: "ROMANTIC", IsActive: true},
			},
			want: "noche",
		},
		{
			name: "inactive variants are skipped",
			variants: []*models.FragmentVariant{
				{VariantKey: "noche", ConditionType: models.CondTimeOfDay, ConditionValue: "20-6", IsActive: false},
				{VariantKey: "romantica", ConditionType: models.CondArchetype, ConditionValue: "romantic", IsActive: true},
			},
			want: "romantica",
		},
		{
			name: "no condition holds",
			variants: []*models.FragmentVariant{
				{VariantKey: "primera", ConditionType: models.CondFirstVisit, IsActive: true},
				{VariantKey: "pista", ConditionType: models.CondHasClue, ConditionValue: "otra_pista", IsActive: true},
			},
			want: "",
		},
		{
			name: "visit count threshold",
			variants: []*models.FragmentVariant{
				{VariantKey: "veterana", ConditionType: models.CondVisitCount, ConditionValue: ">=3", IsActive: true},
			},
			want: "veterana",
		},
		{
			name: "clue condition",
			variants: []*models.FragmentVariant{
				{VariantKey: "con_llave", ConditionType: models.CondHasClue, ConditionValue: "llave_rosa", IsActive: true},
			},
			want: "con_llave",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectVariant(tt.variants, uctx)
			gotKey := ""
			if got != nil {
				gotKey = got.VariantKey
			}
			if gotKey != tt.want {
				t.Errorf("SelectVariant() = %q, want %q", gotKey, tt.want)
			}
		})
	}
}

func Test_hourRangeAdmits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		hour  int
		want  bool
	}{
		{"inside simple range", "9-17", 12, true},
		{"start is inclusive", "9-17", 9, true},
		{"end is exclusive", "9-17", 17, false},
		{"crossing midnight late side", "22-6", 23, true},
		{"crossing midnight early side", "22-6", 3, true},
		{"crossing midnight outside", "22-6", 12, false},
		{"equal bounds admit everything", "8-8", 3, true},
		{"garbage value", "whenever", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hourRangeAdmits(tt.value, tt.hour); got != tt.want {
				t.Errorf("hourRangeAdmits(%q, %d) = %v, want %v", tt.value, tt.hour, got, tt.want)
			}
		})
	}
}

func Test_ApplyVariant(t *testing.T) {
	base := &models.NarrativeFragment{
		Speaker: "Diana",
		Title:   "El umbral",
		Content: "La puerta sigue cerrada.",
	}

	variant := &models.FragmentVariant{
		ContentOverride: "La puerta está entreabierta... ¿entras?",
		AdditionalDecisions: []models.VariantDecision{
			{ButtonText: "Entrar sin llamar", TargetFragmentKey: "cap1_salon"},
		},
	}

	merged, extra := ApplyVariant(base, variant)
	if merged.Speaker != "Diana" || merged.Title != "El umbral" {
		t.Errorf("ApplyVariant() clobbered fields without overrides: %+v", merged)
	}
	if merged.Content != variant.ContentOverride {
		t.Errorf("ApplyVariant() content = %q, want override", merged.Content)
	}
	if base.Content != "La puerta sigue cerrada." {
		t.Errorf("ApplyVariant() mutated the base fragment")
	}
	if len(extra) != 1 || extra[0].TargetFragmentKey != "cap1_salon" {
		t.Errorf("ApplyVariant() extra decisions = %+v", extra)
	}

	merged, extra = ApplyVariant(base, nil)
	if merged != base || extra != nil {
		t.Errorf("ApplyVariant(nil) should return the base untouched")
	}
}
