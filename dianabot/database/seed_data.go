package database

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// InitializeSeedData upserts the reference rows the bot cannot run without:
// levels, missions, onboarding fragments, shop categories and the default
// VIP plan. Safe to run on every startup.
func (db *DB) InitializeSeedData(ctx context.Context) error {
	if err := db.seedLevels(ctx); err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	if err := db.seedMissions(ctx); err != nil {
		return fmt.Errorf("missions: %w", err)
	}
	if err := db.seedOnboarding(ctx); err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	if err := db.seedShopCategories(ctx); err != nil {
		return fmt.Errorf("shop categories: %w", err)
	}
	if err := db.seedPlans(ctx); err != nil {
		return fmt.Errorf("plans: %w", err)
	}
	return nil
}

func (db *DB) seedLevels(ctx context.Context) error {
	levels := []struct {
		Name       string
		MinBesitos int64
		Order      int
	}{
		{"Curiosa", 0, 1},
		{"Cercana", 100, 2},
		{"Confidente", 300, 3},
		{"Íntima", 700, 4},
		{"Inseparable", 1500, 5},
		{"Devota", 3000, 6},
	}

	insertSQL := `
        INSERT INTO levels (name, min_besitos, level_order)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING;
    `
	for _, lv := range levels {
		var exists bool
		if err := db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM levels WHERE level_order = $1)`, lv.Order,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.ExecWithLog(ctx, insertSQL, lv.Name, lv.MinBesitos, lv.Order); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) seedMissions(ctx context.Context) error {
	missions := []struct {
		Key         string
		Name        string
		Description string
		Type        string
		Criteria    models.MissionCriteria
		Reward      int64
	}{
		{"daily_decisions", "Decidida", "Toma 3 decisiones en la historia hoy", models.MissionDaily,
			models.MissionCriteria{EventType: models.EventDecisionTaken, Count: 3}, 15},
		{"daily_explorer", "Curiosa", "Visita 5 fragmentos hoy", models.MissionDaily,
			models.MissionCriteria{EventType: models.EventFragmentVisited, Count: 5}, 10},
		{"weekly_chapter", "Capitulera", "Completa un capítulo esta semana", models.MissionWeekly,
			models.MissionCriteria{EventType: models.EventChapterCompleted, Count: 1}, 50},
		{"weekly_challenges", "Enigmática", "Resuelve 3 desafíos esta semana", models.MissionWeekly,
			models.MissionCriteria{EventType: models.EventChallengeSolved, Count: 3}, 40},
		{"once_first_purchase", "Primera compra", "Compra tu primer artículo de la tienda", models.MissionOneTime,
			models.MissionCriteria{EventType: models.EventItemPurchased, Count: 1}, 25},
		{"once_onboarding", "Bienvenida", "Completa la presentación", models.MissionOneTime,
			models.MissionCriteria{EventType: models.EventOnboardingDone, Count: 1}, 20},
		{"streak_week", "Constante", "Mantén una racha de 7 días", models.MissionStreak,
			models.MissionCriteria{EventType: models.EventReactionStreak, StreakDays: 7}, 70},
	}

	insertSQL := `
        INSERT INTO missions (mission_key, name, description, type, criteria, besitos_reward, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, $6, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
        ON CONFLICT (mission_key) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            type = EXCLUDED.type,
            criteria = EXCLUDED.criteria,
            besitos_reward = EXCLUDED.besitos_reward,
            updated_at = CURRENT_TIMESTAMP;
    `
	for _, m := range missions {
		criteria, err := json.Marshal(m.Criteria)
		if err != nil {
			return fmt.Errorf("marshal criteria for %s: %w", m.Key, err)
		}
		if _, err := db.ExecWithLog(ctx, insertSQL,
			m.Key, m.Name, m.Description, m.Type, string(criteria), m.Reward); err != nil {
			return fmt.Errorf("upsert mission %s: %w", m.Key, err)
		}
	}

	slog.Info("Mission definitions initialized", slog.Int("count", len(missions)))
	return nil
}

func (db *DB) seedOnboarding(ctx context.Context) error {
	type step struct {
		Step      int
		Speaker   string
		Title     string
		Content   string
		Decisions []models.OnboardingDecision
	}

	steps := []step{
		{1, "Diana", "Hola...", "Así que has llegado hasta aquí. Dime, ¿qué te trae a mi mundo?",
			[]models.OnboardingDecision{
				{ID: "curiosity", ButtonText: "La curiosidad", ArchetypeHint: models.HintContemplative},
				{ID: "impulse", ButtonText: "Un impulso", ArchetypeHint: models.HintImpulsive},
				{ID: "silence", ButtonText: "...", ArchetypeHint: models.HintSilent},
			}},
		{2, "Diana", "Interesante", "¿Y qué esperas encontrar entre mis historias?",
			[]models.OnboardingDecision{
				{ID: "secrets", ButtonText: "Secretos", ArchetypeHint: models.HintContemplative},
				{ID: "emotion", ButtonText: "Emoción", ArchetypeHint: models.HintImpulsive},
				{ID: "you", ButtonText: "A ti", ArchetypeHint: models.HintSilent},
			}},
		{3, "Diana", "Las reglas", "Aquí cada decisión cuenta. Algunas puertas se cierran para siempre. ¿Te asusta eso?",
			[]models.OnboardingDecision{
				{ID: "no_fear", ButtonText: "Para nada", ArchetypeHint: models.HintImpulsive},
				{ID: "a_little", ButtonText: "Un poco", ArchetypeHint: models.HintContemplative},
				{ID: "quiet", ButtonText: "Prefiero no decirlo", ArchetypeHint: models.HintSilent},
			}},
		{4, "Diana", "Los besitos", "Te daré besitos cuando me hagas sonreír. Guárdalos bien; abren puertas.",
			[]models.OnboardingDecision{
				{ID: "save", ButtonText: "Los guardaré", ArchetypeHint: models.HintContemplative},
				{ID: "spend", ButtonText: "Los gastaré en ti", ArchetypeHint: models.HintImpulsive},
				{ID: "smile", ButtonText: "*sonríe*", ArchetypeHint: models.HintSilent},
			}},
		{5, "Diana", "Empecemos", "Ya nos conocemos lo suficiente. Toma estos besitos de regalo... y entra de una vez.",
			[]models.OnboardingDecision{
				{ID: "enter", ButtonText: "Entrar en la historia"},
			}},
	}

	insertSQL := `
        INSERT INTO onboarding_fragments (step, speaker, title, content, decisions, is_active)
        VALUES ($1, $2, $3, $4, $5::jsonb, TRUE)
        ON CONFLICT (step) DO UPDATE SET
            speaker = EXCLUDED.speaker,
            title = EXCLUDED.title,
            content = EXCLUDED.content,
            decisions = EXCLUDED.decisions;
    `
	for _, s := range steps {
		decisions, err := json.Marshal(s.Decisions)
		if err != nil {
			return fmt.Errorf("marshal decisions for step %d: %w", s.Step, err)
		}
		if _, err := db.ExecWithLog(ctx, insertSQL,
			s.Step, s.Speaker, s.Title, s.Content, string(decisions)); err != nil {
			return fmt.Errorf("upsert onboarding step %d: %w", s.Step, err)
		}
	}
	return nil
}

func (db *DB) seedShopCategories(ctx context.Context) error {
	categories := []struct {
		Slug  string
		Name  string
		Order int
	}{
		{"narrative", "Narrativa", 1},
		{"consumable", "Consumibles", 2},
		{"cosmetic", "Cosméticos", 3},
		{"vip", "VIP", 4},
	}

	insertSQL := `
        INSERT INTO item_categories (slug, name, category_order, is_active, created_at)
        VALUES ($1, $2, $3, TRUE, CURRENT_TIMESTAMP)
        ON CONFLICT (slug) DO UPDATE SET
            name = EXCLUDED.name,
            category_order = EXCLUDED.category_order;
    `
	for _, c := range categories {
		if _, err := db.ExecWithLog(ctx, insertSQL, c.Slug, c.Name, c.Order); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}
	return nil
}

func (db *DB) seedPlans(ctx context.Context) error {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscription_plans`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	insertSQL := `
        INSERT INTO subscription_plans (name, duration_days, price, currency, active, created_at)
        VALUES ($1, $2, $3, $4, TRUE, CURRENT_TIMESTAMP);
    `
	plans := []struct {
		Name     string
		Days     int
		Price    float64
		Currency string
	}{
		{"VIP Mensual", 30, 19.99, "EUR"},
		{"VIP Trimestral", 90, 49.99, "EUR"},
	}
	for _, p := range plans {
		if _, err := db.ExecWithLog(ctx, insertSQL, p.Name, p.Days, p.Price, p.Currency); err != nil {
			return fmt.Errorf("insert plan %s: %w", p.Name, err)
		}
	}

	slog.Info("Default subscription plans created", slog.Int("count", len(plans)))
	return nil
}
