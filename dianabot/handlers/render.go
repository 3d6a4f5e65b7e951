package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/transport"
)

// mainMenu is the landing keyboard after /start.
func mainMenu(firstName string, isVIP bool) (string, transport.Keyboard) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola, %s... ya estás dentro. 💋\n\n", firstName)
	b.WriteString("_¿Por dónde quieres empezar?_")

	kb := transport.Keyboard{
		{
			{Text: "📖 La historia", Payload: transport.Encode("narr", "start")},
			{Text: "👤 Mi perfil", Payload: transport.Encode("user", "profile")},
		},
		{
			{Text: "🛍 Tienda", Payload: transport.Encode("shop", "main")},
			{Text: "🎁 Regalo diario", Payload: transport.Encode("user", "daily_gift")},
		},
		{
			{Text: "🎯 Misiones", Payload: transport.Encode("user", "missions")},
			{Text: "🏆 Ranking", Payload: transport.Encode("user", "leaderboard")},
		},
	}
	if isVIP {
		kb = append(kb, []transport.Button{
			{Text: "💎 Acceso VIP", Payload: transport.Encode("user", "vip_access")},
		})
	} else {
		kb = append(kb, []transport.Button{
			{Text: "🔑 Canjear pase VIP", Payload: transport.Encode("user", "redeem_token")},
		})
	}
	return b.String(), kb
}

// fragmentView turns a rendered fragment into message text plus the decision
// grid. Locked decisions stay visible with their lock reason.
func fragmentView(r *narrative.RenderedFragment) (string, transport.Keyboard) {
	var b strings.Builder
	if r.Speaker != "" {
		fmt.Fprintf(&b, "*%s*\n", r.Speaker)
	}
	if r.Title != "" {
		fmt.Fprintf(&b, "*%s*\n\n", r.Title)
	}
	b.WriteString(r.Content)

	if r.Challenge != nil {
		fmt.Fprintf(&b, "\n\n🧩 _%s_", r.Challenge.Question)
		if r.Hint != "" {
			fmt.Fprintf(&b, "\n💭 _%s_", r.Hint)
		}
		b.WriteString("\n\n_Escríbeme tu respuesta._")
	}

	var kb transport.Keyboard
	for _, d := range r.Decisions {
		kb = append(kb, []transport.Button{decisionButton(d)})
	}
	return b.String(), kb
}

func decisionButton(d narrative.RenderedDecision) transport.Button {
	text := d.ButtonText
	if d.BesitosCost > 0 {
		text = fmt.Sprintf("%s (%d 💋)", text, d.BesitosCost)
	}
	if d.Locked {
		text = "🔒 " + text
	}
	payload := transport.EncodeID("narr", "decision", d.ID)
	if d.ID == 0 {
		// Variant-injected decisions have no row; they route by target key.
		payload = transport.Encode("narr", "goto", d.TargetFragmentKey)
	}
	return transport.Button{Text: text, Payload: payload}
}

// onboardingView renders one presentation step with its answer buttons.
func onboardingView(step *narrative.OnboardingStep) (string, transport.Keyboard) {
	f := step.Fragment
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", f.Speaker)
	if f.Title != "" {
		fmt.Fprintf(&b, "*%s*\n\n", f.Title)
	}
	b.WriteString(f.Content)

	var kb transport.Keyboard
	for _, d := range f.Decisions {
		kb = append(kb, []transport.Button{{
			Text:    d.ButtonText,
			Payload: transport.Encode("onboard", "answer", d.ID),
		}})
	}
	return b.String(), kb
}

// profileView assembles the gamification card.
func profileView(user *models.User, balance int64, level *models.Level, streak *models.UserStreak, progress *models.UserNarrativeProgress, isVIP bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", user.DisplayName())

	fmt.Fprintf(&b, "💋 Besitos: *%d*\n", balance)
	if level != nil {
		fmt.Fprintf(&b, "🌙 Nivel: *%s*\n", level.Name)
	}
	if streak != nil {
		fmt.Fprintf(&b, "🔥 Racha: *%d días* (récord: %d)\n", streak.CurrentStreak, streak.LongestStreak)
	}
	if progress != nil {
		fmt.Fprintf(&b, "📖 Capítulos completados: *%d*\n", progress.ChaptersCompleted)
		fmt.Fprintf(&b, "🎭 Decisiones tomadas: *%d*\n", progress.TotalDecisions)
	}
	if isVIP {
		b.WriteString("\n💎 _Miembro del círculo íntimo._")
	}
	return b.String()
}

// missionsView lists active missions; completed ones carry a claim button.
func missionsView(missions []*models.UserMission) (string, transport.Keyboard) {
	if len(missions) == 0 {
		return "Ahora mismo no tengo nada pendiente para ti... vuelve mañana. 🌙", nil
	}
	var b strings.Builder
	b.WriteString("*Tus misiones*\n")
	var kb transport.Keyboard
	for _, um := range missions {
		if um.Mission == nil {
			continue
		}
		switch um.Status {
		case models.MissionCompleted:
			fmt.Fprintf(&b, "\n✨ *%s* — lista para reclamar (+%d 💋)", um.Mission.Name, um.Mission.BesitosReward)
			kb = append(kb, []transport.Button{{
				Text: fmt.Sprintf("Reclamar: %s", um.Mission.Name),
				Payload: transport.Encode("mission", "claim",
					fmt.Sprintf("%d", um.MissionID), fmt.Sprintf("%d", um.WindowStart.Unix())),
			}})
		case models.MissionClaimed:
			fmt.Fprintf(&b, "\n✅ %s", um.Mission.Name)
		default:
			target := um.Mission.Criteria.Count
			if um.Mission.Criteria.StreakDays > 0 {
				target = um.Mission.Criteria.StreakDays
			}
			fmt.Fprintf(&b, "\n▫️ %s — %d/%d\n   _%s_", um.Mission.Name, um.Progress, target, um.Mission.Description)
		}
	}
	return b.String(), kb
}

// catalogView lists shop categories.
func catalogView(categories []*models.ItemCategory, featured []*models.ShopItem) (string, transport.Keyboard) {
	var b strings.Builder
	b.WriteString("*La tienda*\n\n_Todo lo que ves se paga con besitos._")

	var kb transport.Keyboard
	for _, c := range categories {
		kb = append(kb, []transport.Button{{
			Text:    c.Name,
			Payload: transport.EncodeID("shop", "cat", c.ID),
		}})
	}
	if len(featured) > 0 {
		b.WriteString("\n\n*Destacados:*")
		for _, item := range featured {
			fmt.Fprintf(&b, "\n%s %s — %d 💋", item.Icon, item.Name, item.PriceBesitos)
			kb = append(kb, []transport.Button{{
				Text:    fmt.Sprintf("✨ %s", item.Name),
				Payload: transport.EncodeID("shop", "item", item.ID),
			}})
		}
	}
	return b.String(), kb
}

func categoryView(category string, items []*models.ShopItem) (string, transport.Keyboard) {
	if len(items) == 0 {
		return "Aquí no queda nada... por ahora. 🌙", transport.Row(
			transport.Button{Text: "⬅️ Volver", Payload: transport.Encode("shop", "main")})
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", category)
	var kb transport.Keyboard
	for _, item := range items {
		fmt.Fprintf(&b, "\n%s *%s* — %d 💋", item.Icon, item.Name, item.PriceBesitos)
		if item.RequiresVIP {
			b.WriteString(" 💎")
		}
		kb = append(kb, []transport.Button{{
			Text:    fmt.Sprintf("%s (%d 💋)", item.Name, item.PriceBesitos),
			Payload: transport.EncodeID("shop", "item", item.ID),
		}})
	}
	kb = append(kb, []transport.Button{{Text: "⬅️ Volver", Payload: transport.Encode("shop", "main")}})
	return b.String(), kb
}

func itemView(item *models.ShopItem) (string, transport.Keyboard) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n%s\n\n💋 Precio: *%d besitos*", item.Icon, item.Name, item.Description, item.PriceBesitos)
	if item.RequiresVIP {
		b.WriteString("\n💎 _Solo para VIP._")
	}
	if item.MaxPerUser != nil {
		fmt.Fprintf(&b, "\n_Máximo %d por persona._", *item.MaxPerUser)
	}
	kb := transport.Keyboard{
		{{Text: "Comprar", Payload: transport.EncodeID("shop", "buy", item.ID)}},
		{{Text: "⬅️ Volver", Payload: transport.Encode("shop", "main")}},
	}
	return b.String(), kb
}

// backpackView lists the inventory with per-item action buttons.
func backpackView(entries []*models.UserInventoryItem) (string, transport.Keyboard) {
	if len(entries) == 0 {
		return "Tu mochila está vacía. Pásate por la tienda... 🛍", transport.Row(
			transport.Button{Text: "🛍 Ir a la tienda", Payload: transport.Encode("shop", "main")})
	}
	var b strings.Builder
	b.WriteString("*Tu mochila*\n")
	var kb transport.Keyboard
	for _, entry := range entries {
		if entry.Item == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s %s", entry.Item.Icon, entry.Item.Name)
		if entry.Quantity > 1 {
			fmt.Fprintf(&b, " ×%d", entry.Quantity)
		}
		if entry.IsEquipped {
			b.WriteString(" _(equipado)_")
		}
		kb = append(kb, []transport.Button{{
			Text:    entry.Item.Name,
			Payload: transport.EncodeID("backpack", "item", entry.ItemID),
		}})
	}
	return b.String(), kb
}

func backpackItemView(entry *models.UserInventoryItem) (string, transport.Keyboard) {
	item := entry.Item
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n%s", item.Icon, item.Name, item.Description)
	if entry.Quantity > 1 {
		fmt.Fprintf(&b, "\n\n_Tienes %d._", entry.Quantity)
	}

	var actions []transport.Button
	switch item.Type {
	case models.ItemConsumable:
		actions = append(actions, transport.Button{Text: "Usar", Payload: transport.EncodeID("backpack", "use", item.ID)})
	case models.ItemEquippable, models.ItemCosmetic:
		if entry.IsEquipped {
			actions = append(actions, transport.Button{Text: "Quitar", Payload: transport.EncodeID("backpack", "unequip", item.ID)})
		} else {
			actions = append(actions, transport.Button{Text: "Equipar", Payload: transport.EncodeID("backpack", "equip", item.ID)})
		}
	}
	actions = append(actions, transport.Button{Text: "⭐ Favorito", Payload: transport.EncodeID("backpack", "fav", item.ID)})

	kb := transport.Keyboard{actions,
		{{Text: "⬅️ Mochila", Payload: transport.Encode("backpack", "type", "all")}},
	}
	return b.String(), kb
}

// leaderboardView shows the top balances. Identities stay masked; only the
// viewer's own row is named.
func leaderboardView(rows []*models.UserBesitos, viewerID int64) string {
	if len(rows) == 0 {
		return "Todavía nadie ha ganado un solo besito. Sé el primero. 💋"
	}
	var b strings.Builder
	b.WriteString("*Los que más besitos tienen*\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, row := range rows {
		marker := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			marker = medals[i]
		}
		name := fmt.Sprintf("admirador #%04d", row.UserID%10000)
		if row.UserID == viewerID {
			name = "tú 💋"
		}
		fmt.Fprintf(&b, "\n%s %s — %d", marker, name, row.TotalBesitos)
	}
	return b.String()
}

// prefsView renders the notification toggles.
func prefsView(prefs *models.NotificationPreferences, dnd bool) (string, transport.Keyboard) {
	mark := func(on bool) string {
		if on {
			return "✅"
		}
		return "▫️"
	}
	var b strings.Builder
	b.WriteString("*Tus preferencias*\n\n")
	fmt.Fprintf(&b, "Horas de silencio: %02d:00–%02d:00 (%s)\n", prefs.QuietHoursStart, prefs.QuietHoursEnd, prefs.Timezone)
	fmt.Fprintf(&b, "Máximo de avisos al día: %d", prefs.MaxMessagesPerDay)

	kb := transport.Keyboard{
		{{Text: mark(prefs.ContentEnabled) + " Contenido nuevo", Payload: transport.Encode("prefs", "toggle", "content")}},
		{{Text: mark(prefs.StreakEnabled) + " Avisos de racha", Payload: transport.Encode("prefs", "toggle", "streak")}},
		{{Text: mark(prefs.OfferEnabled) + " Ofertas", Payload: transport.Encode("prefs", "toggle", "offer")}},
		{{Text: mark(prefs.ReengagementEnabled) + " Mensajes de Diana", Payload: transport.Encode("prefs", "toggle", "reengagement")}},
		{{Text: mark(dnd) + " No molestar", Payload: transport.Encode("prefs", "toggle", "dnd")}},
		{{Text: "Listo", Payload: transport.Encode("prefs", "done")}},
	}
	return b.String(), kb
}

// offerView renders a conversion offer with accept and decline buttons.
func offerView(offerType string, discount float64) (string, transport.Keyboard) {
	text := offerVoice(offerType, discount)
	kb := transport.Keyboard{
		{
			{Text: "Quiero saber más 💋", Payload: transport.Encode("offer", "accept", offerType)},
			{Text: "Ahora no", Payload: transport.Encode("offer", "decline", offerType)},
		},
	}
	return text, kb
}

func offerVoice(offerType string, discount float64) string {
	switch offerType {
	case models.OfferFreeToVIP:
		return "Has llegado lejos en mi historia... más lejos que la mayoría. Hay puertas que solo abro para el círculo íntimo. 💎"
	case models.OfferVIPRenewal:
		return "Nuestro tiempo juntos está a punto de agotarse... no dejes que esto termine así. 💎"
	case models.OfferFreeToVIPDiscount:
		return fmt.Sprintf("Tu constancia merece un premio: el círculo íntimo, con un %.0f%% menos. Solo esta vez. 💎", discount)
	case models.OfferNarrativeKeys:
		return "Conozco tu corazón... hay llaves que abren los momentos más íntimos de mi historia. 🗝"
	case models.OfferNarrativeRelics:
		return "Para alguien que explora cada rincón como tú, guardo reliquias que casi nadie ha visto. 🗝"
	case models.OfferExclusiveBadge:
		return "Dos semanas sin fallarme ni un día... esto se merece una insignia que casi nadie lleva. 🏅"
	default:
		return "Tengo algo para ti... 💋"
	}
}

// giftCountdown phrases the wait until the next daily claim.
func giftCountdown(now time.Time) string {
	next := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	wait := next.Sub(now.UTC()).Round(time.Minute)
	h := int(wait.Hours())
	m := int(wait.Minutes()) % 60
	return fmt.Sprintf("Hoy ya te di tu regalo... vuelve en %dh %02dm. 🌙", h, m)
}

// levelLine appends the level-up announcement to a ledger result when one
// happened.
func levelLine(res *economy.LedgerResult) string {
	if res != nil && res.LeveledUp && res.NewLevel != nil {
		return "\n\n" + fmt.Sprintf(transport.VoiceLevelUp, res.NewLevel.Name)
	}
	return ""
}
