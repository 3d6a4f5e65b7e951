package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/transport"
)

func (r *Router) dispatchCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	switch cb.Namespace {
	case "user", "profile":
		return r.userCallback(ctx, e, cb, userID, chatID, messageID, now)
	case "narr":
		return r.narrativeCallback(ctx, e, cb, userID, chatID, now)
	case "onboard":
		return r.onboardingCallback(ctx, e, cb, userID, chatID, now)
	case "shop":
		return r.shopCallback(ctx, e, cb, userID, chatID, messageID, now)
	case "backpack":
		return r.backpackCallback(ctx, e, cb, userID, chatID, messageID, now)
	case "mission":
		return r.missionCallback(ctx, e, cb, userID, chatID, now)
	case "offer":
		return r.offerCallback(ctx, e, cb, userID, chatID, messageID, now)
	case "prefs":
		return r.prefsCallback(ctx, e, cb, userID, chatID, messageID, now)
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "unknown callback namespace %q", cb.Namespace)
	}
}

func (r *Router) sendOrEdit(ctx context.Context, e *env, chatID, editID int64, text string, kb transport.Keyboard) error {
	if editID != 0 {
		return e.gateway.EditMessage(ctx, chatID, editID, text, kb)
	}
	_, err := e.gateway.SendMessage(ctx, chatID, text, kb)
	return err
}

func (r *Router) userCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	switch cb.Action {
	case "profile":
		user, err := e.users.GetByTelegramID(ctx, userID)
		if err != nil {
			return err
		}
		return r.showProfile(ctx, e, user, chatID, messageID, now)
	case "back":
		user, err := e.users.GetByTelegramID(ctx, userID)
		if err != nil {
			return err
		}
		isVIP, err := e.subs.IsVIPActive(ctx, userID, now)
		if err != nil {
			return err
		}
		text, kb := mainMenu(user.FirstName, isVIP)
		return r.sendOrEdit(ctx, e, chatID, messageID, text, kb)
	case "daily_gift":
		return r.cmdDailyGift(ctx, e, userID, chatID, now)
	case "missions":
		return r.showMissions(ctx, e, userID, chatID, messageID)
	case "rewards":
		return r.showBackpack(ctx, e, userID, chatID, "", messageID)
	case "leaderboard":
		rows, err := e.ledger.Leaderboard(ctx, 10)
		if err != nil {
			return err
		}
		return r.sendOrEdit(ctx, e, chatID, messageID, leaderboardView(rows, userID), nil)
	case "vip_access":
		return r.vipAccess(ctx, e, userID, chatID, now)
	case "free_access":
		rendered, err := e.engine.StartStory(ctx, userID, now)
		if err != nil {
			return err
		}
		return r.sendFragment(ctx, e, userID, chatID, rendered, now)
	case "redeem_token":
		_, err := e.gateway.SendMessage(ctx, chatID,
			"Si tienes un pase, envíamelo así:\n`/start TU-CÓDIGO`\n\n_Y te abriré la puerta._ 💋", nil)
		return err
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "user action %q", cb.Action)
	}
}

// vipAccess hands an active VIP a fresh single-use invite to the channel.
func (r *Router) vipAccess(ctx context.Context, e *env, userID, chatID int64, now time.Time) error {
	active, err := e.subs.IsVIPActive(ctx, userID, now)
	if err != nil {
		return err
	}
	if !active {
		return derrors.Wrap(derrors.ErrPermissionDenied, "el canal es solo para VIP")
	}
	if r.bot.Cfg.Bot.VIPChannelID == 0 {
		return derrors.Wrap(derrors.ErrNotConfigured, "vip channel not configured")
	}
	link, err := e.gateway.CreateInviteLink(ctx, r.bot.Cfg.Bot.VIPChannelID, config.InviteLinkExpiry)
	if err != nil {
		return err
	}
	_, err = e.gateway.SendMessage(ctx, chatID, fmt.Sprintf(transport.VoiceInviteLink, link), nil)
	return err
}

func (r *Router) narrativeCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID int64, now time.Time) error {
	switch cb.Action {
	case "start":
		return r.cmdStory(ctx, e, userID, chatID, now)
	case "decision":
		decisionID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		result, err := e.engine.TakeDecision(ctx, userID, decisionID, now)
		if err != nil {
			return err
		}
		return r.sendDecisionResult(ctx, e, userID, chatID, result, now)
	case "goto":
		key := cb.StringArg(0)
		if key == "" {
			return derrors.Wrap(derrors.ErrInvalidInput, "goto without fragment key")
		}
		rendered, err := e.engine.Render(ctx, userID, key, now)
		if err != nil {
			return err
		}
		return r.sendFragment(ctx, e, userID, chatID, rendered, now)
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "narrative action %q", cb.Action)
	}
}

// sendDecisionResult relays everything one decision changed: the next
// fragment, mission completions, the chapter milestone, and a conversion
// offer when the moment warrants one.
func (r *Router) sendDecisionResult(ctx context.Context, e *env, userID, chatID int64, result *narrative.DecisionResult, now time.Time) error {
	if err := r.sendFragment(ctx, e, userID, chatID, result.Rendered, now); err != nil {
		return err
	}

	for _, um := range result.CompletedMissions {
		if um.Mission == nil {
			continue
		}
		if _, err := e.gateway.SendMessage(ctx, chatID,
			fmt.Sprintf(transport.VoiceMissionDone, um.Mission.Name), nil); err != nil {
			return err
		}
	}

	if result.LeveledUp && result.NewLevel != nil {
		if _, err := e.gateway.SendMessage(ctx, chatID,
			fmt.Sprintf(transport.VoiceLevelUp, result.NewLevel.Name), nil); err != nil {
			return err
		}
	}

	if result.ChapterCompleted != nil {
		text := fmt.Sprintf("🌙 *Capítulo cerrado: %s*\n\n_%d fragmentos, %d decisiones. Cada una te ha traído hasta aquí._",
			result.ChapterCompleted.ChapterSlug,
			result.ChapterCompleted.FragmentsVisited,
			result.ChapterCompleted.DecisionsMade)
		if _, err := e.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
			return err
		}
		if err := r.maybeOffer(ctx, e, userID, chatID, now); err != nil {
			return err
		}
	}
	return nil
}

// maybeOffer shows the highest-priority non-suppressed conversion offer at a
// natural milestone, honoring the user's offer preference.
func (r *Router) maybeOffer(ctx context.Context, e *env, userID, chatID int64, now time.Time) error {
	prefs, err := e.prefs.GetOrDefault(ctx, userID)
	if err != nil {
		return err
	}
	if !prefs.OfferEnabled {
		return nil
	}

	offer, err := e.offers.Next(ctx, userID, now)
	if err != nil || offer == nil {
		return err
	}
	if err := e.offers.RecordShown(ctx, userID, *offer, "chapter_completion", now); err != nil {
		return err
	}
	text, kb := offerView(offer.Type, offer.Discount)
	_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
	return err
}

func (r *Router) onboardingCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID int64, now time.Time) error {
	switch cb.Action {
	case "start":
		step, err := e.onboarding.Start(ctx, userID, now)
		if err != nil {
			return err
		}
		text, kb := onboardingView(step)
		_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
		return err
	case "answer":
		decisionID := cb.StringArg(0)
		if decisionID == "" {
			return derrors.Wrap(derrors.ErrInvalidInput, "onboarding answer without decision")
		}
		step, err := e.onboarding.Answer(ctx, userID, decisionID, now)
		if err != nil {
			return err
		}
		if step.Completed {
			text := "Ya nos conocemos. La historia te espera... 💋"
			if step.BesitosGranted > 0 {
				text = fmt.Sprintf("Toma, %d besitos para empezar. La historia te espera... 💋", step.BesitosGranted)
			}
			_, err := e.gateway.SendMessage(ctx, chatID, text,
				transport.Row(transport.Button{Text: "📖 Entrar en la historia", Payload: transport.Encode("narr", "start")}))
			return err
		}
		text, kb := onboardingView(step)
		_, err = e.gateway.SendMessage(ctx, chatID, text, kb)
		return err
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "onboarding action %q", cb.Action)
	}
}

func (r *Router) shopCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	switch cb.Action {
	case "main":
		return r.showCatalog(ctx, e, chatID, messageID)
	case "cat":
		categoryID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		items, err := e.shop.ItemsIn(ctx, categoryID)
		if err != nil {
			return err
		}
		name := "Artículos"
		if len(items) > 0 && items[0].Category != nil {
			name = items[0].Category.Name
		}
		text, kb := categoryView(name, items)
		return r.sendOrEdit(ctx, e, chatID, messageID, text, kb)
	case "item":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		item, err := e.shop.Item(ctx, itemID)
		if err != nil {
			return err
		}
		text, kb := itemView(item)
		return r.sendOrEdit(ctx, e, chatID, messageID, text, kb)
	case "buy":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		res, err := e.shop.Purchase(ctx, userID, itemID, now)
		if err != nil {
			return err
		}
		text := fmt.Sprintf(transport.VoicePurchase, res.Item.Name, res.PricePaid)
		text += fmt.Sprintf("\n\n_Te quedan %d besitos._", res.Balance)
		if _, err := e.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
			return err
		}
		// Content-backed items deliver their set right away.
		if res.Item.ContentSetID != nil {
			return e.delivery.SendContentSet(ctx, userID, *res.Item.ContentSetID, models.AccessPurchase, now)
		}
		return nil
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "shop action %q", cb.Action)
	}
}

func (r *Router) backpackCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	switch cb.Action {
	case "type":
		itemType := cb.StringArg(0)
		if itemType == "all" {
			itemType = ""
		}
		return r.showBackpack(ctx, e, userID, chatID, itemType, messageID)
	case "item":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		entries, err := e.shop.Backpack(ctx, userID, "")
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.ItemID == itemID && entry.Item != nil {
				text, kb := backpackItemView(entry)
				return r.sendOrEdit(ctx, e, chatID, messageID, text, kb)
			}
		}
		return derrors.Wrap(derrors.ErrNotFound, "item %d not in backpack", itemID)
	case "use":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		item, err := e.shop.Consume(ctx, userID, itemID, now)
		if err != nil {
			return err
		}
		_, err = e.gateway.SendMessage(ctx, chatID,
			fmt.Sprintf("Has usado %s. 🌙", item.Name), nil)
		return err
	case "equip":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		if err := e.shop.Equip(ctx, userID, itemID); err != nil {
			return err
		}
		return r.showBackpack(ctx, e, userID, chatID, "", messageID)
	case "unequip":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		if err := e.shop.Unequip(ctx, userID, itemID); err != nil {
			return err
		}
		return r.showBackpack(ctx, e, userID, chatID, "", messageID)
	case "fav":
		itemID, err := cb.Int64Arg(0)
		if err != nil {
			return err
		}
		if err := e.shop.SetFavorite(ctx, userID, itemID); err != nil {
			return err
		}
		_, err = e.gateway.SendMessage(ctx, chatID, "Marcado como favorito. ⭐", nil)
		return err
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "backpack action %q", cb.Action)
	}
}

func (r *Router) missionCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID int64, now time.Time) error {
	if cb.Action != "claim" {
		return derrors.Wrap(derrors.ErrInvalidInput, "mission action %q", cb.Action)
	}
	missionID, err := cb.Int64Arg(0)
	if err != nil {
		return err
	}
	windowUnix, err := cb.Int64Arg(1)
	if err != nil {
		return err
	}
	return r.claimMission(ctx, e, userID, chatID, missionID, time.Unix(windowUnix, 0).UTC())
}

func (r *Router) offerCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	offerType := cb.StringArg(0)
	if offerType == "" {
		return derrors.Wrap(derrors.ErrInvalidInput, "offer without type")
	}
	switch cb.Action {
	case "accept":
		return r.acceptOffer(ctx, e, userID, chatID, messageID, offerType, now)
	case "decline":
		if err := e.offers.RecordDeclined(ctx, userID, offerType, now); err != nil {
			return err
		}
		return r.sendOrEdit(ctx, e, chatID, messageID,
			"Está bien... no insistiré. Por ahora. 🌙", nil)
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "offer action %q", cb.Action)
	}
}

// acceptOffer records the acceptance with any personal discount and routes
// the user to the matching surface.
func (r *Router) acceptOffer(ctx context.Context, e *env, userID, chatID, messageID int64, offerType string, now time.Time) error {
	category := offerCategory(offerType)
	var discount float64
	if category != "" {
		quote, err := e.offers.QuoteFor(ctx, userID, category, now)
		if err != nil {
			return err
		}
		discount = quote.Percent
	}
	if err := e.offers.RecordAccepted(ctx, userID, offerType, "chapter_completion", discount, now); err != nil {
		return err
	}

	switch offerType {
	case models.OfferFreeToVIP, models.OfferVIPRenewal, models.OfferFreeToVIPDiscount:
		plans, err := e.subs.Plans(ctx)
		if err != nil {
			return err
		}
		var text string
		if len(plans) == 0 {
			text = "Pregunta a quien me cuida por tu pase... dile que vienes de mi parte. 💋"
		} else {
			text = "*El círculo íntimo*\n"
			for _, p := range plans {
				text += fmt.Sprintf("\n💎 %s — %.2f %s (%d días)", p.Name, p.Price, p.Currency, p.DurationDays)
			}
			text += "\n\n_Pide tu pase y actívalo con /start TU-CÓDIGO._"
			if discount > 0 {
				text += fmt.Sprintf("\n_Tu descuento personal: %.0f%%._", discount)
			}
		}
		return r.sendOrEdit(ctx, e, chatID, messageID, text, nil)
	default:
		text := "Te espero en la tienda... ya sabes lo que buscas. 💋"
		if discount > 0 {
			text += fmt.Sprintf("\n\n_Tu descuento personal: %.0f%%._", discount)
		}
		return r.sendOrEdit(ctx, e, chatID, messageID, text,
			transport.Row(transport.Button{Text: "🛍 Ir a la tienda", Payload: transport.Encode("shop", "main")}))
	}
}

// offerCategory maps an offer to the shop category its discount applies to.
func offerCategory(offerType string) string {
	switch offerType {
	case models.OfferNarrativeKeys, models.OfferNarrativeRelics:
		return "narrative"
	case models.OfferExclusiveBadge:
		return "cosmetic"
	case models.OfferFreeToVIP, models.OfferVIPRenewal, models.OfferFreeToVIPDiscount:
		return "vip"
	default:
		return ""
	}
}

func (r *Router) prefsCallback(ctx context.Context, e *env, cb *transport.Callback, userID, chatID, messageID int64, now time.Time) error {
	switch cb.Action {
	case "toggle":
		field := cb.StringArg(0)
		if field == "dnd" {
			lc, err := e.lifecycle.Get(ctx, userID)
			if err != nil {
				return err
			}
			if err := e.lifecycle.SetDoNotDisturb(ctx, userID, !lc.DoNotDisturb); err != nil {
				return err
			}
			return r.showPreferences(ctx, e, userID, chatID, messageID)
		}

		prefs, err := e.prefs.GetOrDefault(ctx, userID)
		if err != nil {
			return err
		}
		switch field {
		case "content":
			prefs.ContentEnabled = !prefs.ContentEnabled
		case "streak":
			prefs.StreakEnabled = !prefs.StreakEnabled
		case "offer":
			prefs.OfferEnabled = !prefs.OfferEnabled
		case "reengagement":
			prefs.ReengagementEnabled = !prefs.ReengagementEnabled
		default:
			return derrors.Wrap(derrors.ErrInvalidInput, "preference field %q", field)
		}
		if err := e.prefs.Upsert(ctx, prefs); err != nil {
			return err
		}
		return r.showPreferences(ctx, e, userID, chatID, messageID)
	case "done":
		return r.sendOrEdit(ctx, e, chatID, messageID, "Guardado. Te escribiré como tú quieras. 💋", nil)
	default:
		return derrors.Wrap(derrors.ErrInvalidInput, "preference action %q", cb.Action)
	}
}

// Shared view senders, used by both commands and callbacks.

func (r *Router) showProfile(ctx context.Context, e *env, user *models.User, chatID, editID int64, now time.Time) error {
	balance, err := e.ledger.Balance(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	agg, err := e.besitos.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	levels, err := e.besitos.GetLevels(ctx)
	if err != nil {
		return err
	}
	level := economy.CurrentLevel(levels, agg.TotalBesitos)

	streak, err := e.streaks.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	progress, err := e.progress.GetOrCreate(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	isVIP, err := e.subs.IsVIPActive(ctx, user.TelegramID, now)
	if err != nil {
		return err
	}

	text := profileView(user, balance, level, streak, progress, isVIP)
	kb := transport.Row(transport.Button{Text: "⬅️ Menú", Payload: transport.Encode("user", "back")})
	return r.sendOrEdit(ctx, e, chatID, editID, text, kb)
}

func (r *Router) showMissions(ctx context.Context, e *env, userID, chatID, editID int64) error {
	missions, err := e.missions.Overview(ctx, userID)
	if err != nil {
		return err
	}
	text, kb := missionsView(missions)
	return r.sendOrEdit(ctx, e, chatID, editID, text, kb)
}

func (r *Router) showCatalog(ctx context.Context, e *env, chatID, editID int64) error {
	categories, err := e.shop.Catalog(ctx)
	if err != nil {
		return err
	}
	featured, err := e.shop.Featured(ctx)
	if err != nil {
		return err
	}
	text, kb := catalogView(categories, featured)
	return r.sendOrEdit(ctx, e, chatID, editID, text, kb)
}

func (r *Router) showBackpack(ctx context.Context, e *env, userID, chatID int64, itemType string, editID int64) error {
	entries, err := e.shop.Backpack(ctx, userID, itemType)
	if err != nil {
		return err
	}
	text, kb := backpackView(entries)
	return r.sendOrEdit(ctx, e, chatID, editID, text, kb)
}

func (r *Router) showPreferences(ctx context.Context, e *env, userID, chatID, editID int64) error {
	prefs, err := e.prefs.GetOrDefault(ctx, userID)
	if err != nil {
		return err
	}
	lc, err := e.lifecycle.Get(ctx, userID)
	if err != nil {
		return err
	}
	text, kb := prefsView(prefs, lc.DoNotDisturb)
	return r.sendOrEdit(ctx, e, chatID, editID, text, kb)
}
