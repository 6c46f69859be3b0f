package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "lexibot/core/telegram"
	"lexibot/core/telegram/callbacks"
	tghelpers "lexibot/core/telegram/helpers"
	"lexibot/review"
	"lexibot/vocab"
)

// Callback keys. Menu and mark choices carry their variant in the payload.
const (
	cbMenuAdd    = "menu_add"
	cbMenuReview = "menu_review"
	cbReviewMark = "review_mark"
	cbReviewBack = "review_back"
)

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	handlers := map[string]tele.HandlerFunc{
		cbMenuAdd:    a.handleMenuAdd,
		cbMenuReview: a.handleMenuReview,
		cbReviewMark: a.handleReviewMark,
		cbReviewBack: a.handleReviewBack,
	}
	for key, handler := range handlers {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) handleMenuAdd(c tele.Context) error {
	directive := a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.BeginTextEntry{})
	return a.render(c, directive)
}

func (a *App) handleMenuReview(c tele.Context) error {
	category := vocab.Category(callbacks.CallbackPayload(c))
	if !category.Valid() {
		return a.render(c, review.ShowWarning{Message: "Unknown category, use the menu buttons."})
	}
	directive := a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.StartReview{Category: category})
	return a.render(c, directive)
}

func (a *App) handleReviewMark(c tele.Context) error {
	var mark review.Mark
	switch callbacks.CallbackPayload(c) {
	case "learned":
		mark = review.MarkLearned
	case "known":
		mark = review.MarkKnown
	case "skip":
		mark = review.MarkSkip
	default:
		return a.render(c, review.ShowWarning{Message: "Unknown action, use the buttons on the card."})
	}
	directive := a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.Advance{Mark: mark})
	return a.render(c, directive)
}

func (a *App) handleReviewBack(c tele.Context) error {
	directive := a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.ReturnToMenu{})
	return a.render(c, directive)
}
