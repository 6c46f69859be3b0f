package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"lexibot/core/buildinfo"
	coretelegram "lexibot/core/telegram"
	"lexibot/core/telegram/commands"
	tghelpers "lexibot/core/telegram/helpers"
	"lexibot/review"
	"lexibot/vocab"
)

const greeting = `Hi! I help you grow your English vocabulary.

Send me any English text and I will pick out the words you have not met
before, look up their translation and transcription, and keep them for
review. Use the menu below to add words or start reviewing.`

const helpText = `*How it works*

➕ _Add words_ — send me free text, I extract new words from it.
🆕 _Learn new words_ — review freshly added words one by one.
📗 _Repeat learned words_ — go through learned words again.

On each card mark the word as learned, as known, or skip it.
A "-" instead of a translation means the dictionary lookup failed.`

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start the bot and show the menu",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     a.handleMenu,
		Description: "Show the main menu",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Show word counts per category",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Explain how the bot works",
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     a.handleVersion,
		Description: "Show build information",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) handleStart(c tele.Context) error {
	a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.ReturnToMenu{})
	return tghelpers.SendMD(c, greeting, menuKeyboard())
}

func (a *App) handleMenu(c tele.Context) error {
	directive := a.sessions.Handle(tghelpers.BuildContext(c), c.Sender().ID, review.ReturnToMenu{})
	return a.render(c, directive)
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendMD(c, helpText)
}

func (a *App) handleStats(c tele.Context) error {
	counts, err := a.store.CountByCategory(tghelpers.BuildContext(c))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	var b strings.Builder
	b.WriteString("*Your vocabulary*\n\n")
	fmt.Fprintf(&b, "🆕 new: %d\n", counts[vocab.CategoryNew])
	fmt.Fprintf(&b, "✅ learned: %d\n", counts[vocab.CategoryLearned])
	fmt.Fprintf(&b, "🎓 known: %d\n", counts[vocab.CategoryKnown])
	return tghelpers.SendMD(c, b.String())
}

func (a *App) handleVersion(c tele.Context) error {
	text := fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	return tghelpers.SendText(c, text)
}

func (a *App) handleUnknownText(c tele.Context) error {
	return tghelpers.SendMD(c, "I was not expecting text right now. Use /menu to add words or start a review.")
}

func (a *App) handleUnknownDocument(c tele.Context) error {
	return tghelpers.SendMD(c, "I can only read plain text messages. Send the text itself, not a file.")
}
