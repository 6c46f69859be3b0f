package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"lexibot/core/telegram/format"
	tghelpers "lexibot/core/telegram/helpers"
	"lexibot/core/telegram/keyboard"
	"lexibot/review"
	"lexibot/vocab"
)

const menuText = `*Vocabulary menu*
What would you like to do?`

const textPrompt = `Send me the text you want to learn words from.
I will extract every new word, look it up, and store it for review.`

func menuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "➕ Add words", Unique: cbMenuAdd}},
		[]keyboard.InlineBtn{{Text: "🆕 Learn new words", Unique: cbMenuReview, Data: string(vocab.CategoryNew)}},
		[]keyboard.InlineBtn{{Text: "📗 Repeat learned words", Unique: cbMenuReview, Data: string(vocab.CategoryLearned)}},
	)
}

func reviewKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✅ Learned", Unique: cbReviewMark, Data: "learned"},
			{Text: "🎓 Known", Unique: cbReviewMark, Data: "known"},
		},
		[]keyboard.InlineBtn{{Text: "➡️ Skip", Unique: cbReviewMark, Data: "skip"}},
		[]keyboard.InlineBtn{{Text: "🔙 Menu", Unique: cbReviewBack}},
	)
}

func mdEscape(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return escaped
}

func wordCard(d review.ShowWord) string {
	return fmt.Sprintf("*%s*  %s\n%s\n\n_%d of %d_",
		mdEscape(d.Word.Word),
		mdEscape(d.Word.Transcription),
		mdEscape(d.Word.Translation),
		d.Position, d.Total,
	)
}

func emptyListText(category vocab.Category) string {
	switch category {
	case vocab.CategoryNew:
		return "No new words yet. Add some text first!"
	case vocab.CategoryLearned:
		return "No learned words to repeat yet."
	default:
		return "Nothing to review in this category."
	}
}

// render turns a session directive into an outbound message. Button-driven
// directives edit the originating card in place; everything else is sent
// as a fresh message.
func (a *App) render(c tele.Context, directive review.Directive) error {
	switch d := directive.(type) {
	case nil:
		return nil
	case review.ShowMenu:
		return tghelpers.EditOrSendMD(c, menuText, menuKeyboard())
	case review.ShowWord:
		return tghelpers.EditOrSendMD(c, wordCard(d), reviewKeyboard())
	case review.ShowEmptyList:
		return tghelpers.EditOrSendMD(c, emptyListText(d.Category), menuKeyboard())
	case review.ShowSessionSummary:
		text := fmt.Sprintf("*Review finished!*\n\n✅ learned: %d\n🎓 known: %d", d.Learned, d.Known)
		return tghelpers.EditOrSendMD(c, text, menuKeyboard())
	case review.ShowTextPrompt:
		return tghelpers.EditOrSendMD(c, textPrompt, keyboard.SingleCancelMarkup(cbReviewBack, "back", "🔙 Menu"))
	case review.ShowIngestResult:
		if d.Empty {
			return tghelpers.SendMD(c, "I could not find any words in that text.", menuKeyboard())
		}
		text := fmt.Sprintf("Added %d new words, skipped %d you already have.", d.Added, d.Skipped)
		return tghelpers.SendMD(c, text, menuKeyboard())
	case review.ShowWarning:
		return tghelpers.SendMD(c, mdEscape(d.Message))
	default:
		return nil
	}
}
