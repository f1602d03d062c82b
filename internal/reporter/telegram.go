// Package reporter pushes session summaries to Telegram once a run reaches a
// terminal state.
package reporter

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobradar-automation/internal/models"
)

type TelegramReporter struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram builds a reporter for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*TelegramReporter, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{api: api, chatID: chatID}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SessionFinished sends one summary message per finished session. Send
// failures are logged, never propagated; reporting must not fail a session.
func (r *TelegramReporter) SessionFinished(session models.ScrapingSession) {
	icon := "✅"
	switch session.Status {
	case models.StatusFailed:
		icon = "❌"
	case models.StatusCancelled:
		icon = "🛑"
	}

	msgText := fmt.Sprintf("%s *Scrape %s*\n", icon, session.Status)
	msgText += fmt.Sprintf("🔍 %s\n", escapeMarkdown(strings.Join(session.Params.Keywords, ", ")))
	if session.Params.Location != "" {
		msgText += fmt.Sprintf("📍 %s\n", escapeMarkdown(session.Params.Location))
	}
	msgText += fmt.Sprintf("📄 Pages: %d\n", session.Stats.PagesScraped)
	msgText += fmt.Sprintf("📦 Found: %d, saved: %d, duplicates: %d\n",
		session.Stats.JobsFound, session.Stats.JobsSaved, session.Stats.Duplicates)
	if session.Stats.ErrorsCount > 0 {
		msgText += fmt.Sprintf("⚠️ Errors: %d\n", session.Stats.ErrorsCount)
	}

	msg := tgbotapi.NewMessage(r.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	if _, err := r.api.Send(msg); err != nil {
		log.Printf("⚠️ Failed to send session summary to Telegram: %v", err)
	}
}
