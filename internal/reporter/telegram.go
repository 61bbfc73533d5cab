// Package reporter pushes run outcomes to Telegram so a scheduled scrape
// can be watched from a phone instead of a log file.
package reporter

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-zephyr-scraper/internal/config"
	"go-zephyr-scraper/internal/orchestrator"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// NotifyRunComplete formats the end-of-run summary.
func (t *TelegramReporter) NotifyRunComplete(stats orchestrator.RunStats) error {
	text := fmt.Sprintf(
		"✅ <b>Zephyr run complete</b>\n"+
			"🔍 Subscriptions: %d (%d failed)\n"+
			"📥 Listings fetched: %d\n"+
			"💾 New jobs saved: %d\n"+
			"⏭ Skipped: %d\n"+
			"⏱ Duration: %s",
		stats.Subscriptions,
		stats.Failed,
		stats.Fetched,
		stats.Inserted,
		stats.Skipped,
		stats.Duration.Round(time.Second),
	)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Zephyr Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
