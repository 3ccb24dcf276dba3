package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/worker"
)

// TelegramSender sends replies through the Bot API, throttled to stay under
// Telegram's flood limits
type TelegramSender struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

// NewTelegramSender creates a sender allowing perSecond messages with burst.
// A non-positive rate disables throttling.
func NewTelegramSender(api *tgbotapi.BotAPI, perSecond float64, burst int) *TelegramSender {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &TelegramSender{
		api:     api,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Send waits for the limiter and sends text to chatID
func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send throttled: %w", err)
	}
	if _, err := s.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// FromUpdate converts a Telegram update into a Message. Updates without a
// text message are skipped.
func FromUpdate(update tgbotapi.Update) (Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return Message{}, false
	}

	msg := Message{
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}
	if m.IsCommand() {
		msg.Command = m.Command()
		msg.Args = m.CommandArguments()
	}
	return msg, true
}

// Poller long-polls Telegram and hands messages to the bot, one queue per chat
type Poller struct {
	api         *tgbotapi.BotAPI
	bot         *Bot
	pool        *worker.KeyedPool
	pollTimeout int
	logger      arbor.ILogger
}

// NewPoller creates a poller over an authenticated Bot API client
func NewPoller(api *tgbotapi.BotAPI, bot *Bot, config *common.TelegramConfig, logger arbor.ILogger) *Poller {
	return &Poller{
		api:         api,
		bot:         bot,
		pool:        worker.NewKeyedPool("chat", logger),
		pollTimeout: config.PollTimeout,
		logger:      logger,
	}
}

// Run receives updates until ctx is cancelled, then drains running handlers
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.pollTimeout

	updates := p.api.GetUpdatesChan(u)

	p.logger.Info().
		Str("bot", p.api.Self.UserName).
		Int("poll_timeout", p.pollTimeout).
		Msg("Polling for updates")

	defer p.pool.Stop()

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			msg, ok := FromUpdate(update)
			if !ok {
				continue
			}
			p.pool.Submit(msg.ChatID, func(ctx context.Context) {
				p.bot.Handle(ctx, msg)
			})
		}
	}
}
