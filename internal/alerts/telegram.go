package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Telegram caps bots around 30 messages a minute per chat, so keep a
// floor between sends
const telegramSendInterval = 2 * time.Second

// TelegramNotifier sends movement alerts to a Telegram chat through an
// async queue so detection never blocks on the Telegram API
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	clock    clockwork.Clock
	queue    chan string
	lastSend time.Time
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewTelegramNotifier creates a notifier and starts its send worker
func NewTelegramNotifier(token string, chatID int64, clock clockwork.Clock) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("telegram bot handshake: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		clock:  clock,
		queue:  make(chan string, 100),
		cancel: cancel,
	}

	n.wg.Add(1)
	go n.sendLoop(ctx)

	log.Info().Int64("chat_id", chatID).Msg("telegram notifier started")
	return n, nil
}

// Enqueue queues a message for delivery, false when the queue is full
func (n *TelegramNotifier) Enqueue(text string) bool {
	select {
	case n.queue <- text:
		return true
	default:
		return false
	}
}

// QueueLen returns the number of messages waiting to be sent
func (n *TelegramNotifier) QueueLen() int {
	return len(n.queue)
}

// Stop drains the queue and shuts the worker down
func (n *TelegramNotifier) Stop() {
	n.cancel()
	n.wg.Wait()
}

func (n *TelegramNotifier) sendLoop(ctx context.Context) {
	defer n.wg.Done()

	for {
		select {
		case <-ctx.Done():
			// Drain whatever is still queued before exiting
			for {
				select {
				case text := <-n.queue:
					n.send(ctx, text)
				default:
					return
				}
			}
		case text := <-n.queue:
			n.send(ctx, text)
		}
	}
}

// send delivers one message, waiting out the send interval first
func (n *TelegramNotifier) send(ctx context.Context, text string) {
	elapsed := n.clock.Now().Sub(n.lastSend)
	if elapsed < telegramSendInterval {
		select {
		case <-ctx.Done():
			// Still deliver during drain, just without the pause
		case <-n.clock.After(telegramSendInterval - elapsed):
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		log.Warn().Err(err).Msg("telegram send failed")
		return
	}

	n.lastSend = n.clock.Now()
}
