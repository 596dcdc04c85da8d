package alerts

import (
	"github.com/rs/zerolog/log"
)

// LogNotifier writes alerts to the log instead of sending them,
// used when no Telegram credentials are configured
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Enqueue logs the alert text and always succeeds
func (n *LogNotifier) Enqueue(text string) bool {
	log.Info().Str("alert", text).Msg("alert (log only)")
	return true
}
