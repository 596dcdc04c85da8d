package models

import (
	"strings"
	"time"
)

// Message types for WebSocket communication
const (
	MessageTypeBoardUpdate     = "board_update"
	MessageTypeSubscribe       = "subscribe"
	MessageTypeUnsubscribe     = "unsubscribe"
	MessageTypeHeartbeat       = "heartbeat"
	MessageTypeError           = "error"
	MessageTypeConnectionStats = "connection_stats"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BoardUpdate is the payload published to the board.updates stream and
// broadcast to WebSocket clients when a market's board changes.
type BoardUpdate struct {
	Market     MarketType `json:"market"`
	PlayerName string     `json:"player_name,omitempty"`
	StatType   string     `json:"stat_type,omitempty"`
	Team       string     `json:"team,omitempty"`
	Board      Board      `json:"board"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SubscriptionFilter represents client subscription preferences.
// Empty slices match everything.
type SubscriptionFilter struct {
	Players []string `json:"players,omitempty"`
	Teams   []string `json:"teams,omitempty"`
	Markets []string `json:"markets,omitempty"`
}

// Matches reports whether an update passes the filter
func (f *SubscriptionFilter) Matches(update BoardUpdate) bool {
	if f == nil {
		return true
	}
	if !matchesAny(f.Players, update.PlayerName) {
		return false
	}
	if !matchesAny(f.Teams, update.Team) {
		return false
	}
	if !matchesAny(f.Markets, string(update.Market)) {
		return false
	}
	return true
}

func matchesAny(wanted []string, value string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(w, value) {
			return true
		}
	}
	return false
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID         string    `json:"client_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
	LastMessageAt    time.Time `json:"last_message_at"`
}

// ErrorMessage represents an error message sent over the socket
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
