package alerts_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Stattrackrr/stattrackr/internal/alerts"
)

func TestShouldAlert(t *testing.T) {
	filter := alerts.NewFilter(3.0, 0.5, 60)

	tests := []struct {
		name     string
		movement alerts.LineMovement
		want     bool
	}{
		{
			name:     "price move above threshold",
			movement: alerts.LineMovement{PriceMovePct: 5.0},
			want:     true,
		},
		{
			name:     "line delta above threshold",
			movement: alerts.LineMovement{LineDelta: 1.0},
			want:     true,
		},
		{
			name:     "half point line move qualifies",
			movement: alerts.LineMovement{LineDelta: 0.5},
			want:     true,
		},
		{
			name:     "both below threshold",
			movement: alerts.LineMovement{PriceMovePct: 1.0, LineDelta: 0.25},
			want:     false,
		},
		{
			name:     "stale data rejected despite big move",
			movement: alerts.LineMovement{PriceMovePct: 10.0, DataAgeSeconds: 120},
			want:     false,
		},
		{
			name:     "fresh data at age boundary passes",
			movement: alerts.LineMovement{PriceMovePct: 10.0, DataAgeSeconds: 60},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := filter.ShouldAlert(tt.movement)
			if got != tt.want {
				t.Errorf("ShouldAlert(%+v) = %v (%s), want %v", tt.movement, got, reason, tt.want)
			}
			if !got && reason == "" {
				t.Error("expected a reason when filtered")
			}
		})
	}
}

func TestFilterMovements(t *testing.T) {
	filter := alerts.NewFilter(3.0, 0.5, 60)

	movements := []alerts.LineMovement{
		{Bookmaker: "book a", PriceMovePct: 5.0},
		{Bookmaker: "book b", PriceMovePct: 0.5},
		{Bookmaker: "book c", LineDelta: 2.0},
	}

	filtered := filter.FilterMovements(movements)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 movements to pass, got %d", len(filtered))
	}
	if filtered[0].Bookmaker != "book a" || filtered[1].Bookmaker != "book c" {
		t.Errorf("unexpected survivors: %+v", filtered)
	}
}

type recordingNotifier struct {
	messages []string
	full     bool
}

func (r *recordingNotifier) Enqueue(text string) bool {
	if r.full {
		return false
	}
	r.messages = append(r.messages, text)
	return true
}

type stubDedup struct {
	fresh bool
}

func (s *stubDedup) ShouldAlert(ctx context.Context, identity string) (bool, error) {
	return s.fresh, nil
}

type stubLimiter struct {
	allow bool
}

func (s *stubLimiter) AllowAlert(ctx context.Context) (bool, error) {
	return s.allow, nil
}

func TestServicePipelineSendsAlert(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2026, time.January, 15, 19, 0, 0, 0, time.UTC))
	store := newMemExtremes()
	detector := alerts.NewDetector(store, fc)
	notifier := &recordingNotifier{}

	service := alerts.NewService(
		detector,
		alerts.NewFilter(3.0, 0.5, 60),
		&stubDedup{fresh: true},
		&stubLimiter{allow: true},
		notifier,
	)

	ctx := context.Background()
	service.HandleBoard(ctx, propBoard("book a", 25.5, 1.91, fc.Now()))
	service.HandleBoard(ctx, propBoard("book a", 26.5, 1.91, fc.Now()))

	if len(notifier.messages) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Jayson Tatum") {
		t.Errorf("unexpected alert text: %q", notifier.messages[0])
	}
}

func TestServicePipelineRespectsDedupAndLimit(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2026, time.January, 15, 19, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// dedup says already sent
	store := newMemExtremes()
	notifier := &recordingNotifier{}
	service := alerts.NewService(
		alerts.NewDetector(store, fc),
		alerts.NewFilter(3.0, 0.5, 60),
		&stubDedup{fresh: false},
		&stubLimiter{allow: true},
		notifier,
	)
	service.HandleBoard(ctx, propBoard("book a", 25.5, 1.91, fc.Now()))
	service.HandleBoard(ctx, propBoard("book a", 26.5, 1.91, fc.Now()))
	if len(notifier.messages) != 0 {
		t.Errorf("expected dedup to suppress alert, got %d", len(notifier.messages))
	}

	// rate limiter says no
	store = newMemExtremes()
	notifier = &recordingNotifier{}
	service = alerts.NewService(
		alerts.NewDetector(store, fc),
		alerts.NewFilter(3.0, 0.5, 60),
		&stubDedup{fresh: true},
		&stubLimiter{allow: false},
		notifier,
	)
	service.HandleBoard(ctx, propBoard("book a", 25.5, 1.91, fc.Now()))
	service.HandleBoard(ctx, propBoard("book a", 26.5, 1.91, fc.Now()))
	if len(notifier.messages) != 0 {
		t.Errorf("expected rate limit to suppress alert, got %d", len(notifier.messages))
	}
}
