package security

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/metrics"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

// DebounceWindow is the suppression interval: the first trigger in a
// window emits an alert, later triggers inside it are dropped.
const DebounceWindow = 5 * time.Second

const recentAlertsCap = 20

// AlertSink receives every emitted alert; the broadcast channel for
// the banner UI.
type AlertSink interface {
	Publish(event models.AlertEvent) error
}

// NopSink stands in when no broadcast transport is configured.
type NopSink struct{}

func (NopSink) Publish(models.AlertEvent) error { return nil }

// Broker is the single owner of alert debounce state. Every trigger
// source publishes into it; it decides which triggers become events.
type Broker struct {
	window   time.Duration
	sink     AlertSink
	triggers chan string
	done     chan struct{}

	mu     sync.Mutex
	subs   []chan models.AlertEvent
	recent []models.AlertEvent
}

func NewBroker(window time.Duration, sink AlertSink) *Broker {
	if sink == nil {
		sink = NopSink{}
	}
	b := &Broker{
		window:   window,
		sink:     sink,
		triggers: make(chan string, 64),
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

// Trigger reports a countermeasure firing. Never blocks; under a
// trigger flood excess reports are dropped, which the debounce would
// have suppressed anyway.
func (b *Broker) Trigger(message string) {
	select {
	case b.triggers <- message:
	case <-b.done:
	default:
	}
}

// Subscribe returns a channel receiving emitted alerts. Slow consumers
// miss events rather than blocking the broker.
func (b *Broker) Subscribe() <-chan models.AlertEvent {
	ch := make(chan models.AlertEvent, 8)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Recent returns the most recently emitted alerts, newest last.
func (b *Broker) Recent() []models.AlertEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.AlertEvent(nil), b.recent...)
}

func (b *Broker) Close() {
	close(b.done)
}

func (b *Broker) run() {
	var lastEmit time.Time
	for {
		select {
		case <-b.done:
			return
		case msg := <-b.triggers:
			now := time.Now()
			if !lastEmit.IsZero() && now.Sub(lastEmit) < b.window {
				metrics.AlertsSuppressed.Inc()
				continue
			}
			lastEmit = now
			b.emit(models.AlertEvent{Message: msg, Timestamp: now})
		}
	}
}

func (b *Broker) emit(event models.AlertEvent) {
	metrics.AlertsEmitted.Inc()

	b.mu.Lock()
	b.recent = append(b.recent, event)
	if len(b.recent) > recentAlertsCap {
		b.recent = b.recent[len(b.recent)-recentAlertsCap:]
	}
	subs := append([]chan models.AlertEvent(nil), b.subs...)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}

	if err := b.sink.Publish(event); err != nil {
		telemetry.Logger.Warn("Failed to broadcast alert", zap.Error(err))
	}

	telemetry.Logger.Info("Security alert emitted", zap.String("message", event.Message))
}
