// Package notify carries store change notifications and operator alerts.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/internal/usecase/trigger"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	"github.com/johnquangdev/meeting-digest/pkg/startup"
)

// Target receives coalesced change signals. trigger.Controller satisfies it.
type Target interface {
	Notify()
}

// ChangeEvent is published whenever a transcript is written
type ChangeEvent struct {
	TranscriptID uuid.UUID `json:"transcript_id"`
	ClientID     string    `json:"client_id,omitempty"`
	Source       string    `json:"source"`
	At           time.Time `json:"at"`
}

// AlertEvent is published when the trigger controller opens its circuit
type AlertEvent struct {
	Type  string        `json:"type"`
	Alert trigger.Alert `json:"alert"`
}

const alertTypeCircuitOpen = "circuit_open"

// NewRedisClient creates a Redis client and waits for it to answer PING
func NewRedisClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}
	if err := startup.Retry(ctx, cfg.Database.ConnectTimeout, ping, log, "redis"); err != nil {
		_ = client.Close()
		return nil, err
	}

	if log != nil {
		log.Info("✅ Redis connected successfully", zap.String("addr", cfg.GetRedisAddr()))
	}
	return client, nil
}

// RedisBus publishes change events and alerts over Redis pub/sub
type RedisBus struct {
	client        *redis.Client
	changeChannel string
	alertChannel  string
	logger        *zap.Logger
}

// NewRedisBus creates a new RedisBus
func NewRedisBus(client *redis.Client, changeChannel, alertChannel string, logger *zap.Logger) *RedisBus {
	return &RedisBus{
		client:        client,
		changeChannel: changeChannel,
		alertChannel:  alertChannel,
		logger:        logger,
	}
}

// TranscriptChanged publishes a change event for a written transcript
func (b *RedisBus) TranscriptChanged(ctx context.Context, event ChangeEvent) error {
	payload, err := encodeChange(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.changeChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// CircuitOpened publishes the alert on the alert channel
func (b *RedisBus) CircuitOpened(ctx context.Context, alert trigger.Alert) error {
	payload, err := json.Marshal(AlertEvent{Type: alertTypeCircuitOpen, Alert: alert})
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	if err := b.client.Publish(ctx, b.alertChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Subscribe forwards every change event to target until ctx is done.
// Other writers (capture clients, store webhooks) publish on the same channel.
func (b *RedisBus) Subscribe(ctx context.Context, target Target) error {
	pubsub := b.client.Subscribe(ctx, b.changeChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.changeChannel, err)
	}

	if b.logger != nil {
		b.logger.Info("📡 Listening for transcript changes", zap.String("channel", b.changeChannel))
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.dispatch(msg.Payload, target)
		}
	}
}

func (b *RedisBus) dispatch(payload string, target Target) {
	event, err := decodeChange(payload)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("⚠️ Malformed change event, notifying anyway", zap.Error(err))
		}
	} else if b.logger != nil {
		b.logger.Debug("📥 Transcript change received",
			zap.String("transcript_id", event.TranscriptID.String()),
			zap.String("source", event.Source),
		)
	}
	target.Notify()
}

func encodeChange(event ChangeEvent) ([]byte, error) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode change event: %w", err)
	}
	return payload, nil
}

func decodeChange(payload string) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ChangeEvent{}, fmt.Errorf("failed to decode change event: %w", err)
	}
	return event, nil
}
