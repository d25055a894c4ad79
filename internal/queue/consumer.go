package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ConsumerConfig configures StartNotificationConsumer.
type ConsumerConfig struct {
	URL     string
	LogPath string // defaults to logs/notifications.log
	Logger  *zap.Logger
}

const maxBackoff = 30 * time.Second

// StartNotificationConsumer consumes NotificationQueue and appends one
// line per notification to the delivery log.  It reconnects with
// exponential backoff until ctx is cancelled.  Messages that cannot be
// handled are rejected without requeue so a bad message cannot loop.
func StartNotificationConsumer(ctx context.Context, cfg ConsumerConfig) error {
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join("logs", "notifications.log")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("notification consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		log.Info("notification consumer connected", zap.String("queue", NotificationQueue))

		err = consumeLoop(ctx, conn, cfg.LogPath, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("notification consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("notification consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(d.Body, logPath); err != nil {
				log.Error("notification consumer: handle message failed",
					zap.String("message_id", d.MessageId), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one ReservationEvent and appends its rendered line
// to logPath.
func HandleMessage(body []byte, logPath string) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line, err := FormatNotification(ev)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatNotification renders the single-line message for an event.
func FormatNotification(ev ReservationEvent) (string, error) {
	var subject string
	switch ev.Type {
	case EventReservationConfirmed:
		subject = "Reservation confirmed"
	case EventReservationCancelled:
		subject = "Reservation cancelled"
	default:
		return "", fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.ReservationID == 0 {
		return "", errors.New("missing reservation_id")
	}
	line := fmt.Sprintf("[%s] %s | event_id=%s | reservation_id=%d | customer_id=%d | restaurant=%q | address=%q | date=%s | time=%s | party_size=%d",
		ev.OccurredAt, subject, ev.EventID, ev.ReservationID, ev.CustomerID, ev.RestaurantName, ev.Address, ev.Date, ev.Time, ev.PartySize)
	if ev.SpecialRequest != nil && *ev.SpecialRequest != "" {
		line += fmt.Sprintf(" | special_request=%q", *ev.SpecialRequest)
	}
	return line + "\n", nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
