package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier is the downstream notification sink. Delivery is informational;
// payrun correctness never depends on it.
type Notifier interface {
	NotifyPayrunLifecycle(ctx context.Context, event events.PayrunLifecycleEvent) error
}

func ConsumePayrunLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payrun_lifecycle")
	log.Info("payrun lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payrun lifecycle consumer stopped")
				return
			}
			log.Error("fetch payrun lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PayrunLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payrun lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyPayrunLifecycle(ctx, event); err != nil {
			log.Error("notify payrun lifecycle failed",
				zap.String("payrun_id", event.PayrunID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payrun lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("payrun lifecycle notification delivered",
			zap.String("payrun_id", event.PayrunID),
			zap.String("event_type", event.EventType),
		)
	}
}

// LogNotifier writes notifications to the service log. It stands in for a
// real delivery channel (email, chat webhook) in local setups.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyPayrunLifecycle(_ context.Context, event events.PayrunLifecycleEvent) error {
	n.Logger.Info("payrun notification",
		zap.String("payrun_id", event.PayrunID),
		zap.String("payrun_name", event.PayrunName),
		zap.String("event_type", event.EventType),
		zap.String("status", event.Status),
		zap.Int("year", event.Year),
		zap.Int("month", event.Month),
	)
	return nil
}
