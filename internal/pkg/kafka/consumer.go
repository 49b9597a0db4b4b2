package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/gif-converter/config"
	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type EventHandler func(entity.ConversionEvent) error

// ConsumeEvents reads conversion events until ctx is cancelled.
func ConsumeEvents(ctx context.Context, cfg config.KafkaConfig, handle EventHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Info("Conversion event consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			continue
		}

		event, err := decodeEvent(msg)
		if err != nil {
			logrus.WithError(err).WithField("offset", msg.Offset).Warn("Failed to parse conversion event")
			continue
		}

		if err := handle(event); err != nil {
			logrus.WithError(err).WithField("token", event.Token).Error("Conversion event handler failed")
		}
	}
}

func decodeEvent(msg kafka.Message) (entity.ConversionEvent, error) {
	var event entity.ConversionEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
