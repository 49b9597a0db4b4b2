// logs every conversion event published by the app
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ds124wfegd/gif-converter/config"
	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/ds124wfegd/gif-converter/internal/pkg/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg := config.KafkaConfig{
		Enabled: true,
		Brokers: strings.Split(config.GetEnv("KAFKA_BROKERS", "localhost:9094"), ","),
		Topic:   config.GetEnv("KAFKA_TOPIC", "gif-conversions"),
		GroupID: config.GetEnv("KAFKA_GROUP_ID", "gif-conversion-events"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := kafka.ConsumeEvents(ctx, cfg, func(e entity.ConversionEvent) error {
		entry := logrus.WithFields(logrus.Fields{
			"token":       e.Token,
			"fps":         e.FPS,
			"scale":       e.Scale,
			"duration_ms": e.DurationMs,
		})
		if e.Status == entity.EventStatusFailed {
			entry.WithField("phase", e.Phase).Warnf("Conversion failed: %s", e.Error)
			return nil
		}
		entry.WithField("gif_url", e.GifURL).Info("Conversion completed")
		return nil
	})
	if err != nil {
		logrus.Fatalf("event consumer stopped: %s", err.Error())
	}
}
