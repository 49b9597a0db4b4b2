package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ds124wfegd/gif-converter/config"
	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, event entity.ConversionEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer connects to the first reachable broker and makes sure the topic
// exists. When Kafka is disabled or unreachable a logging producer is returned.
func NewProducer(cfg config.KafkaConfig) Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logrus.Info("Kafka disabled, conversion events will only be logged")
		return &mockProducer{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		logrus.WithError(err).Warn("Kafka connection failed, using mock producer instead")
		return &mockProducer{}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Warnf("Could not create topic %s (might already exist)", cfg.Topic)
	}

	logrus.WithField("brokers", cfg.Brokers).Info("Connected to Kafka")

	return &kafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		topic: cfg.Topic,
	}
}

func (p *kafkaProducer) Publish(ctx context.Context, event entity.ConversionEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"topic": p.topic,
		"token": event.Token,
	}).Debug("Conversion event sent")
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

func newMessage(event entity.ConversionEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.Token),
		Value: value,
		Time:  event.FinishedAt,
	}, nil
}

// mockProducer is used when no broker is available.
type mockProducer struct{}

func (m *mockProducer) Publish(_ context.Context, event entity.ConversionEvent) error {
	logrus.WithFields(logrus.Fields{
		"token":  event.Token,
		"status": event.Status,
		"phase":  event.Phase,
	}).Info("MOCK: conversion event")
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
