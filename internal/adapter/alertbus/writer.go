// Package alertbus relays classified alerts to a Kafka topic consumed by
// downstream delivery workers (SMS, email, browser push). Delivery providers
// themselves stay outside this service; they consume the composed message
// string from the published payload.
package alertbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/schoolcancelled/school-status-etl/internal/config"
	"github.com/schoolcancelled/school-status-etl/internal/domain"
)

// Writer produces alert messages to the configured topic.
// It implements status.AlertPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// alertPayload is the wire format published per alert transition.
type alertPayload struct {
	Status  domain.StatusLabel  `json:"status"`
	Message string              `json:"message"`
	Report  domain.StatusReport `json:"report"`
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.AlertBrokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes the report and writes one alert message to the topic.
func (w *Writer) Publish(ctx context.Context, report domain.StatusReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StatusReport into a Kafka alert message.
func serializeToMessage(report domain.StatusReport) (kafkago.Message, error) {
	data, err := json.Marshal(alertPayload{
		Status:  report.Status,
		Message: report.Message,
		Report:  report,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.Status),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(report.Status)},
			{Key: "published_at", Value: []byte(report.LastUpdated.Format(time.RFC3339))},
		},
	}, nil
}
