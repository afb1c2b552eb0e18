//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/schoolcancelled/school-status-etl/internal/adapter/alertbus"
	"github.com/schoolcancelled/school-status-etl/internal/config"
	"github.com/schoolcancelled/school-status-etl/internal/domain"
)

const testAlertTopic = "test-school-status-alerts"

// startKafka launches a single-node Kafka container and returns its broker
// address. The container is cleaned up with the test.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic via the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic")
}

// publishedAlert holds a deserialized message read from the alert topic.
type publishedAlert struct {
	Status  domain.StatusLabel  `json:"status"`
	Message string              `json:"message"`
	Report  domain.StatusReport `json:"report"`
}

// TestAlertBusPublish verifies that alertbus.Writer round-trips an alert
// through Kafka with its key, headers, and payload intact.
func TestAlertBusPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	cfg := &config.Config{
		AlertBrokers: []string{broker},
		AlertTopic:   testAlertTopic,
	}
	writer := alertbus.NewWriter(cfg, slog.Default())
	t.Cleanup(func() { writer.Close() })

	updated := time.Date(2025, time.January, 26, 18, 30, 0, 0, time.UTC)
	report := domain.StatusReport{
		IsOpen:      false,
		Status:      domain.StatusClosed,
		Message:     "Next school day (Monday, January 27th, 2025): Closed\nAll schools will be closed Monday due to inclement weather.",
		TargetDate:  "2025-01-27",
		LastUpdated: updated,
		Confidence:  0.92,
		Verified:    true,
	}
	require.NoError(t, writer.Publish(ctx, report), "publish alert")

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     "test-alert-consumer",
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	assert.Equal(t, string(domain.StatusClosed), string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, string(domain.StatusClosed), headers["status"])
	assert.Equal(t, updated.Format(time.RFC3339), headers["published_at"])

	var alert publishedAlert
	require.NoError(t, json.Unmarshal(msg.Value, &alert), "unmarshal alert payload")
	assert.Equal(t, domain.StatusClosed, alert.Status)
	assert.Equal(t, report.Message, alert.Message)
	assert.Equal(t, "2025-01-27", alert.Report.TargetDate)
	assert.False(t, alert.Report.IsOpen)
	assert.True(t, alert.Report.Verified)
}
