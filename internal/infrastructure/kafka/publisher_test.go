package kafka_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

func sampleEvent() inventory.StockThresholdEvent {
	return inventory.StockThresholdEvent{
		EventID:      "evt-1",
		Type:         inventory.ThresholdLowStock,
		PositionID:   "pos-1",
		ProductID:    "prod-1",
		WarehouseID:  "wh-1",
		Quantity:     3,
		MinimumStock: 5,
		OccurredAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPublisher_PublishStockThreshold_SendsJSON(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got inventory.StockThresholdEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != inventory.ThresholdLowStock || got.PositionID != "pos-1" || got.Quantity != 3 {
			return errors.New("payload inesperado")
		}
		return nil
	})

	pub := kafka.NewPublisher(producer, "inventory.stock-thresholds", logger.NewNop())
	require.NoError(t, pub.PublishStockThreshold(context.Background(), sampleEvent()))
	require.NoError(t, pub.Close())
}

func TestPublisher_PublishStockThreshold_PropagatesSendError(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := kafka.NewPublisher(producer, "inventory.stock-thresholds", nil)
	err := pub.PublishStockThreshold(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestPublisher_PublishStockThreshold_CanceledContext(t *testing.T) {
	cfg := mocks.NewTestConfig()
	producer := mocks.NewSyncProducer(t, cfg)

	pub := kafka.NewPublisher(producer, "topic", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.PublishStockThreshold(ctx, sampleEvent()), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestLogPublisher_WritesWarning(t *testing.T) {
	var buf bytes.Buffer
	pub := kafka.NewLogPublisher(logger.NewWithWriter(&buf, "info"))

	require.NoError(t, pub.PublishStockThreshold(context.Background(), sampleEvent()))
	assert.Contains(t, buf.String(), `"event_type":"LOW_STOCK"`)
	assert.Contains(t, buf.String(), `"position_id":"pos-1"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
