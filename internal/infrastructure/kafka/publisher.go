package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// Publisher publica eventos de umbral de stock en Kafka (clave = ID de posición, valor JSON).
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

var _ inventory.EventPublisher = (*Publisher)(nil)

// NewProducer crea un SyncProducer con confirmación de todas las réplicas.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: crear producer: %w", err)
	}
	return producer, nil
}

// NewPublisher construye el publisher sobre un producer ya creado.
func NewPublisher(producer sarama.SyncProducer, topic string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{producer: producer, topic: topic, log: log}
}

// PublishStockThreshold envía el evento; la clave agrupa los eventos de una posición en la misma partición.
func (p *Publisher) PublishStockThreshold(ctx context.Context, event inventory.StockThresholdEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PositionID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: enviar a %s: %w", p.topic, err)
	}
	p.log.Debug().
		Str("event_id", event.EventID).
		Str("event_type", string(event.Type)).
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("evento de umbral publicado")
	return nil
}

// Close cierra el producer.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// LogPublisher solo registra los eventos; se usa cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

var _ inventory.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher construye el publisher de solo log.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// PublishStockThreshold registra el evento a nivel warn.
func (p *LogPublisher) PublishStockThreshold(_ context.Context, event inventory.StockThresholdEvent) error {
	p.log.Warn().
		Str("event_type", string(event.Type)).
		Str("position_id", event.PositionID).
		Str("product_id", event.ProductID).
		Str("warehouse_id", event.WarehouseID).
		Int64("quantity", event.Quantity).
		Int64("minimum_stock", event.MinimumStock).
		Int64("maximum_stock", event.MaximumStock).
		Msg("umbral de stock cruzado")
	return nil
}
