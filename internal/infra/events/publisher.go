package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/tracing"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"

	publishTimeout = 5 * time.Second
)

// KafkaPublisher публикует события записей в Kafka
// Ключ сообщения - ID мастерской, что сохраняет порядок событий одной мастерской.
// Публикация best-effort: ошибки логируются и не возвращаются вызывающему коду
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger Logger
}

// NewKafkaPublisher создает publisher поверх kafka.Writer с hash-балансировкой по ключу
func NewKafkaPublisher(brokers []string, topic string, logger Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: publishTimeout,
	}
	return NewPublisherWithWriter(writer, topic, logger)
}

// NewPublisherWithWriter создает publisher с произвольным writer (используется в тестах)
func NewPublisherWithWriter(writer MessageWriter, topic string, logger Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish отправляет события одной пачкой
// Отмена контекста запроса не прерывает отправку уже зафиксированных изменений
func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.AppointmentEvent) {
	if len(events) == 0 {
		return
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := BuildMessage(ctx, e)
		if err != nil {
			p.logger.Error("Publish: failed to build message for event=%s type=%s: %v", e.EventID, e.Type, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		p.logger.Error("Publish: failed to write %d events to topic=%s: %v", len(msgs), p.topic, err)
		return
	}
	p.logger.Info("Publish: %d events written to topic=%s", len(msgs), p.topic)
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// BuildMessage сериализует событие в сообщение Kafka с заголовками event_id, event_type
// и контекстом трассировки
func BuildMessage(ctx context.Context, e domain.AppointmentEvent) (kafka.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("events: marshal event: %w", err)
	}

	headers := []kafka.Header{
		{Key: headerEventID, Value: []byte(e.EventID.String())},
		{Key: headerEventType, Value: []byte(e.Type)},
	}
	for k, v := range tracing.InjectMap(ctx) {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return kafka.Message{
		Key:     []byte(e.ShopID.String()),
		Value:   payload,
		Headers: headers,
		Time:    e.OccurredAt,
	}, nil
}

// NoopPublisher используется, когда брокеры не настроены
type NoopPublisher struct{}

// Publish ничего не делает
func (NoopPublisher) Publish(context.Context, ...domain.AppointmentEvent) {}
