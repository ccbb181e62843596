package kafka

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"

	"github.com/sanLimbu/easy-tasks/internal"
)

const otelName = "github.com/sanLimbu/easy-tasks/internal/kafka"

// Producer is implemented by *kafka.Producer.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// Event is the message published to the topic. Value holds a Task for "tasks.event.*" types and an
// Assignment for "assignments.event.*" types.
type Event struct {
	Type  string
	Value json.RawMessage
}

type publisher struct {
	producer  Producer
	topicName string
}

func (p *publisher) publish(ctx context.Context, spanName, msgType, key string, value interface{}) error {
	_, span := otel.Tracer(otelName).Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(
		attribute.KeyValue{
			Key:   semconv.MessagingSystemKey,
			Value: attribute.StringValue("kafka"),
		},
		attribute.KeyValue{
			Key:   semconv.MessagingDestinationKey,
			Value: attribute.StringValue(p.topicName),
		},
	)

	raw, err := json.Marshal(value)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Marshal")
	}

	var b bytes.Buffer

	if err := json.NewEncoder(&b).Encode(Event{Type: msgType, Value: raw}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Encode")
	}

	// Keying by task keeps the events of one task ordered within a partition.
	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.topicName,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(key),
		Value: b.Bytes(),
	}, nil); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "producer.Produce")
	}

	return nil
}

// DecodeEvent decodes the value of a consumed message.
func DecodeEvent(b []byte) (Event, error) {
	var evt Event

	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&evt); err != nil {
		return Event{}, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json.Decode")
	}

	return evt, nil
}

// Task decodes the event value as a Task.
func (e Event) Task() (internal.Task, error) {
	var task internal.Task

	if err := json.Unmarshal(e.Value, &task); err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json.Unmarshal")
	}

	return task, nil
}
