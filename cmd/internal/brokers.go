package internal

import (
	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/envvar"
	"github.com/sanLimbu/easy-tasks/internal/kafka"
	"github.com/sanLimbu/easy-tasks/internal/rabbitmq"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

// MessageBrokers groups the publishers of task and assignment events.
type MessageBrokers struct {
	Task       service.TaskMessageBrokerRepository
	Assignment service.AssignmentMessageBrokerRepository
	Close      func()
}

// NewMessageBrokers returns the publishers selected by MESSAGE_BROKER, "kafka" (default), "rabbitmq" or
// "none".
func NewMessageBrokers(conf *envvar.Configuration) (*MessageBrokers, error) {
	kind, err := conf.GetDefault("MESSAGE_BROKER", "kafka")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get MESSAGE_BROKER")
	}

	switch kind {
	case "kafka":
		k, err := NewKafkaProducer(conf)
		if err != nil {
			return nil, err
		}

		return &MessageBrokers{
			Task:       kafka.NewTask(k.Producer, k.Topic),
			Assignment: kafka.NewAssignment(k.Producer, k.Topic),
			Close:      k.Close,
		}, nil
	case "rabbitmq":
		rmq, err := NewRabbitMQ(conf)
		if err != nil {
			return nil, err
		}

		return &MessageBrokers{
			Task:       rabbitmq.NewTask(rmq.Channel),
			Assignment: rabbitmq.NewAssignment(rmq.Channel),
			Close:      rmq.Close,
		}, nil
	case "none":
		return &MessageBrokers{Close: func() {}}, nil
	}

	return nil, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown message broker %q", kind)
}
