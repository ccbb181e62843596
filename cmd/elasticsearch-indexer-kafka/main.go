package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/cmd/internal"
	internaldomain "github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/elasticsearch"
	"github.com/sanLimbu/easy-tasks/internal/envvar"
	ikafka "github.com/sanLimbu/easy-tasks/internal/kafka"
)

const serviceName = "easy-tasks-elasticsearch-indexer-kafka"

func main() {
	var env string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.Parse()

	errC, err := run(env)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("zap.NewProduction %w", err)
	}

	if err := envvar.Load(env); err != nil {
		return nil, fmt.Errorf("envvar.Load %w", err)
	}

	vault, err := internal.NewVaultProvider()
	if err != nil {
		return nil, fmt.Errorf("internal.NewVaultProvider %w", err)
	}

	conf := envvar.New(vault)

	es, err := internal.NewElasticSearch(conf)
	if err != nil {
		return nil, fmt.Errorf("internal.NewElasticSearch %w", err)
	}

	kafka, err := internal.NewKafkaConsumer(conf, "elasticsearch-indexer")
	if err != nil {
		return nil, fmt.Errorf("internal.NewKafkaConsumer %w", err)
	}

	tp, err := internal.NewOTExporter(conf, serviceName)
	if err != nil {
		return nil, fmt.Errorf("internal.NewOTExporter %w", err)
	}

	srv := &Server{
		logger: logger,
		kafka:  kafka,
		task:   elasticsearch.NewTask(es),
		doneC:  make(chan struct{}),
		closeC: make(chan struct{}),
	}

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()

		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		defer func() {
			_ = logger.Sync()
			_ = kafka.Consumer.Unsubscribe()
			_ = kafka.Consumer.Close()
			_ = tp.Shutdown(context.Background())
			stop()
			cancel()
			close(errC)
		}()

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving")

		if err := srv.ListenAndServe(); err != nil {
			errC <- err
		}
	}()

	return errC, nil
}

// Server consumes task events from Kafka and keeps the search index up to date.
type Server struct {
	logger *zap.Logger
	kafka  *internal.KafkaConsumer
	task   elasticsearch.Indexer
	doneC  chan struct{}
	closeC chan struct{}
}

// ListenAndServe starts consuming in the background.
func (s *Server) ListenAndServe() error {
	commit := func(msg *kafka.Message) {
		if _, err := s.kafka.Consumer.CommitMessage(msg); err != nil {
			s.logger.Error("commit failed", zap.Error(err))
		}
	}

	go func() {
		run := true

		for run {
			select {
			case <-s.closeC:
				run = false
			default:
				msg, ok := s.kafka.Consumer.Poll(150).(*kafka.Message)
				if !ok {
					continue
				}

				if s.process(context.Background(), msg.Value) {
					commit(msg)
				}
			}
		}

		s.logger.Info("No more messages to consume. Exiting.")

		s.doneC <- struct{}{}
	}()

	return nil
}

// process applies one message and reports whether its offset can be committed. Malformed messages and events
// that are not about tasks are committed so they are not consumed again.
func (s *Server) process(ctx context.Context, value []byte) bool {
	evt, err := ikafka.DecodeEvent(value)
	if err != nil {
		s.logger.Info("Ignoring message, invalid", zap.Error(err))
		return true
	}

	task, err := evt.Task()
	if err != nil {
		s.logger.Info("Ignoring message, invalid", zap.String("type", evt.Type), zap.Error(err))
		return true
	}

	if err := elasticsearch.HandleTaskEvent(ctx, s.task, evt.Type, task); err != nil {
		var ierr *internaldomain.Error
		if errors.As(err, &ierr) && ierr.Code() == internaldomain.ErrorCodeInvalidArgument {
			s.logger.Debug("Ignoring message", zap.String("type", evt.Type))
			return true
		}

		s.logger.Error("Couldn't index", zap.String("type", evt.Type), zap.Error(err))

		return false
	}

	s.logger.Info("Consumed", zap.String("type", evt.Type))

	return true
}

// Shutdown stops consuming and waits for the consumer goroutine to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	close(s.closeC)

	select {
	case <-ctx.Done():
		return fmt.Errorf("context.Done: %w", ctx.Err())
	case <-s.doneC:
		return nil
	}
}
