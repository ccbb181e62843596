package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/cmd/internal"
	internaldomain "github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/envvar"
	"github.com/sanLimbu/easy-tasks/internal/postgresql"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

const serviceName = "easy-tasks-rollover-worker"

func main() {
	var env string
	var once bool

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.BoolVar(&once, "once", false, "Roll every organization over once and exit")
	flag.Parse()

	errC, err := run(env, once)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env string, once bool) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "zap.NewProduction")
	}

	if err := envvar.Load(env); err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "envvar.Load")
	}

	vault, err := internal.NewVaultProvider()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewVaultProvider")
	}

	conf := envvar.New(vault)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	pool, err := internal.NewPostgreSQL(ctx, conf)
	if err != nil {
		stop()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewPostgreSQL")
	}

	buckets, closeBuckets, err := internal.NewBucketStore(ctx, conf, pool)
	if err != nil {
		stop()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewBucketStore")
	}

	brokers, err := internal.NewMessageBrokers(conf)
	if err != nil {
		stop()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewMessageBrokers")
	}

	res, err := internal.NewResolver(conf)
	if err != nil {
		stop()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewResolver")
	}

	tp, err := internal.NewOTExporter(conf, serviceName)
	if err != nil {
		stop()
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewOTExporter")
	}

	clock := internaldomain.SystemClock(nil)
	svc := service.NewBucket(logger, buckets, postgresql.NewTask(pool), brokers.Assignment, res, clock)
	scheduler := service.NewRolloverScheduler(logger, svc, clock, res)

	errC := make(chan error, 1)

	go func() {
		defer func() {
			_ = logger.Sync()

			brokers.Close()
			closeBuckets()
			pool.Close()
			_ = tp.Shutdown(context.Background())
			stop()
			close(errC)
		}()

		logger.Info("Rollover worker started", zap.Bool("once", once))

		var err error

		if once {
			err = scheduler.RunOnce(ctx)
		} else {
			err = scheduler.Run(ctx)
		}

		if err != nil && !errors.Is(err, context.Canceled) {
			errC <- err
		}

		logger.Info("Rollover worker stopped")
	}()

	return errC, nil
}
