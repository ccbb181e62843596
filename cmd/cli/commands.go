package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/diskv"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

// app holds what every subcommand needs once the configuration is loaded.
type app struct {
	v       *viper.Viper
	verbose bool

	org      string
	loc      *time.Location
	clock    internal.Clock
	tasks    *service.Task
	buckets  *service.Bucket
	resolver *resolver.Resolver
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	var configPath string

	cmd := &cobra.Command{
		Use:          "easytasks",
		Short:        "Plan site tasks in Today, Tomorrow, This Week and custom buckets.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load(configPath)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "directory holding .easytasks.yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log what the services do")
	flags.String("path", "", "directory the tasks and buckets are stored in")
	flags.String("organization", "", "organization the commands act on")

	_ = a.v.BindPFlag("path", flags.Lookup("path"))
	_ = a.v.BindPFlag("organization", flags.Lookup("organization"))

	cmd.AddCommand(
		newTasksCommand(a),
		newBucketsCommand(a),
		newAssignCommand(a),
		newUnassignCommand(a),
		newBoardCommand(a),
		newRolloverCommand(a),
	)

	return cmd
}

// load reads .easytasks.yaml and EASYTASKS_* variables and wires the services on the local store.
func (a *app) load(configPath string) error {
	v := a.v

	v.SetDefault("path", "~/.easytasks")
	v.SetDefault("organization", "local")
	v.SetDefault("timezone", "")
	v.SetDefault("week_start", "monday")
	v.SetDefault("membership", "union")
	v.SetConfigName(".easytasks")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EASYTASKS")
	v.AutomaticEnv()

	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return fmt.Errorf("expanding path: %w", err)
	}

	a.loc = time.Local

	if tz := v.GetString("timezone"); tz != "" {
		if a.loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}

	weekStart, err := resolver.ParseWeekday(v.GetString("week_start"))
	if err != nil {
		return err
	}

	policy, err := resolver.ParsePolicy(v.GetString("membership"))
	if err != nil {
		return err
	}

	logger := zap.NewNop()

	if a.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("zap.NewDevelopment: %w", err)
		}
	}

	a.org = v.GetString("organization")
	a.clock = internal.SystemClock(a.loc)
	a.resolver = resolver.New(
		resolver.WithLocation(a.loc),
		resolver.WithWeekStart(weekStart),
		resolver.WithPolicy(policy),
	)

	db := diskv.Open(path)
	tasks := diskv.NewTask(db, a.clock)
	buckets := diskv.NewBucket(db)

	a.tasks = service.NewTask(logger, tasks, tasks, nil, buckets)
	a.buckets = service.NewBucket(logger, buckets, tasks, nil, a.resolver, a.clock)

	return nil
}

// parseDue accepts "today", "tomorrow", a YYYY-MM-DD date or an RFC 3339 instant. The empty string means no
// due date.
func (a *app) parseDue(s string) (time.Time, error) {
	now := a.clock.Now()

	switch strings.ToLower(s) {
	case "":
		return time.Time{}, nil
	case "today":
		return a.resolver.StartOfDay(now), nil
	case "tomorrow":
		return a.resolver.NextDay(now), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, a.loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q, use YYYY-MM-DD", s)
	}

	return t, nil
}
