package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBucketsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "buckets",
		Aliases: []string{"bucket", "b"},
		Short:   "Manage buckets.",
	}

	cmd.AddCommand(
		newBucketsListCommand(a),
		newBucketsAddCommand(a),
		newBucketsShowCommand(a),
		newBucketsArchiveCommand(a),
		newBucketsRestoreCommand(a),
		newBucketsDeleteCommand(a),
	)

	return cmd
}

func newBucketsListCommand(a *app) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List buckets in display order, seeding the defaults first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.buckets.SeedDefaults(cmd.Context(), a.org); err != nil {
				return err
			}

			buckets, err := a.buckets.List(cmd.Context(), a.org, archived)
			if err != nil {
				return err
			}

			printBuckets(cmd.OutOrStdout(), buckets)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived buckets")

	return cmd
}

func newBucketsAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom bucket.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := a.buckets.Create(cmd.Context(), a.org, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), bucket.ID)

			return nil
		},
	}
}

func newBucketsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the tasks currently in a bucket.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := a.buckets.Bucket(cmd.Context(), a.org, args[0])
			if err != nil {
				return err
			}

			tasks, err := a.buckets.Tasks(cmd.Context(), a.org, bucket.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			printTitle(out, bucket.Name, len(tasks))
			printTasks(out, tasks)

			return nil
		},
	}
}

func newBucketsArchiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a custom bucket. Its assignments are kept but inert.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.buckets.Archive(cmd.Context(), a.org, args[0])
			return err
		},
	}
}

func newBucketsRestoreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an archived bucket.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.buckets.Restore(cmd.Context(), a.org, args[0])
			return err
		},
	}
}

func newBucketsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an archived bucket and its assignments.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.buckets.Delete(cmd.Context(), a.org, args[0])
		},
	}
}
