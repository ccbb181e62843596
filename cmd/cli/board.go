package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssignCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <bucket-id>",
		Short: "Pin a task into a bucket regardless of its due date.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := a.buckets.Assign(cmd.Context(), a.org, args[0], args[1])
			if err != nil {
				return err
			}

			if assignment.MovedFrom != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "moved from %s\n", assignment.MovedFrom)
			}

			return nil
		},
	}
}

func newUnassignCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task-id>",
		Short: "Remove the manual assignment of a task.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.buckets.Unassign(cmd.Context(), a.org, args[0])
		},
	}
}

func newBoardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show every active bucket with its tasks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.buckets.SeedDefaults(cmd.Context(), a.org); err != nil {
				return err
			}

			board, err := a.buckets.Board(cmd.Context(), a.org)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, col := range board.Columns {
				printTitle(out, col.Bucket.Name, len(col.Tasks))
				printTasks(out, col.Tasks)
				fmt.Fprintln(out)
			}

			s := board.Summary

			_, _ = faint.Fprintf(out, "%d tasks: %d pending, %d in progress, %d completed, %d cancelled, %d overdue\n",
				s.Total, s.Pending, s.InProgress, s.Completed, s.Cancelled, s.Overdue)

			return nil
		},
	}
}

func newRolloverCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Move overdue open tasks into Today.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.buckets.Rollover(cmd.Context(), a.org)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d tasks rolled over\n", len(res.Changed))

			return nil
		},
	}
}
