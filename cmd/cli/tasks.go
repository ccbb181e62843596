package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanLimbu/easy-tasks/internal"
)

func newTasksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks.",
	}

	cmd.AddCommand(
		newTasksAddCommand(a),
		newTasksListCommand(a),
		newTasksSearchCommand(a),
		newTasksUpdateCommand(a),
		newTasksStatusCommand(a, "complete", internal.TaskStatusCompleted),
		newTasksStatusCommand(a, "cancel", internal.TaskStatusCancelled),
		newTasksStatusCommand(a, "start", internal.TaskStatusInProgress),
		newTasksDeleteCommand(a),
	)

	return cmd
}

func newTasksAddCommand(a *app) *cobra.Command {
	var description, priority, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task.",
		Example: `
easytasks tasks add "Pour slab B" --due tomorrow --priority high
easytasks tasks add "Order rebar" --due 2024-03-18
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := internal.ParsePriority(priority)
			if err != nil {
				return err
			}

			dueDate, err := a.parseDue(due)
			if err != nil {
				return err
			}

			task, err := a.tasks.Create(cmd.Context(), internal.CreateTaskParams{
				OrganizationID: a.org,
				Title:          strings.Join(args, " "),
				Description:    description,
				Priority:       p,
				DueDate:        dueDate,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), task.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "none, low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "due date: today, tomorrow or YYYY-MM-DD")

	return cmd
}

func newTasksListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every task, closed ones included.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.tasks.List(cmd.Context(), a.org)
			if err != nil {
				return err
			}

			printTasks(cmd.OutOrStdout(), tasks)

			return nil
		},
	}
}

func newTasksSearchCommand(a *app) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search tasks by title, status or priority.",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := internal.SearchParams{OrganizationID: a.org, Size: 100}

			if len(args) > 0 {
				text := strings.Join(args, " ")
				params.Title = &text
			}

			if status != "" {
				s := internal.TaskStatus(status)
				params.Status = &s
			}

			if priority != "" {
				p, err := internal.ParsePriority(priority)
				if err != nil {
					return err
				}

				params.Priority = &p
			}

			res, err := a.tasks.By(cmd.Context(), params)
			if err != nil {
				return err
			}

			printTasks(cmd.OutOrStdout(), res.Tasks)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, in-progress, completed or cancelled")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "none, low, medium or high")

	return cmd
}

func newTasksUpdateCommand(a *app) *cobra.Command {
	var title, description, priority, due string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title, description, priority or due date of a task.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.tasks.Task(cmd.Context(), a.org, args[0])
			if err != nil {
				return err
			}

			params := internal.UpdateTaskParams{
				Title:       task.Title,
				Description: task.Description,
				Status:      task.Status,
				Priority:    task.Priority,
				DueDate:     task.DueDate,
			}

			flags := cmd.Flags()

			if flags.Changed("title") {
				params.Title = title
			}

			if flags.Changed("description") {
				params.Description = description
			}

			if flags.Changed("priority") {
				if params.Priority, err = internal.ParsePriority(priority); err != nil {
					return err
				}
			}

			if flags.Changed("due") {
				if params.DueDate, err = a.parseDue(due); err != nil {
					return err
				}
			}

			_, err = a.tasks.Update(cmd.Context(), a.org, args[0], params)

			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "none, low, medium or high")
	cmd.Flags().StringVar(&due, "due", "", "due date: today, tomorrow, YYYY-MM-DD, or empty to clear it")

	return cmd
}

func newTasksStatusCommand(a *app, use string, status internal.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a task as %s.", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.tasks.Task(cmd.Context(), a.org, args[0])
			if err != nil {
				return err
			}

			_, err = a.tasks.Update(cmd.Context(), a.org, args[0], internal.UpdateTaskParams{
				Title:       task.Title,
				Description: task.Description,
				Status:      status,
				Priority:    task.Priority,
				DueDate:     task.DueDate,
			})

			return err
		},
	}
}

func newTasksDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its bucket assignment.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tasks.Delete(cmd.Context(), a.org, args[0])
		},
	}
}
