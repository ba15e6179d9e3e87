package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
	"github.com/taskexchange/taskx/internal/core/service"
)

func newTasksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Browse, post and work on tasks",
	}
	cmd.AddCommand(
		newTasksListCommand(a),
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.client.Tasks.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printTask(t, "")
			},
		},
		newTasksCreateCommand(a),
		newTasksUpdateCommand(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an open task you posted",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.client.Tasks.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.out.message("Task %s deleted.", args[0])
				return nil
			},
		},
		transitionCommand(a, "assign", "Take an open task", "Task assigned to you.", (*service.TaskService).Assign),
		newTasksSubmitCommand(a),
		transitionCommand(a, "approve", "Approve submitted work and release the reward", "Task approved.", (*service.TaskService).Approve),
		listCommand(a, "posted", "Tasks you posted", (*service.TaskService).Posted),
		listCommand(a, "assigned", "Tasks assigned to you", (*service.TaskService).Assigned),
	)
	return cmd
}

func newTasksListCommand(a *app) *cobra.Command {
	var filter ports.ListTasksFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.client.Tasks.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.out.print(tasks, func(w io.Writer) { writeTaskTable(w, tasks) })
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", "", "open, assigned, submitted, completed or cancelled")
	cmd.Flags().StringVar(&filter.Search, "search", "", "text to look for in title and description")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size (max 100)")
	return cmd
}

func newTasksCreateCommand(a *app) *cobra.Command {
	var in ports.CreateTaskInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.client.Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printTask(t, "Task posted.")
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "what needs doing")
	cmd.Flags().IntVar(&in.Coins, "coins", 0, "reward in coins")
	return cmd
}

func newTasksUpdateCommand(a *app) *cobra.Command {
	var in ports.UpdateTaskInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an open task you posted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Tasks.Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.printTask(t, "Task updated.")
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "new title")
	cmd.Flags().StringVar(&in.Description, "description", "", "new description")
	cmd.Flags().IntVar(&in.Coins, "coins", 0, "new reward in coins")
	return cmd
}

func newTasksSubmitCommand(a *app) *cobra.Command {
	var in ports.SubmitTaskInput
	cmd := &cobra.Command{
		Use:   "submit <id>",
		Short: "Hand in work for a task assigned to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Tasks.Submit(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.printTask(t, "Work submitted.")
		},
	}
	cmd.Flags().StringVar(&in.Submission, "submission", "", "link or description of the delivered work")
	return cmd
}

// transitionCommand takes a method expression; the client only exists once
// the guard has run.
func transitionCommand(a *app, use, short, done string, call func(*service.TaskService, context.Context, string) (*domain.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := call(a.client.Tasks, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTask(t, done)
		},
	}
}

func listCommand(a *app, use, short string, call func(*service.TaskService, context.Context) ([]domain.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := call(a.client.Tasks, cmd.Context())
			if err != nil {
				return err
			}
			return a.out.print(tasks, func(w io.Writer) { writeTaskTable(w, tasks) })
		},
	}
}

func (a *app) printTask(t *domain.Task, headline string) error {
	return a.out.print(t, func(w io.Writer) {
		if headline != "" {
			fmt.Fprintln(w, headline)
		}
		writeTask(w, t)
	})
}
