package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskexchange/taskx/internal/core/domain"
)

// Execute runs one invocation of the command tree with args.
func Execute(ctx context.Context, opts Options, args []string) error {
	a := newApp(opts)
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.opts.Stdin)
	root.SetOut(a.opts.Stdout)
	root.SetErr(a.opts.Stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	var (
		format string
		apiURL string
	)

	root := &cobra.Command{
		Use:           programName,
		Short:         "Client for the task-exchange marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(a.opts.Stdout, format)
			if err != nil {
				return err
			}
			a.out = p

			page := pageFor(cmd)
			if err := a.open(cmd.Context(), page, apiURL); err != nil {
				return err
			}
			return a.guard.Enforce(cmd.Context(), page, a.nav)
		},
	}
	root.PersistentFlags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides TASKX_API_URL)")

	root.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newDashboardCommand(a),
		newUsersCommand(a),
		newTasksCommand(a),
		newReviewsCommand(a),
		newVersionCommand(a),
	)
	return root
}

// pageFor maps "taskx tasks list" to "/tasks/list".
func pageFor(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	if len(parts) <= 1 {
		return "/"
	}
	return "/" + strings.Join(parts[1:], "/")
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrRedirected), errors.Is(err, domain.ErrUnauthorized):
		return 3
	case errors.As(err, &ve):
		return 2
	default:
		return 1
	}
}

// Describe renders err for stderr. A guard redirect has already printed
// its hint and yields "".
func Describe(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil, errors.Is(err, domain.ErrRedirected):
		return ""
	case errors.As(err, &ve):
		var b strings.Builder
		b.WriteString("Invalid input:")
		for _, field := range sortedKeys(ve.Fields) {
			fmt.Fprintf(&b, "\n  - %s", ve.Fields[field])
		}
		return b.String()
	default:
		return "Error: " + err.Error()
	}
}
