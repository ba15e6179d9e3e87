package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
)

func newRegisterCommand(a *app) *cobra.Command {
	var in ports.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				pw, err := promptPassword(a)
				if err != nil {
					return err
				}
				in.Password = pw
			}
			res, err := a.client.Auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printAuth(res, "Welcome")
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var in ports.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				pw, err := promptPassword(a)
				if err != nil {
					return err
				}
				in.Password = pw
			}
			res, err := a.client.Auth.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printAuth(res, "Signed in as")
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.out.message("Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				u   *domain.User
				err error
			)
			if cached {
				u, err = a.client.Auth.CachedProfile(cmd.Context())
			} else {
				u, err = a.client.Auth.Profile(cmd.Context())
			}
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("no cached profile, run `%s whoami` without --cached", programName)
			}
			return a.out.print(u, func(w io.Writer) { writeUser(w, u) })
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "print the locally cached profile without calling the backend")
	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Profile, posted tasks and assigned tasks at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.print(d, func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Profile.Name, coins(d.Profile.Coins), stars(d.Profile.Rating))
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Posted by you:")
				writeTaskTable(w, d.Posted)
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Assigned to you:")
				writeTaskTable(w, d.Assigned)
			})
		},
	}
}

func (a *app) printAuth(res *domain.AuthResult, greeting string) error {
	return a.out.print(res, func(w io.Writer) {
		if res.User != nil {
			fmt.Fprintf(w, "%s %s (%s)\n", greeting, res.User.Name, coins(res.User.Coins))
			return
		}
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
		}
	})
}

// promptPassword reads one line from stdin.
func promptPassword(a *app) (string, error) {
	fmt.Fprint(a.opts.Stderr, "Password: ")
	line, err := bufio.NewReader(a.opts.Stdin).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
