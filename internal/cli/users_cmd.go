package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taskexchange/taskx/internal/core/ports"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up and edit member profiles",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a member profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.client.Users.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.out.print(u, func(w io.Writer) { writeUser(w, u) })
			},
		},
		newUsersUpdateCommand(a),
		&cobra.Command{
			Use:   "reviews <id>",
			Short: "List reviews received by a member",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reviews, err := a.client.Users.Reviews(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.out.print(reviews, func(w io.Writer) { writeReviews(w, reviews) })
			},
		},
	)
	return cmd
}

// newUsersUpdateCommand edits a profile; without an id it edits the
// signed-in user as cached at login.
func newUsersUpdateCommand(a *app) *cobra.Command {
	var in ports.UpdateUserInput
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Edit a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			} else {
				me, err := a.client.Auth.CachedProfile(cmd.Context())
				if err != nil {
					return err
				}
				if me == nil {
					return errors.New("no cached profile, pass the user id")
				}
				id = me.ID
			}

			u, err := a.client.Users.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return a.out.print(u, func(w io.Writer) {
				fmt.Fprintln(w, "Profile updated.")
				writeUser(w, u)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Bio, "bio", "", "short bio")
	cmd.Flags().StringSliceVar(&in.Skills, "skills", nil, "comma-separated skills")
	return cmd
}
