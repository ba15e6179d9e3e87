package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taskexchange/taskx/internal/core/ports"
)

func newReviewsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Rate members and read their reviews",
	}
	cmd.AddCommand(
		newReviewsCreateCommand(a),
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "List reviews received by a member",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reviews, err := a.client.Reviews.ForUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.out.print(reviews, func(w io.Writer) { writeReviews(w, reviews) })
			},
		},
	)
	return cmd
}

func newReviewsCreateCommand(a *app) *cobra.Command {
	var in ports.CreateReviewInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Review a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.client.Reviews.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.out.print(r, func(w io.Writer) {
				fmt.Fprintf(w, "Review saved: %s for %s\n", stars(float64(r.Rating)), who(&r.Reviewee))
			})
		},
	}
	cmd.Flags().StringVar(&in.RevieweeID, "user", "", "id of the member being reviewed")
	cmd.Flags().StringVar(&in.TaskID, "task", "", "task the review is about")
	cmd.Flags().IntVar(&in.Rating, "rating", 0, "0 to 5")
	cmd.Flags().StringVar(&in.Comment, "comment", "", "free-text comment")
	return cmd
}
