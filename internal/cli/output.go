package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/taskexchange/taskx/internal/core/domain"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatText, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// print writes v as JSON or YAML, or calls text with a tab-aligned writer.
// YAML goes through JSON so both formats share field names.
func (p *printer) print(v any, text func(w io.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out, err := yaml.JSONToYAML(raw)
		if err != nil {
			return err
		}
		_, err = p.w.Write(out)
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	text(tw)
	return tw.Flush()
}

// message prints a confirmation line in text mode only.
func (p *printer) message(format string, args ...any) {
	if p.format == formatText {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

func coins(n int) string {
	if n == 1 {
		return "1 coin"
	}
	return fmt.Sprintf("%d coins", n)
}

func stars(rating float64) string {
	full := int(math.Round(rating))
	full = max(domain.MinRating, min(domain.MaxRating, full))
	return strings.Repeat("★", full) + strings.Repeat("☆", domain.MaxRating-full) + fmt.Sprintf(" %.1f", rating)
}

func statusLabel(s domain.TaskStatus) string {
	switch s {
	case domain.StatusOpen:
		return "Open"
	case domain.StatusAssigned:
		return "In progress"
	case domain.StatusSubmitted:
		return "Awaiting approval"
	case domain.StatusCompleted:
		return "Completed"
	case domain.StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("Jan 2, 2006")
}

func who(ref *domain.UserRef) string {
	switch {
	case ref == nil || ref.IsZero():
		return "-"
	case ref.Name != "":
		return ref.Name
	}
	return ref.ID
}

// nextAction names the command that moves t forward, or "".
func nextAction(t domain.Task) string {
	switch {
	case t.Status.Terminal():
		return ""
	case t.Status == domain.StatusOpen:
		return "assign"
	case t.Status.CanTransitionTo(domain.StatusSubmitted):
		return "submit"
	case t.Status.CanTransitionTo(domain.StatusCompleted):
		return "approve"
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeTaskTable(w io.Writer, tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	fmt.Fprintln(w, "ID\tTITLE\tREWARD\tSTATUS\tPOSTED BY\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, coins(t.Coins), statusLabel(t.Status), who(&t.PostedBy), date(t.CreatedAt))
	}
}

func writeTask(w io.Writer, t *domain.Task) {
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	fmt.Fprintf(w, "Reward:\t%s\n", coins(t.Coins))
	fmt.Fprintf(w, "Status:\t%s\n", statusLabel(t.Status))
	fmt.Fprintf(w, "Posted by:\t%s\n", who(&t.PostedBy))
	fmt.Fprintf(w, "Assigned to:\t%s\n", who(t.AssignedTo))
	if t.Submission != "" {
		fmt.Fprintf(w, "Submission:\t%s\n", t.Submission)
	}
	fmt.Fprintf(w, "Created:\t%s\n", date(t.CreatedAt))
	if action := nextAction(*t); action != "" {
		fmt.Fprintf(w, "Next:\t%s tasks %s %s\n", programName, action, t.ID)
	}
}

func writeUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	if u.Email != "" {
		fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	}
	fmt.Fprintf(w, "Balance:\t%s\n", coins(u.Coins))
	fmt.Fprintf(w, "Rating:\t%s\n", stars(u.Rating))
	if u.Bio != "" {
		fmt.Fprintf(w, "Bio:\t%s\n", u.Bio)
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(w, "Skills:\t%s\n", strings.Join(u.Skills, ", "))
	}
	fmt.Fprintf(w, "Member since:\t%s\n", date(u.CreatedAt))
}

func writeReviews(w io.Writer, reviews []domain.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return
	}
	fmt.Fprintln(w, "FROM\tRATING\tCOMMENT\tDATE")
	for _, r := range reviews {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", who(&r.Reviewer), stars(float64(r.Rating)), r.Comment, date(r.CreatedAt))
	}
}
