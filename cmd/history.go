package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduspark/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List generated and completed study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.store.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No study sessions yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-9s  %-36s  %-7s  %s\n", "Timestamp", "Action", "Title", "Score", "Points")
		fmt.Fprintln(out, strings.Repeat("─", 88))
		for _, e := range events {
			score, points := "", ""
			if e.Action == store.SessionCompleted {
				score = fmt.Sprintf("%d/%d", e.QuizCorrect, e.QuizTotal)
				points = fmt.Sprintf("+%d", e.PointsAwarded)
			}
			fmt.Fprintf(out, "%-19s  %-9s  %-36s  %-7s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Action,
				truncate(e.Title, 36),
				score,
				points,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}
