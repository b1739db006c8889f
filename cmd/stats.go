package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		tr := rt.tracker(cmd.Context())
		st := tr.CurrentStats()
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		policy := tr.Policy()
		fmt.Fprintf(out, "Level:      %d (%d points to level %d)\n", st.Level, policy.ToNextLevel(st.Points), st.Level+1)
		fmt.Fprintf(out, "Points:     %d\n", st.Points)
		fmt.Fprintf(out, "Streak:     %d days\n", st.Streak)
		fmt.Fprintf(out, "Sessions:   %d\n", st.CompletedSessions)
		if len(st.Badges) == 0 {
			fmt.Fprintln(out, "Badges:     none yet")
			return nil
		}
		fmt.Fprintln(out, "Badges:")
		for _, b := range st.Badges {
			fmt.Fprintf(out, "  %s %s  %s\n", b.Icon, b.Name, b.Description)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the stored record as JSON")
}
