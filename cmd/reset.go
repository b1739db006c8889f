package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress to level 1",
	Long:  "Reset points, level, streak, badges and completed sessions. History is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this erases all progress; re-run with --yes to confirm")
		}
		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		st := rt.tracker(cmd.Context()).Reset(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Progress reset. Level %d, %d points.\n", st.Level, st.Points)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
