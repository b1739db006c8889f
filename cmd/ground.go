package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var groundCmd = &cobra.Command{
	Use:   "ground <topic>",
	Short: "Search the web for more context on a topic (Gemini or OpenRouter)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		gen, err := rt.generator(ctx)
		if err != nil {
			return err
		}
		text, err := gen.Ground(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
