package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/material"
	"github.com/abhisek/eduspark/internal/study"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a study pack without opening the TUI",
	Long: "Generate a study pack from --file, --text or standard input and print it.\n" +
		"The pack is recorded in history but no points are awarded.",
	Example: "  eduspark generate -f lecture.pdf\n  cat notes.md | eduspark generate --json",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		asJSON, _ := cmd.Flags().GetBool("json")

		m, err := readMaterial(cmd)
		if err != nil {
			return err
		}

		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		gen, err := rt.generator(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating study pack from %s...\n", m.Describe())
		s, err := generator.NewController(gen).Generate(ctx, m)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		printSession(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "Text, PDF, DOCX or image file to study")
	generateCmd.Flags().StringP("text", "t", "", "Study material as text")
	generateCmd.Flags().Bool("json", false, "Print the study pack as JSON")
	generateCmd.MarkFlagsMutuallyExclusive("file", "text")
}

// readMaterial picks the input in order: --file, --text, stdin.
func readMaterial(cmd *cobra.Command) (generator.Material, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return material.Load(path)
	}
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		return material.FromText(text), nil
	}

	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), material.MaxFileSize+1))
	if err != nil {
		return generator.Material{}, fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return generator.Material{}, errors.New("no material: use --file, --text or pipe text on stdin")
	}
	if len(data) > material.MaxFileSize {
		return generator.Material{}, fmt.Errorf("stdin exceeds %d bytes", material.MaxFileSize)
	}
	m, err := material.FromBytes(data)
	if err != nil {
		return generator.Material{}, err
	}
	m.Source = "stdin"
	return m, nil
}

func printSession(w io.Writer, s *study.Session) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintln(w, s.Title)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, s.Summary)
	if len(s.Concepts) > 0 {
		fmt.Fprintf(w, "\nKey concepts: %s\n", strings.Join(s.Concepts, ", "))
	}

	fmt.Fprintf(w, "\nQuiz (%d)\n%s\n", len(s.Quizzes), sep)
	for i, q := range s.Quizzes {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, q.Type, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'A'+j, opt)
		}
		fmt.Fprintf(w, "   Answer: %s\n", q.Answer)
		if q.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", q.Explanation)
		}
	}

	fmt.Fprintf(w, "\nFlashcards (%d)\n%s\n", len(s.Flashcards), sep)
	for _, f := range s.Flashcards {
		fmt.Fprintf(w, "  %s: %s\n", f.Front, f.Back)
	}

	fmt.Fprintf(w, "\nMind map\n%s\n", sep)
	_ = study.Walk(&s.MindMap, func(n *study.MindMapNode, depth int) error {
		fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", depth), n.Label)
		return nil
	})
}
