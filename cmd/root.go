package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/config"
	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/llm"
	"github.com/abhisek/eduspark/internal/logging"
	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "eduspark",
	Short: "Turn study material into quizzes, flashcards and mind maps",
	Long: "EduSpark is a terminal study companion. Paste notes or point it at a PDF, DOCX or image\n" +
		"and an AI builds a study pack: summary, key concepts, quiz, flashcards and a mind map.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDUSPARK_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/eduspark/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(groundCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime is what every command works with: settings, a logger and the
// database.
type runtime struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	closeLog func() error
}

// setup loads config and opens the logger and store. Console receives a
// copy of the log when --debug is set; pass nil for the TUI.
func setup(cmd *cobra.Command, console io.Writer) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: cfgFile})
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Log.Level = "debug"
	} else {
		console = nil
	}

	if err := store.EnsureDir(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	log, closeLog, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	if err := store.EnsureDir(cfg.DB); err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.Debug("runtime ready",
		zap.String("db", cfg.DB),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("key_source", cfg.KeySource),
	)
	return &runtime{cfg: cfg, log: log, store: st, closeLog: closeLog}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", zap.Error(err))
	}
	_ = r.closeLog()
}

func (r *runtime) tracker(ctx context.Context) *progress.Tracker {
	return progress.NewTracker(ctx, progress.NewKVStore(r.store.KVRepo()), r.cfg.Progress, r.log)
}

// generator builds the study pack generator, or explains why it can't.
func (r *runtime) generator(ctx context.Context) (*generator.Generator, error) {
	if err := r.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("%w\n\n%s", err, setupHint)
	}
	events := r.store.EventRepo()
	provider, err := llm.NewProvider(ctx, r.cfg.LLM, events, r.log)
	if err != nil {
		return nil, err
	}
	return generator.New(provider, r.cfg.Generation,
		generator.WithRecorder(events),
		generator.WithLogger(r.log),
	), nil
}

const setupHint = "Set EDUSPARK_GEMINI_API_KEY (or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,\n" +
	"OPENROUTER_API_KEY) to generate study packs. See `eduspark --help` for config options."
