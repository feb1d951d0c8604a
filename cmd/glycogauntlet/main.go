package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BojarLab/GlycoGauntlet/internal/config"
	"github.com/BojarLab/GlycoGauntlet/internal/evaluate"
	"github.com/BojarLab/GlycoGauntlet/internal/hash"
	"github.com/BojarLab/GlycoGauntlet/internal/leaderboard"
	"github.com/BojarLab/GlycoGauntlet/internal/report"
	"github.com/BojarLab/GlycoGauntlet/internal/submission"
)

const (
	exitMissingInput     = 10
	exitNondeterministic = 12
	exitValidationFail   = 14
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var evaluateRunFunc = evaluate.Run
var determinismCheckFunc = evaluate.CheckDeterminism
var newBoardFunc = leaderboard.New

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "glycogauntlet",
		Short:         "Score glycan peak annotations against ground truth",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInitCommand())
	root.AddCommand(newEvaluateCommand())
	root.AddCommand(newEvaluateLocalCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newLeaderboardCommand())
	root.AddCommand(newReportCommand())
	return root
}

// common holds the flags every command accepts.
type common struct {
	configPath string
	verbose    bool
}

func (c *common) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.configPath, "config", config.DefaultPath, "project config file")
	cmd.Flags().BoolVar(&c.verbose, "verbose", false, "enable debug logging")
}

func (c *common) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr(), c.verbose)
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newInitCommand() *cobra.Command {
	var c common
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default project config and create the leaderboard directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if !fileExists(c.configPath) {
				if err := config.Write(c.configPath, cfg); err != nil {
					return err
				}
			} else if err := config.LoadFile(c.configPath, &cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.LeaderboardDir, 0o755); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s and %s/\n", c.configPath, cfg.LeaderboardDir)
			return nil
		},
	}
	c.bind(cmd)
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// requireDir maps an absent input directory to exitMissingInput.
func requireDir(flag, path string) error {
	if path == "" {
		return cliError{code: exitMissingInput, err: fmt.Errorf("--%s is required", flag)}
	}
	info, err := os.Stat(path)
	if err != nil {
		return cliError{code: exitMissingInput, err: fmt.Errorf("--%s: %w", flag, err)}
	}
	if !info.IsDir() {
		return cliError{code: exitMissingInput, err: fmt.Errorf("--%s: %s is not a directory", flag, path)}
	}
	return nil
}

func runError(err error) error {
	switch {
	case errors.Is(err, evaluate.ErrNoSolutions):
		return cliError{code: exitMissingInput, err: err}
	case errors.Is(err, evaluate.ErrNondeterministic):
		return cliError{code: exitNondeterministic, err: err}
	}
	return err
}

func newEvaluateCommand() *cobra.Command {
	var c common
	var submissionDir, testDir, format, outPath string
	var determinismCheck, workers int
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a submission directory against the public test set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.load(cmd)
			if err != nil {
				return err
			}
			if testDir == "" {
				testDir = cfg.TestDir
			}
			if workers == 0 {
				workers = cfg.Workers
			}
			if format != "json" && format != "md" {
				return fmt.Errorf("unsupported format %s", format)
			}
			if err := requireDir("submission", submissionDir); err != nil {
				return err
			}
			if err := requireDir("test-dir", testDir); err != nil {
				return err
			}

			opts := []evaluate.Option{evaluate.WithLogger(logger), evaluate.WithWorkers(workers)}
			ctx := cmd.Context()
			summary, err := evaluateRunFunc(ctx, submissionDir, testDir, opts...)
			if err != nil {
				return runError(err)
			}
			if err := report.PrintConsole(cmd.OutOrStdout(), summary); err != nil {
				return err
			}

			if outPath != "" {
				if format == "md" {
					err = report.WriteMarkdown(outPath, summary)
				} else {
					err = report.WriteJSON(outPath, summary)
				}
				if err != nil {
					return err
				}
			}

			if determinismCheck > 1 {
				digest, err := determinismCheckFunc(ctx, determinismCheck, submissionDir, testDir, opts...)
				if err != nil {
					return runError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deterministic over %d runs: %s\n", determinismCheck, digest)
			}
			return nil
		},
	}
	c.bind(cmd)
	cmd.Flags().StringVar(&submissionDir, "submission", "", "submission directory")
	cmd.Flags().StringVar(&testDir, "test-dir", "", "test set directory (default from config)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|md)")
	cmd.Flags().StringVar(&outPath, "out", "", "output report path")
	cmd.Flags().IntVar(&determinismCheck, "determinism-check", 1, "run evaluation multiple times and compare hashes")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent file evaluations (default from config, 0 = per CPU)")
	return cmd
}

func newEvaluateLocalCommand() *cobra.Command {
	var c common
	var submissionDir, testDir, outPath string
	cmd := &cobra.Command{
		Use:   "evaluate-local",
		Short: "Score a submission against a private test set using annotated peaks only",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.load(cmd)
			if err != nil {
				return err
			}
			if testDir == "" {
				testDir = cfg.PrivateTestDir
			}
			if err := requireDir("submission", submissionDir); err != nil {
				return err
			}
			if err := requireDir("test-dir", testDir); err != nil {
				return err
			}
			ctx := cmd.Context()
			summary, err := evaluateRunFunc(ctx, submissionDir, testDir,
				evaluate.WithLogger(logger),
				evaluate.WithWorkers(cfg.Workers),
				evaluate.WithTestSet("private"),
				evaluate.AnnotatedOnly(),
			)
			if err != nil {
				return runError(err)
			}
			if err := report.PrintConsole(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if outPath != "" {
				if err := report.WriteText(outPath, summary); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "results written to %s\n", outPath)
			}
			return nil
		},
	}
	c.bind(cmd)
	cmd.Flags().StringVar(&submissionDir, "submission", "", "submission directory")
	cmd.Flags().StringVar(&testDir, "test-dir", "", "private test set directory (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "text summary output path")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var c common
	var submissionDir, testDir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a submission directory's files and columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := c.load(cmd)
			if err != nil {
				return err
			}
			if testDir == "" {
				testDir = cfg.TestDir
			}
			if err := requireDir("submission", submissionDir); err != nil {
				return err
			}
			if err := requireDir("test-dir", testDir); err != nil {
				return err
			}
			rep, err := submission.Validate(submissionDir, testDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !rep.Valid() {
				fmt.Fprintln(out, "VALIDATION FAILED:")
				fmt.Fprintln(out)
				for _, p := range rep.Problems {
					fmt.Fprintf(out, "  - %s\n", p)
				}
				return cliError{code: exitValidationFail, err: fmt.Errorf("submission has %d problem(s)", len(rep.Problems))}
			}
			fmt.Fprintf(out, "all %d files validated successfully\n", rep.Files)
			return nil
		},
	}
	c.bind(cmd)
	cmd.Flags().StringVar(&submissionDir, "submission", "", "submission directory")
	cmd.Flags().StringVar(&testDir, "test-dir", "", "test set directory (default from config)")
	return cmd
}

func newLeaderboardCommand() *cobra.Command {
	lbCmd := &cobra.Command{Use: "leaderboard", Short: "Maintain the score leaderboards"}

	var uc common
	var user, testSet, submissionDir, dir string
	var score float64
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Record a score and regenerate the leaderboard table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := uc.load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("score") {
				return cliError{code: exitMissingInput, err: fmt.Errorf("--score is required")}
			}
			if dir == "" {
				dir = cfg.LeaderboardDir
			}
			digest := ""
			if submissionDir != "" {
				if digest, _, err = hash.DigestSubmission(submissionDir); err != nil {
					return cliError{code: exitMissingInput, err: err}
				}
			}
			board := newBoardFunc(dir)
			sub, err := board.Update(user, score, testSet, digest)
			if err != nil {
				return err
			}
			logger.Info("leaderboard updated", "user", strings.TrimSpace(user), "test_set", testSet, "submission_id", sub.SubmissionID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", board.MarkdownPath(testSet))
			return nil
		},
	}
	uc.bind(updateCmd)
	updateCmd.Flags().StringVar(&user, "user", "", "submitting user")
	updateCmd.Flags().Float64Var(&score, "score", 0, "average F1 score")
	updateCmd.Flags().StringVar(&testSet, "test-set", "public", "test set name (public|private)")
	updateCmd.Flags().StringVar(&submissionDir, "submission", "", "submission directory to fingerprint")
	updateCmd.Flags().StringVar(&dir, "dir", "", "leaderboard directory (default from config)")

	var sc common
	var showSet, showDir string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ranked leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := sc.load(cmd)
			if err != nil {
				return err
			}
			if showDir == "" {
				showDir = cfg.LeaderboardDir
			}
			board := newBoardFunc(showDir)
			scores, err := board.Load(showSet)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), leaderboard.BuildMarkdown(showSet, leaderboard.Rank(scores), board.Now()))
			return nil
		},
	}
	sc.bind(showCmd)
	showCmd.Flags().StringVar(&showSet, "test-set", "public", "test set name")
	showCmd.Flags().StringVar(&showDir, "dir", "", "leaderboard directory (default from config)")

	lbCmd.AddCommand(updateCmd)
	lbCmd.AddCommand(showCmd)
	return lbCmd
}

func newReportCommand() *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render markdown report from evaluation JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inPath == "" {
				return cliError{code: exitMissingInput, err: fmt.Errorf("--in is required")}
			}
			summary, err := report.ReadJSON(inPath)
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), report.BuildMarkdown(summary))
				return nil
			}
			return report.WriteMarkdown(outPath, summary)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "evaluation report json input")
	cmd.Flags().StringVar(&outPath, "out", "", "markdown output (default stdout)")
	return cmd
}
