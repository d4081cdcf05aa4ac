// cmd/matchscore/root.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"assignment-workers/internal/common/config"
	"assignment-workers/internal/common/errors"
	"assignment-workers/internal/common/logger"
	"assignment-workers/internal/matching"
	"assignment-workers/internal/matching/solver"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matchscore <input-file> [lapjv|munkres]",
		Short: "Score customer/product assignment lines",
		Long: "matchscore reads an input file of \"customers;products\" lines and prints,\n" +
			"for each line, the maximum total suitability score with two decimals.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("strategy", "", "Solver strategy ("+strings.Join(solver.Strategies(), ", ")+"); overrides the positional argument")
	cmd.Flags().String("config", "", "Path to a YAML config file (defaults to configs/config.yaml)")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "", "Log format (json or console)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cmd, cfg)

	settings := matching.Settings{
		Strategy:    resolveStrategy(cmd, args, cfg),
		MaxVal:      cfg.Matching.MaxVal,
		ScaleFactor: cfg.Matching.ScaleFactor,
	}

	engine, err := matching.NewEngine(settings, log)
	if err != nil {
		return report(cmd, log, err)
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return report(cmd, log, errors.NewInputFileNotFoundError(path))
		}
		return report(cmd, log, fmt.Errorf("open input file: %w", err))
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	lines := 0
	err = engine.ScoreReader(cmd.Context(), f, func(_ int, res *matching.Result) error {
		lines++
		_, werr := fmt.Fprintln(out, res.Formatted())
		return werr
	})
	if err != nil {
		return report(cmd, log, err)
	}

	log.Debug("input scored", map[string]interface{}{
		"file":     path,
		"strategy": engine.Strategy(),
		"lines":    lines,
	})
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// resolveStrategy picks --strategy, then the positional argument, then the
// configured default.
func resolveStrategy(cmd *cobra.Command, args []string, cfg *config.Config) string {
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		return s
	}
	if len(args) > 1 {
		return args[1]
	}
	return cfg.Matching.Strategy
}

func newLogger(cmd *cobra.Command, cfg *config.Config) logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = cfg.Logging.Format
	}
	return logger.NewStructured(level, format)
}

func report(cmd *cobra.Command, log logger.Logger, err error) error {
	log.Error("scoring failed", map[string]interface{}{
		"code":  string(errors.CodeOf(err)),
		"error": err.Error(),
	})
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	return err
}
