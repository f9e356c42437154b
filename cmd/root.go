package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/source"
	"github.com/theirongolddev/budgetdash/internal/store"
)

var (
	flagConfig  string
	flagSheet   string
	flagPeriod  string
	flagQuiet   bool
	flagVerbose bool

	// appCfg is loaded once before any command runs.
	appCfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:               "budgetdash",
	Short:             "Personal monthly budget dashboard",
	Long:              "Enter a month's income, expenses and balances, and see what is left to budget.",
	PersistentPreRunE: prepare,
	RunE:              runTUI,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagSheet, "sheet", "s", "", "Budget sheet file or directory to import")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Month to show, e.g. 2025-March (default: configured or current month)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug detail to stderr")
}

// prepare loads .env, sets up logging and reads the config file.
func prepare(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.LoadFile(configPath())
	if err != nil {
		return err
	}
	appCfg = cfg
	cli.CurrencySymbol = cfg.Budget.Currency
	slog.Debug("config loaded", "path", configPath(), "exists", fileExists(configPath()))
	return nil
}

func configPath() string {
	if flagConfig != "" {
		return expandHome(flagConfig)
	}
	return config.ConfigPath()
}

func sheetPath() string {
	if flagSheet != "" {
		return expandHome(flagSheet)
	}
	return expandHome(config.GetSheet(appCfg))
}

// selectedPeriod returns --period, the configured default or the current
// month, in that order.
func selectedPeriod() (model.PeriodKey, error) {
	if flagPeriod == "" {
		return appCfg.StartPeriod(time.Now()), nil
	}
	if _, _, err := model.ParsePeriodKey(flagPeriod); err != nil {
		return "", err
	}
	return model.PeriodKey(flagPeriod).Canonical(), nil
}

// loadSession builds an empty store for the configured schema and imports
// the budget sheet into it, if one is configured.
func loadSession() (*budget.Builder, error) {
	if err := appCfg.Validate(); err != nil {
		return nil, err
	}
	b := budget.NewBuilder(store.New(), appCfg.Schema())

	path := sheetPath()
	if path == "" {
		return b, nil
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Importing %s...\n", path)
	}
	progressFn := func(current, total int) {
		if !flagQuiet && total > 1 {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	start := time.Now()
	result, err := source.Load(path, b, progressFn)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	slog.Debug("sheet import finished",
		"path", path,
		"files", result.TotalFiles,
		"periods", result.Periods,
		"fields", result.Fields,
		"rejected", len(result.Errors),
		"took", time.Since(start))
	for _, e := range result.Errors {
		slog.Debug("rejected value", "err", e)
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Imported %s periods from %d sheet(s)    \n",
			cli.FormatNumber(int64(result.Periods)), result.ParsedFiles)
	}
	if !flagQuiet && len(result.Errors) > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(fmt.Sprintf("%d values rejected (use --verbose for details)", len(result.Errors))))
	}
	return b, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
