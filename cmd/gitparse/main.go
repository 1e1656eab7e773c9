package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/gitparse-go/internal/cache"
	"github.com/quantmind-br/gitparse-go/internal/config"
	"github.com/quantmind-br/gitparse-go/internal/domain"
	"github.com/quantmind-br/gitparse-go/internal/fetcher"
	"github.com/quantmind-br/gitparse-go/internal/output"
	"github.com/quantmind-br/gitparse-go/internal/repo"
	"github.com/quantmind-br/gitparse-go/internal/utils"
	"github.com/quantmind-br/gitparse-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitparse",
	Short: "Extract structure, contents, and dependencies from Git repositories",
	Long: `gitparse analyzes a local directory or remote Git repository and extracts
its file tree, README, text contents, dependency manifests, language
statistics, and repository metadata as JSON or YAML.

Remote repositories are cloned into a temporary directory that is removed
when the command finishes.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gitparse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.PersistentFlags().String("max-file-size", "", "Skip files larger than this (e.g. 10MB)")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns to exclude (replaces the built-in set)")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Glob patterns to include (default: everything not excluded)")
	rootCmd.PersistentFlags().String("temp-dir", "", "Clone destination for remote sources")

	rootCmd.PersistentFlags().StringP("out", "o", "", "Write result to file instead of stdout (.gz compresses)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: json or yaml")

	rootCmd.PersistentFlags().Bool("cache", false, "Cache results for local repositories")
	rootCmd.PersistentFlags().IntP("workers", "j", 0, "Concurrent file readers")

	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output.file", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("extraction.temp_dir", rootCmd.PersistentFlags().Lookup("temp-dir"))

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(readmeCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statisticsCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(contentsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig builds the effective configuration from file, environment, and
// command flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("max-file-size") {
		raw, _ := cmd.Flags().GetString("max-file-size")
		size, err := config.ParseSize(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid max-file-size: %v", domain.ErrConfiguration, err)
		}
		cfg.Extraction.MaxFileSize = size
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Extraction.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}
	if cmd.Flags().Changed("include") {
		cfg.Extraction.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withAnalyzer performs shared command setup: logging, configuration, signal
// handling, source resolution, and teardown.
func withAnalyzer(cmd *cobra.Command, source string, fn func(ctx context.Context, cfg *config.Config, analyzer *repo.Analyzer) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	analyzer, err := repo.New(ctx, source, repo.Options{
		Config:  cfg.Extraction,
		Workers: cfg.Concurrency.Workers,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer analyzer.Close()

	return fn(ctx, cfg, analyzer)
}

// runOperation wraps withAnalyzer for commands whose result is a rendered
// document: it consults the result cache for local sources and emits the
// rendered bytes to stdout or the configured file.
func runOperation(cmd *cobra.Command, source, op string, fn func(ctx context.Context, analyzer *repo.Analyzer) (any, error)) error {
	return withAnalyzer(cmd, source, func(ctx context.Context, cfg *config.Config, analyzer *repo.Analyzer) error {
		writer, err := output.NewWriter(cfg.Output.Format)
		if err != nil {
			return err
		}

		var store *cache.BadgerCache
		var key string
		if cfg.Cache.Enabled && !fetcher.IsRemote(source) {
			store, err = cache.NewBadgerCache(cache.Options{Directory: cfg.Cache.Directory})
			if err != nil {
				log.Warn().Err(err).Msg("Result cache unavailable")
			} else {
				defer store.Close()
				key = cache.ResultKey(analyzer.Root(), op+":"+cfg.Output.Format, cfg.Extraction)
				if data, err := store.Get(ctx, key); err == nil {
					log.Debug().Str("operation", op).Msg("Serving cached result")
					return output.Emit(cmd.OutOrStdout(), cfg.Output.File, data)
				} else if !errors.Is(err, domain.ErrCacheMiss) {
					log.Warn().Err(err).Msg("Result cache read failed")
				}
			}
		}

		result, err := fn(ctx, analyzer)
		if err != nil {
			return err
		}

		data, err := writer.Render(result)
		if err != nil {
			return err
		}

		if store != nil {
			if err := store.Set(ctx, key, data, cfg.Cache.TTL); err != nil {
				log.Warn().Err(err).Msg("Result cache write failed")
			}
		}

		return output.Emit(cmd.OutOrStdout(), cfg.Output.File, data)
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
