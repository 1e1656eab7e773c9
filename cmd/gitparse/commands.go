package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantmind-br/gitparse-go/internal/config"
	"github.com/quantmind-br/gitparse-go/internal/repo"
	"github.com/quantmind-br/gitparse-go/internal/tree"
	"github.com/quantmind-br/gitparse-go/internal/utils"
)

var treeCmd = &cobra.Command{
	Use:   "tree <source>",
	Short: "Render the repository file tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		dir, _ := cmd.Flags().GetString("dir")

		return runOperation(cmd, args[0], "tree", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			if dir != "" {
				return analyzer.DirectoryTree(dir, tree.Style(style))
			}
			return analyzer.FileTree(tree.Style(style))
		})
	},
}

var readmeCmd = &cobra.Command{
	Use:   "readme <source>",
	Short: "Print the repository README",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAnalyzer(cmd, args[0], func(ctx context.Context, cfg *config.Config, analyzer *repo.Analyzer) error {
			content, ok := analyzer.Readme()
			if !ok {
				return fmt.Errorf("no readme found in %s", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		})
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <source>",
	Short: "Extract dependency manifests",
	Long: `Parses requirements.txt, pyproject.toml, and package.json manifests found
in the repository. Entries that cannot be parsed are reported with their raw
text instead of failing the extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], "deps", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			return analyzer.Dependencies()
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <source>",
	Short: "Aggregate language statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], "stats", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			return analyzer.LanguageStats()
		})
	},
}

var statisticsCmd = &cobra.Command{
	Use:   "statistics <source>",
	Short: "Compute repository totals and largest files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], "statistics", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			return analyzer.Statistics()
		})
	},
}

var contentCmd = &cobra.Command{
	Use:   "content <source> <path>",
	Short: "Print one file's content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAnalyzer(cmd, args[0], func(ctx context.Context, cfg *config.Config, analyzer *repo.Analyzer) error {
			content, ok := analyzer.FileContent(args[1])
			if !ok {
				return fmt.Errorf("no readable text file at %s", args[1])
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		})
	},
}

var contentsCmd = &cobra.Command{
	Use:   "contents <source>",
	Short: "Extract all text file contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		return runOperation(cmd, args[0], "contents", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			bar := utils.NewProgressBar(-1, utils.DescReading)
			quit := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-quit:
						return
					case <-ticker.C:
						_ = bar.Add(1)
					}
				}
			}()

			var result map[string]string
			var err error
			if dir != "" {
				result, err = analyzer.DirectoryContents(ctx, dir)
			} else {
				result, err = analyzer.AllContents(ctx, 0, nil)
			}
			close(quit)
			_ = bar.Finish()
			return result, err
		})
	},
}

var filesCmd = &cobra.Command{
	Use:   "files <source>",
	Short: "List files with size, MIME type, and language metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], "files", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			return analyzer.Files()
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <source>",
	Short: "Show repository metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args[0], "info", func(ctx context.Context, analyzer *repo.Analyzer) (any, error) {
			return analyzer.Info(), nil
		})
	},
}

func init() {
	treeCmd.Flags().String("style", string(tree.StyleFlattened), "Tree style: flattened, markdown, structured, or dict")
	treeCmd.Flags().String("dir", "", "Restrict to a subdirectory")
	contentsCmd.Flags().String("dir", "", "Restrict to a subdirectory (keys become relative to it)")
}
