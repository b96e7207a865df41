// Package cmd contains the CLI command for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/naka-gawa/merged-pr-export/internal/config"
	"github.com/naka-gawa/merged-pr-export/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options holds the raw flag values before they are merged into a config.Config.
type options struct {
	configPath string
	owner      string
	repo       string
	token      string
	output     string
	pageSize   int
	maxPRs     int
	apiURL     string
	timeout    time.Duration
	verbose    bool
}

func newRootCommand(getenv func(string) string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "merged-pr-export",
		Short: "Export merged pull requests of a GitHub repository to CSV.",
		Long: `merged-pr-export pages through the closed pull requests of a GitHub repository,
keeps the merged ones, fetches their details (additions, deletions, merger)
and writes one CSV row per pull request including the time to merge in hours.

The token may also be provided through the GITHUB_TOKEN environment variable.`,
		Example:       "  merged-pr-export -o golang -r go -m 200 -f go_prs.csv",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts, getenv)
			if err != nil {
				return err
			}

			logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
			if opts.verbose {
				logger.SetOutput(cmd.ErrOrStderr())
			}
			return runExport(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.owner, "owner", "o", "", "Repository owner (required)")
	flags.StringVarP(&opts.repo, "repo", "r", "", "Repository name (required)")
	flags.StringVarP(&opts.token, "token", "t", "", "GitHub API token (default $GITHUB_TOKEN)")
	flags.StringVarP(&opts.output, "output", "f", config.DefaultOutput, "Output CSV file")
	flags.IntVarP(&opts.pageSize, "page-size", "p", config.DefaultPageSize, "Pull requests per list page")
	flags.IntVarP(&opts.maxPRs, "max-prs", "m", config.DefaultMaxPRs, "Stop after collecting at least this many merged pull requests")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&opts.apiURL, "api-url", "", "GitHub API base URL (default https://api.github.com/, or $GITHUB_API_URL)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout per request, e.g. 30s (0 keeps the transport default)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose/debug logging")

	return cmd
}

// resolveConfig layers defaults, config file, environment and explicitly set flags.
func resolveConfig(flags *pflag.FlagSet, opts *options, getenv func(string) string) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(cfg, opts.configPath); err != nil {
			return cfg, err
		}
	}
	cfg = config.FromEnv(cfg, getenv)

	if flags.Changed("owner") {
		cfg.Owner = opts.owner
	}
	if flags.Changed("repo") {
		cfg.Repo = opts.repo
	}
	if flags.Changed("token") {
		cfg.Token = opts.token
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if flags.Changed("max-prs") {
		cfg.MaxPRs = opts.maxPRs
	}
	if flags.Changed("api-url") {
		cfg.APIURL = opts.apiURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}

	return cfg, cfg.Validate()
}

// ExitCode maps an error returned by the command to a process exit status.
// Every failure is fatal to the run and reported as 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Execute runs the root command and terminates the process on failure.
// This is called by main.main().
func Execute() {
	cmd := newRootCommand(os.Getenv)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		os.Exit(ExitCode(err))
	}
}
