package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/darklink/internal/config"
	"github.com/nao1215/darklink/internal/database"
	"github.com/nao1215/darklink/internal/fetch"
	dlog "github.com/nao1215/darklink/internal/log"
	"github.com/nao1215/darklink/internal/model"
	"github.com/nao1215/darklink/internal/pipeline"
	"github.com/nao1215/darklink/internal/report"
	"github.com/nao1215/darklink/internal/rule"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Check web pages for dark links",
		Long: `Scan fetches every URL as a desktop and as a mobile browser, decodes the
page text and reports the rules (keywords) found in it.

URLs come from the URL list (--urls) and from the arguments. When URLs are
given as arguments, the default urls.txt is not read.

Examples:
  # Check the URLs in urls.txt against rules.txt, write result.xlsx
  darklink scan

  # Check two pages and print a text report
  darklink scan -r rules.txt -o - https://example.com/ https://example.com/news

  # Write Markdown, check 20 pages at a time through Tor
  darklink scan -u urls.csv -o report.md -b 20 --proxy socks5h://127.0.0.1:9050

Configuration file (.darklink.yaml) example:
  rules: rules.txt
  urls: urls.txt
  sites:
    www.example.com:
      cookie: "session_id=abc123"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("rules", "r", config.DefaultRulesFile, "Keyword rule list, one rule per line")
	cmd.Flags().StringP("urls", "u", config.DefaultURLsFile, "URL list (.txt, .csv or .ndjson)")
	cmd.Flags().StringP("output", "o", config.DefaultReportFile, `Report file ("-" for stdout)`)
	cmd.Flags().StringP("format", "f", "", "Report format: xlsx, text, json or markdown (default: from --output)")

	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency, "Number of URLs checked at the same time")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth, "Maximum decode rounds per page")

	cmd.Flags().Duration("connect-timeout", config.DefaultConnectTimeout, "Connect and TLS handshake timeout")
	cmd.Flags().Duration("read-timeout", config.DefaultReadTimeout, "Timeout waiting for response headers")
	cmd.Flags().Int("retries", config.DefaultRetries, "Retries on 500/502/503/504 and network errors")
	cmd.Flags().Duration("backoff", config.DefaultBackoff, "Base delay between retries, doubled per retry")
	cmd.Flags().String("proxy", "", "Proxy URL (socks5://, socks5h://, http://, https://)")
	cmd.Flags().Float64("rate", 0, "Maximum requests per second per host (0 = unlimited)")
	cmd.Flags().Bool("verify-tls", false, "Verify TLS certificates")
	cmd.Flags().String("charset", "", "Force the page charset instead of detecting it")
	cmd.Flags().StringSlice("profiles", nil, "Device profiles to attempt: desktop, mobile (default: both)")
	cmd.Flags().String("log-format", "", "Log format on stderr: text or json (default: text)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darklink.yaml in current or home directory)")
	cmd.Flags().Bool("no-db", false, "Do not store the run in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig layers defaults, the configuration file, the environment and
// the flags the user set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.ApplyFile(cf)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.URLs = args
	if len(args) > 0 && !cmd.Flags().Changed("urls") && cfg.URLsFile == config.DefaultURLsFile {
		cfg.URLsFile = ""
	}

	return cfg, nil
}

// applyFlags copies the flags the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var errs []error

	str := func(name string, dst *string) {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if flags.Changed(name) {
			v, err := flags.GetDuration(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	str("rules", &cfg.RulesFile)
	str("urls", &cfg.URLsFile)
	str("output", &cfg.ReportFile)
	str("format", &cfg.Format)
	str("proxy", &cfg.Proxy)
	str("charset", &cfg.Charset)
	str("db-dir", &cfg.DBDir)
	str("log-format", &cfg.LogFormat)
	num("concurrency", &cfg.Concurrency)
	num("depth", &cfg.MaxDepth)
	num("retries", &cfg.Retries)
	dur("connect-timeout", &cfg.ConnectTimeout)
	dur("read-timeout", &cfg.ReadTimeout)
	dur("backoff", &cfg.Backoff)

	if flags.Changed("rate") {
		v, err := flags.GetFloat64("rate")
		errs = append(errs, err)
		cfg.RateLimit = v
	}
	if flags.Changed("profiles") {
		v, err := flags.GetStringSlice("profiles")
		errs = append(errs, err)
		cfg.Profiles = v
	}
	if flags.Changed("verify-tls") {
		v, err := flags.GetBool("verify-tls")
		errs = append(errs, err)
		cfg.VerifyTLS = v
	}
	if noDB, err := flags.GetBool("no-db"); err != nil {
		errs = append(errs, err)
	} else if noDB {
		cfg.SaveToDB = false
	}

	return errors.Join(errs...)
}

// newLogger returns the redacting logger in the configured format.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if strings.EqualFold(cfg.LogFormat, config.LogFormatJSON) {
		return dlog.NewRedactingJSONLogger(w, cfg.Verbose)
	}
	return dlog.NewRedactingLogger(w, cfg.Verbose)
}

// runScan loads the inputs, checks every URL, and writes the report.
func runScan(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return err
	}
	ruleSet, err := rule.NewSet(rules)
	if err != nil {
		return err
	}

	urls, err := collectURLs(cfg)
	if err != nil {
		return err
	}

	if cfg.Proxy != "" {
		if err := fetch.CheckProxy(ctx, cfg.Proxy); err != nil {
			return fmt.Errorf("proxy check failed: %w", err)
		}
		logger.Info("proxy verified", "proxy", cfg.Proxy)
	}

	profiles, err := cfg.DeviceProfiles()
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	checker := pipeline.NewChecker(fetcher, ruleSet,
		pipeline.WithProfiles(profiles...),
		pipeline.WithMaxDepth(cfg.MaxDepth),
		pipeline.WithSiteHeaders(cfg.Sites.HeadersFor),
		pipeline.WithReachable(func(rawURL string, profile model.DeviceProfile) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "[✓] reachable (%s): %s\n", profile.Label(), rawURL)
		}),
		pipeline.WithCheckerLogger(logger),
	)

	bp := pipeline.NewBatchProcessor(checker,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	fmt.Fprintf(out, "Checking %d URL(s) against %d rule(s) (concurrency: %d)...\n\n",
		len(urls), ruleSet.Len(), cfg.Concurrency)

	summary, runErr := bp.Run(ctx, urls)
	if runErr != nil {
		fmt.Fprintf(out, "\nScan interrupted (%v), writing partial results.\n", runErr)
	}

	// Write the report and history even when interrupted.
	if err := writeReport(cfg, summary, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if cfg.SaveToDB {
		if err := saveRun(context.WithoutCancel(ctx), cfg.DBDir, summary, logger); err != nil {
			logger.Error("failed to save run", "error", err)
		}
	}

	printSummary(out, cfg, summary)
	return runErr
}

// collectURLs returns the URLs from the URL list followed by the argument
// URLs.
func collectURLs(cfg *config.Config) ([]string, error) {
	var urls []string
	if cfg.URLsFile != "" {
		fromFile, err := config.LoadURLs(cfg.URLsFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	urls = append(urls, cfg.URLs...)
	if len(urls) == 0 {
		return nil, config.ErrNoURLs
	}
	return urls, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) (*fetch.HTTPFetcher, error) {
	opts := []fetch.Option{
		fetch.WithConnectTimeout(cfg.ConnectTimeout),
		fetch.WithReadTimeout(cfg.ReadTimeout),
		fetch.WithRetries(cfg.Retries),
		fetch.WithBackoff(cfg.Backoff),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithVerifyTLS(cfg.VerifyTLS),
		fetch.WithLogger(logger),
	}
	if cfg.Proxy != "" {
		opts = append(opts, fetch.WithProxy(cfg.Proxy))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, fetch.WithRateLimit(cfg.RateLimit))
	}
	if cfg.Charset != "" {
		opts = append(opts, fetch.WithCharset(cfg.Charset))
	}

	f, err := fetch.NewHTTPFetcher(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	return f, nil
}

// writeReport writes the report to cfg.ReportFile, or to out for "-". A
// report written to a file is followed by the dark links on out.
func writeReport(cfg *config.Config, summary *model.RunSummary, out io.Writer) (err error) {
	dst := out
	if cfg.ReportFile != "-" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		dst = f
	}

	w, err := report.New(cfg.ReportFormat(), dst, report.WithVerbose(cfg.Verbose))
	if err != nil {
		return err
	}
	if cfg.ReportFile != "-" {
		fmt.Fprintln(out)
		w = report.NewMultiWriter(w, report.NewSimpleWriter(out, report.WithDarkLinksOnly(true)))
	}
	return w.Write(summary)
}

// saveRun stores the run in the history database.
func saveRun(ctx context.Context, dbDir string, summary *model.RunSummary, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, summary)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", id, "db", db.Path())
	return nil
}

func printSummary(out io.Writer, cfg *config.Config, s *model.RunSummary) {
	fmt.Fprintf(out, "\nChecked %d URL(s) in %s: %d reachable, %d failed, %d with dark links\n",
		s.Total, s.Elapsed().Round(time.Millisecond), s.Succeeded, s.Failed, s.DarkLinks)
	if cfg.ReportFile != "-" {
		fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFile)
	}
	if s.ID != 0 {
		fmt.Fprintf(out, "Saved as run #%d (see: darklink history)\n", s.ID)
	}
}
