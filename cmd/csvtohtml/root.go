package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/booklist/internal/config"
	"github.com/JonMunkholm/booklist/internal/core"
	"github.com/JonMunkholm/booklist/internal/logging"
	"github.com/JonMunkholm/booklist/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/spf13/cobra"
)

type options struct {
	timeout  time.Duration
	maxBytes int64
	region   string
	title    string
	page     bool
	verbose  bool
}

// newRootCmd builds the command. Defaults come from cfg so the CLI reads the
// same environment as the server.
func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	opts := options{
		timeout:  cfg.Source.Timeout,
		maxBytes: cfg.Source.MaxBytes,
		region:   cfg.Source.S3Region,
		title:    cfg.Page.Title,
	}

	cmd := &cobra.Command{
		Use:   "csvtohtml [location]",
		Short: "Render a book list CSV as an HTML table.",
		Long: "Loads a book list from a path, file://, http(s):// or s3:// location and\n" +
			"writes the rendered table to stdout. Without an argument the configured\n" +
			"SOURCE_LOCATION is used.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			location := cfg.Source.Location
			if len(args) == 1 {
				location = args[0]
			}
			return run(cmd.Context(), location, opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.timeout, "timeout", opts.timeout, "timeout for a remote fetch")
	f.Int64Var(&opts.maxBytes, "max-bytes", opts.maxBytes, "largest document accepted (0 = unlimited)")
	f.StringVar(&opts.region, "s3-region", opts.region, "AWS region for s3:// locations")
	f.StringVar(&opts.title, "title", opts.title, "page title used with --page")
	f.BoolVarP(&opts.page, "page", "p", false, "wrap the table in a complete HTML page")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	return cmd
}

func run(ctx context.Context, location string, opts options, stdout, stderr io.Writer) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(stderr, level, "json"))

	loader := core.NewSourceLoader(core.LoaderOptions{
		Timeout:  opts.timeout,
		MaxBytes: opts.maxBytes,
		S3Region: opts.region,
	})
	cat, err := core.NewService(loader, location).Catalog(ctx)
	if err != nil {
		return err
	}

	var out templ.Component = templates.BookTable(cat.Books)
	if opts.page {
		out = templates.Page(opts.title, out)
	}
	if err := out.Render(ctx, stdout); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err = io.WriteString(stdout, "\n")
	return err
}
