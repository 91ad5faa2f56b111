package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/briandowns/spinner"
	charmlog "github.com/charmbracelet/log"
	"github.com/docloom/docloom"
	"github.com/docloom/docloom/compile"
	"github.com/docloom/docloom/crawl"
	"github.com/docloom/docloom/fs"
	"github.com/docloom/docloom/goquery"
	"github.com/docloom/docloom/htmltomarkdown"
	dochttp "github.com/docloom/docloom/http"
	docslog "github.com/docloom/docloom/slog"
	"github.com/docloom/docloom/sqlite"
	"github.com/docloom/docloom/trafilatura"
)

// Flag defaults, duplicated in the kong tags below. Config merging
// compares against these to decide whether a flag was left alone.
const (
	defaultDepth       = crawl.DefaultMaxDepth
	defaultConcurrency = crawl.DefaultConcurrency
	defaultInterval    = crawl.DefaultInterval
	defaultTimeout     = dochttp.DefaultFetchTimeout
	defaultOut         = "docs-output"
	defaultEngine      = "structural"
	defaultLocale      = docloom.DefaultLocaleMarker
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL         string        `arg:"" required:"" help:"Documentation start URL"`
	Out         string        `short:"o" default:"docs-output" help:"Output directory for page files and the compiled document"`
	Depth       int           `short:"d" default:"3" help:"Maximum link-following depth"`
	Concurrency int           `short:"c" default:"5" help:"Concurrent fetch limit"`
	Interval    time.Duration `default:"500ms" help:"Minimum delay between requests"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Locale      string        `default:"/en-US/" help:"Path segment a followed link must contain"`
	Test        bool          `help:"Bounded mode: stop after five pages"`
	Preview     bool          `short:"p" help:"List sitemap URLs without crawling"`
	Engine      string        `default:"structural" enum:"structural,readability" help:"Content extraction engine"`
	DB          string        `help:"Record a crawl manifest in this SQLite database"`
	Config      string        `help:"YAML config file with flag defaults"`
	Verbose     bool          `short:"v" help:"Verbose logging"`
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docloom"),
		kong.Description("Crawl a documentation site and compile it into one markdown document"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.Config != "" {
		cfg, err := LoadConfig(cli.Config)
		if err != nil {
			return err
		}
		cfg.apply(cli)
		if cli.Engine != "structural" && cli.Engine != "readability" {
			return fmt.Errorf("unknown extraction engine %q", cli.Engine)
		}
	}

	logger := newLogger(stderr, cli.Verbose)

	if cli.Preview {
		return runPreview(ctx, cli, logger, stdout)
	}
	return runCrawl(ctx, cli, logger, stdout, stderr)
}

// newLogger builds the application logger. Quiet runs keep the
// terminal free for the spinner by logging warnings only.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	}))
}

// runPreview lists the site's sitemap URLs without fetching any pages.
func runPreview(ctx context.Context, cli *CLI, logger *slog.Logger, stdout io.Writer) error {
	discoverer := docslog.NewLoggingDiscoverer(dochttp.NewSitemapDiscoverer(nil), logger)

	urls, err := discoverer.DiscoverURLs(ctx, cli.URL)
	if err != nil {
		return fmt.Errorf("sitemap discovery failed: %s", docloom.ErrorMessage(err))
	}
	if len(urls) == 0 {
		fmt.Fprintln(stdout, "No sitemap found")
		return nil
	}

	for _, u := range urls {
		fmt.Fprintln(stdout, u)
	}
	fmt.Fprintf(stdout, "%d URLs\n", len(urls))
	return nil
}

// runCrawl executes the two phases: crawl the site into per-page
// files plus a document tree, then compile them into one document.
func runCrawl(ctx context.Context, cli *CLI, logger *slog.Logger, stdout, stderr io.Writer) error {
	scope, err := docloom.NewScope(cli.URL)
	if err != nil {
		return err
	}
	scope.LocaleMarker = cli.Locale

	fetcher := docslog.NewLoggingFetcher(dochttp.NewFetcher(dochttp.WithTimeout(cli.Timeout)), logger)
	defer fetcher.Close()

	var extractor docloom.Extractor
	switch cli.Engine {
	case "readability":
		extractor = trafilatura.NewExtractor(htmltomarkdown.NewConverter())
	default:
		extractor = goquery.NewExtractor(scope)
	}

	pages := fs.NewPageStore(cli.Out)
	trees := fs.NewTreeStore(cli.Out)

	var manifest docloom.ManifestService
	if cli.DB != "" {
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()
		manifest = sqlite.NewManifestService(db)
	}

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   extractor,
		Links:       goquery.NewLinkFinder(),
		Pages:       pages,
		Manifest:    manifest,
		Scope:       scope,
		Limiter:     crawl.NewLimiter(cli.Interval),
		Logger:      logger,
		Concurrency: cli.Concurrency,
		MaxDepth:    cli.Depth,
	}
	if cli.Test {
		crawler.MaxPages = crawl.BoundedModePages
	}

	var spin *spinner.Spinner
	if !cli.Verbose {
		spin = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(stderr))
		spin.Suffix = " crawling " + cli.URL
		spin.Start()
	}

	root, err := crawler.Run(ctx, cli.URL)

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if err := trees.SaveTree(ctx, root); err != nil {
		return err
	}

	outPath := filepath.Join(cli.Out, compile.DefaultOutputFile)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	compiler := &compile.Compiler{Trees: trees, Pages: pages}
	if err := compiler.Compile(ctx, f); err != nil {
		return err
	}

	saved := 0
	root.Walk(func(node *docloom.DocumentNode, _ int) bool {
		if node.Filename != "" {
			saved++
		}
		return true
	})
	fmt.Fprintf(stdout, "Saved %d pages to %s\n", saved, cli.Out)
	fmt.Fprintf(stdout, "Compiled document: %s\n", outPath)
	return nil
}
