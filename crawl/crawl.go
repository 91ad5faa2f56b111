// Package crawl orchestrates the fetch → extract → persist →
// discover-children cycle that turns a documentation site into a
// document tree of saved pages.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/docloom/docloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Crawl defaults, taken over from the original scraper behavior.
const (
	DefaultMaxDepth    = 3
	DefaultConcurrency = 5

	// BoundedModePages caps total claimed pages in bounded/test mode.
	BoundedModePages = 5
)

// Crawler drives a crawl run. Each call to Run starts from an empty
// visited set and builds a fresh tree; no state survives between runs.
type Crawler struct {
	Fetcher   docloom.Fetcher
	Extractor docloom.Extractor
	Links     docloom.LinkFinder
	Pages     docloom.PageStore
	Manifest  docloom.ManifestService // optional
	Scope     *docloom.Scope          // derived from the start URL when nil
	Limiter   *Limiter                // shared across all workers
	Logger    *slog.Logger

	// Concurrency bounds in-flight fetches across the whole run, not
	// per recursion level. Defaults to DefaultConcurrency.
	Concurrency int

	// MaxDepth bounds recursion depth from the root. Defaults to
	// DefaultMaxDepth.
	MaxDepth int

	// MaxPages, when positive, caps the total number of claimed URLs
	// for the run (bounded/test mode). Zero means unlimited.
	MaxPages int

	RetryDelays []time.Duration
}

// run carries the shared mutable state of one crawl invocation.
type run struct {
	c       *Crawler
	scope   *docloom.Scope
	visited *visitedSet
	sem     *semaphore.Weighted
	limiter *Limiter
	delays  []time.Duration
	logger  *slog.Logger
}

// Run crawls the site rooted at startURL and returns the document
// tree. Individual page failures terminate their own branch only; the
// returned root is never nil on a nil error. If the start page itself
// yields no content, the root is a synthetic node carrying only the
// start URL.
func (c *Crawler) Run(ctx context.Context, startURL string) (*docloom.DocumentNode, error) {
	scope := c.Scope
	if scope == nil {
		var err error
		scope, err = docloom.NewScope(startURL)
		if err != nil {
			return nil, err
		}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	limiter := c.Limiter
	if limiter == nil {
		limiter = NewLimiter(DefaultInterval)
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", uuid.New().String())

	r := &run{
		c:       c,
		scope:   scope,
		visited: newVisitedSet(c.MaxPages),
		sem:     semaphore.NewWeighted(int64(concurrency)),
		limiter: limiter,
		delays:  delays,
		logger:  logger,
	}

	logger.Info("crawl started", "url", startURL, "max_depth", r.maxDepth(), "max_pages", c.MaxPages)

	root := r.process(ctx, startURL, 0)
	if root == nil {
		root = &docloom.DocumentNode{SourceURL: startURL}
	}

	logger.Info("crawl finished", "pages", r.visited.Len())
	return root, nil
}

func (r *run) maxDepth() int {
	if r.c.MaxDepth > 0 {
		return r.c.MaxDepth
	}
	return DefaultMaxDepth
}

// process walks one URL through the per-URL state machine:
// Claimed → Fetched → Extracted → Saved → Expanded. Any failure is
// terminal for this URL and returns nil; the branch is dropped
// silently from the tree.
func (r *run) process(ctx context.Context, url string, depth int) *docloom.DocumentNode {
	if ctx.Err() != nil {
		return nil
	}
	if depth > r.maxDepth() {
		return nil
	}
	if !r.visited.TryClaim(url) {
		return nil
	}

	r.logger.Info("crawling", "url", url, "depth", depth)

	body, err := r.fetchPage(ctx, url)
	if err != nil {
		r.logger.Warn("fetch failed", "url", url, "err", err)
		return nil
	}

	content, err := r.c.Extractor.Extract(body, url)
	if err != nil {
		r.logger.Warn("extract failed", "url", url, "err", err)
		return nil
	}
	if content == nil {
		// Not an error: redirects and index shells have no main
		// content region. The URL stays claimed so it is never
		// retried.
		r.logger.Debug("no content region", "url", url)
		return nil
	}

	filename, err := r.c.Pages.SavePage(ctx, content)
	if err != nil {
		r.logger.Warn("save failed", "url", url, "err", err)
		return nil
	}

	if r.c.Manifest != nil {
		rec := &docloom.PageRecord{
			SourceURL:   url,
			Title:       content.Title,
			Filename:    filename,
			ContentHash: contentHash(content.Lines),
			Depth:       depth,
		}
		if err := r.c.Manifest.RecordPage(ctx, rec); err != nil {
			r.logger.Warn("manifest record failed", "url", url, "err", err)
		}
	}

	node := &docloom.DocumentNode{
		Title:     content.Title,
		SourceURL: url,
		Filename:  filename,
	}

	links, err := r.c.Links.Links(body, url)
	if err != nil {
		r.logger.Warn("link discovery failed", "url", url, "err", err)
		return node
	}

	var accepted []string
	for _, link := range links {
		if r.scope.ShouldFollow(link) {
			accepted = append(accepted, link)
		}
	}
	if len(accepted) == 0 {
		return node
	}

	// Children fan out as a task group; the parent blocks until every
	// direct child resolves, so the subtree is fully materialized
	// before this call returns. Completion order decides child order.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, link := range accepted {
		g.Go(func() error {
			if child := r.process(gctx, link, depth+1); child != nil {
				mu.Lock()
				node.Children = append(node.Children, child)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return node
}

// fetchPage performs the rate-limited, retried fetch for one URL. The
// semaphore bounds in-flight fetch work globally; parents waiting on
// children hold no permit, so depth cannot exhaust the pool.
func (r *run) fetchPage(ctx context.Context, url string) (string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)

	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	return fetchWithRetry(ctx, url, r.c.Fetcher.Fetch, r.delays)
}

// contentHash computes an xxhash digest of the rendered page lines.
func contentHash(lines []string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(lines, "\n")))
}
