// Package mock provides function-field mock implementations of the
// docloom interfaces for testing.
package mock

import (
	"context"

	"github.com/docloom/docloom"
)

var _ docloom.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docloom.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ docloom.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docloom.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*docloom.PageContent, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*docloom.PageContent, error) {
	return e.ExtractFn(html, pageURL)
}

var _ docloom.Converter = (*Converter)(nil)

// Converter is a mock implementation of docloom.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docloom.LinkFinder = (*LinkFinder)(nil)

// LinkFinder is a mock implementation of docloom.LinkFinder.
type LinkFinder struct {
	LinksFn func(html string, pageURL string) ([]string, error)
}

func (l *LinkFinder) Links(html string, pageURL string) ([]string, error) {
	return l.LinksFn(html, pageURL)
}

var _ docloom.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of docloom.PageStore.
type PageStore struct {
	SavePageFn func(ctx context.Context, page *docloom.PageContent) (string, error)
	ReadPageFn func(ctx context.Context, filename string) (string, error)
}

func (s *PageStore) SavePage(ctx context.Context, page *docloom.PageContent) (string, error) {
	return s.SavePageFn(ctx, page)
}

func (s *PageStore) ReadPage(ctx context.Context, filename string) (string, error) {
	return s.ReadPageFn(ctx, filename)
}

var _ docloom.TreeStore = (*TreeStore)(nil)

// TreeStore is a mock implementation of docloom.TreeStore.
type TreeStore struct {
	SaveTreeFn func(ctx context.Context, root *docloom.DocumentNode) error
	LoadTreeFn func(ctx context.Context) (*docloom.DocumentNode, error)
}

func (s *TreeStore) SaveTree(ctx context.Context, root *docloom.DocumentNode) error {
	return s.SaveTreeFn(ctx, root)
}

func (s *TreeStore) LoadTree(ctx context.Context) (*docloom.DocumentNode, error) {
	return s.LoadTreeFn(ctx)
}

var _ docloom.ManifestService = (*ManifestService)(nil)

// ManifestService is a mock implementation of docloom.ManifestService.
type ManifestService struct {
	RecordPageFn func(ctx context.Context, rec *docloom.PageRecord) error
	FindPagesFn  func(ctx context.Context) ([]*docloom.PageRecord, error)
}

func (m *ManifestService) RecordPage(ctx context.Context, rec *docloom.PageRecord) error {
	return m.RecordPageFn(ctx, rec)
}

func (m *ManifestService) FindPages(ctx context.Context) ([]*docloom.PageRecord, error) {
	return m.FindPagesFn(ctx)
}

var _ docloom.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of docloom.Discoverer.
type Discoverer struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (d *Discoverer) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return d.DiscoverURLsFn(ctx, baseURL)
}
