// Package fs persists crawl output as plain files: one markdown file
// per page plus a structure.json document tree, all under a single
// output directory.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docloom/docloom"
)

// Ensure PageStore implements docloom.PageStore at compile time.
var _ docloom.PageStore = (*PageStore)(nil)

// PageStore writes each page's markdown lines to <slug>.md in the
// output directory. Distinct pages whose titles slugify identically
// get numeric suffixes, so concurrent saves never overwrite each
// other.
type PageStore struct {
	dir string

	mu    sync.Mutex
	taken map[string]int
}

// NewPageStore creates a PageStore rooted at dir. The directory is
// created on first save.
func NewPageStore(dir string) *PageStore {
	return &PageStore{
		dir:   dir,
		taken: make(map[string]int),
	}
}

func (s *PageStore) SavePage(ctx context.Context, page *docloom.PageContent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := s.claimFilename(page.Title)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", docloom.Errorf(docloom.EINTERNAL, "failed to create output directory: %v", err)
	}

	content := strings.Join(page.Lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(s.dir, filename), []byte(content), 0644); err != nil {
		return "", docloom.Errorf(docloom.EINTERNAL, "failed to write %s: %v", filename, err)
	}

	return filename, nil
}

// claimFilename reserves a unique filename for the title's slug.
func (s *PageStore) claimFilename(title string) string {
	slug := docloom.Slugify(title)
	if slug == "" {
		slug = "untitled"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.taken[slug]++
	if n := s.taken[slug]; n > 1 {
		slug = fmt.Sprintf("%s-%d", slug, n)
	}
	return slug + ".md"
}

func (s *PageStore) ReadPage(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if os.IsNotExist(err) {
		return "", docloom.Errorf(docloom.ENOTFOUND, "page file %q not found", filename)
	}
	if err != nil {
		return "", docloom.Errorf(docloom.EINTERNAL, "failed to read %s: %v", filename, err)
	}
	return string(data), nil
}
