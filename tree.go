package docloom

import (
	"context"
	"time"
)

// DocumentNode is one page in the crawled document tree. The tree
// records parent/child relationships as discovered by link-following
// and is the sole durable handoff between the crawl and compile
// phases.
//
// Children are appended in completion order of the concurrent workers,
// not in link order. Every node except a synthetic root has a
// non-empty Filename once it exists; pages whose fetch or extraction
// failed produce no node at all.
type DocumentNode struct {
	Title     string          `json:"title"`
	SourceURL string          `json:"url"`
	Filename  string          `json:"filename,omitempty"`
	Children  []*DocumentNode `json:"children"`
}

// Walk visits the tree in pre-order, calling fn with each node and its
// depth from the receiver. Traversal stops when fn returns false.
func (n *DocumentNode) Walk(fn func(node *DocumentNode, depth int) bool) {
	n.walk(0, fn)
}

func (n *DocumentNode) walk(depth int, fn func(node *DocumentNode, depth int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// TreeStore persists the document tree between the crawl and compile
// phases.
type TreeStore interface {
	// SaveTree writes the tree, replacing any previous one.
	SaveTree(ctx context.Context, root *DocumentNode) error

	// LoadTree reads the previously saved tree.
	// Returns ENOTFOUND if no tree has been saved.
	LoadTree(ctx context.Context) (*DocumentNode, error)
}

// PageStore persists per-page content files.
type PageStore interface {
	// SavePage writes the page's lines to a file named from a slug of
	// its title and returns the filename. Slug collisions between
	// distinct pages are disambiguated with numeric suffixes.
	SavePage(ctx context.Context, page *PageContent) (filename string, err error)

	// ReadPage returns the contents of a previously saved page file.
	// Returns ENOTFOUND if the file does not exist.
	ReadPage(ctx context.Context, filename string) (string, error)
}

// PageRecord is one row of the optional crawl manifest.
type PageRecord struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"contentHash"`
	Depth       int       `json:"depth"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *PageRecord) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "page record source URL required")
	}
	if r.Filename == "" {
		return Errorf(EINVALID, "page record filename required")
	}
	return nil
}

// ManifestService records crawled pages for post-run inspection.
type ManifestService interface {
	// RecordPage stores a manifest row for a saved page.
	RecordPage(ctx context.Context, rec *PageRecord) error

	// FindPages retrieves all recorded pages in fetch order.
	FindPages(ctx context.Context) ([]*PageRecord, error)
}
