// Package compile assembles the per-page markdown files of a crawl
// into a single navigable document.
//
// The compiled document opens with a table of contents mirroring the
// document tree, followed by each page's content wrapped in an
// anchor div so the extractor's rewritten internal links resolve
// within the one file.
package compile

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/docloom/docloom"
)

// DefaultOutputFile is the compiled document's filename when none is
// given.
const DefaultOutputFile = "compiled-documentation.md"

// Compiler builds the single-file document from a saved crawl.
type Compiler struct {
	Trees docloom.TreeStore
	Pages docloom.PageStore
}

// Compile loads the document tree, assembles the table of contents and
// every page body, and writes the result to w. A missing tree is
// fatal; a tree entry whose page file has since disappeared is skipped
// without error.
func (c *Compiler) Compile(ctx context.Context, w io.Writer) error {
	root, err := c.Trees.LoadTree(ctx)
	if err != nil {
		return err
	}

	parts := []string{tableOfContents(root)}

	var walkErr error
	root.Walk(func(node *docloom.DocumentNode, _ int) bool {
		if node.Filename == "" {
			return true
		}
		content, err := c.Pages.ReadPage(ctx, node.Filename)
		if docloom.ErrorCode(err) == docloom.ENOTFOUND {
			return true
		}
		if err != nil {
			walkErr = err
			return false
		}
		parts = append(parts, anchorSection(node.Filename, content))
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	if _, err := io.WriteString(w, strings.Join(parts, "\n---\n")+"\n"); err != nil {
		return docloom.Errorf(docloom.EINTERNAL, "failed to write compiled document: %v", err)
	}
	return nil
}

// tableOfContents renders the tree as a nested bullet list of links to
// page anchors. Nodes without a page file contribute no entry but
// still indent their subtree.
func tableOfContents(root *docloom.DocumentNode) string {
	var b strings.Builder
	b.WriteString("# Table of Contents\n")
	appendEntries(&b, root, 0)
	return b.String()
}

func appendEntries(b *strings.Builder, node *docloom.DocumentNode, level int) {
	if node.Filename != "" {
		fmt.Fprintf(b, "%s- [%s](#%s)\n", strings.Repeat("  ", level), node.Title, anchorID(node.Filename))
	}
	for _, child := range node.Children {
		appendEntries(b, child, level+1)
	}
}

// anchorSection wraps page content in a div whose id matches the
// anchors the extractor rewrote internal links to.
func anchorSection(filename, content string) string {
	return fmt.Sprintf("<div id=%q>\n\n%s\n\n</div>\n", anchorID(filename), strings.TrimSpace(content))
}

// anchorID is the page filename without its extension.
func anchorID(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}
