package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/docloom/docloom"
)

// StructureFile is the document tree filename within the output
// directory.
const StructureFile = "structure.json"

// Ensure TreeStore implements docloom.TreeStore at compile time.
var _ docloom.TreeStore = (*TreeStore)(nil)

// TreeStore persists the document tree as indented JSON next to the
// page files.
type TreeStore struct {
	dir string
}

// NewTreeStore creates a TreeStore rooted at dir.
func NewTreeStore(dir string) *TreeStore {
	return &TreeStore{dir: dir}
}

func (s *TreeStore) path() string {
	return filepath.Join(s.dir, StructureFile)
}

func (s *TreeStore) SaveTree(ctx context.Context, root *docloom.DocumentNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return docloom.Errorf(docloom.EINTERNAL, "failed to encode document tree: %v", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return docloom.Errorf(docloom.EINTERNAL, "failed to create output directory: %v", err)
	}
	if err := os.WriteFile(s.path(), append(data, '\n'), 0644); err != nil {
		return docloom.Errorf(docloom.EINTERNAL, "failed to write %s: %v", StructureFile, err)
	}
	return nil
}

func (s *TreeStore) LoadTree(ctx context.Context) (*docloom.DocumentNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, docloom.Errorf(docloom.ENOTFOUND, "no document tree found in %s", s.dir)
	}
	if err != nil {
		return nil, docloom.Errorf(docloom.EINTERNAL, "failed to read %s: %v", StructureFile, err)
	}

	var root docloom.DocumentNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, docloom.Errorf(docloom.EINTERNAL, "failed to decode document tree: %v", err)
	}
	return &root, nil
}
