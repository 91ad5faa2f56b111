package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/docloom/docloom"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docloom.ManifestService = (*ManifestService)(nil)

// ManifestService implements docloom.ManifestService using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// RecordPage stores a manifest row for a saved page. The record's ID
// and FetchedAt are assigned here.
func (s *ManifestService) RecordPage(ctx context.Context, rec *docloom.PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.FetchedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, source_url, title, filename, content_hash, depth, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SourceURL, rec.Title, rec.Filename, rec.ContentHash,
		rec.Depth, rec.FetchedAt.Format(time.RFC3339))

	return err
}

// FindPages retrieves all recorded pages in insertion order. The
// RFC3339 fetched_at column only has second resolution, so rowid is
// the reliable ordering for pages recorded within the same second.
func (s *ManifestService) FindPages(ctx context.Context) ([]*docloom.PageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_url, title, filename, content_hash, depth, fetched_at
		FROM pages
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*docloom.PageRecord
	for rows.Next() {
		var rec docloom.PageRecord
		var fetchedAt string

		if err := rows.Scan(&rec.ID, &rec.SourceURL, &rec.Title, &rec.Filename,
			&rec.ContentHash, &rec.Depth, &fetchedAt); err != nil {
			return nil, err
		}

		rec.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
