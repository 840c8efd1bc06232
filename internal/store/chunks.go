package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"rag-document-backend/models"
)

// ErrNoChunks is returned when a delete matches no rows for the owner.
var ErrNoChunks = errors.New("no chunks found")

// InsertChunks writes all chunks of one uploaded file in a single
// transaction with user_id set on every row at insert time. Either the
// whole document lands fully owner-tagged or nothing is committed;
// there is no window in which a row exists without its owner, and
// concurrent uploads of identically named files by different users
// cannot cross-tag each other.
func (s *Store) InsertChunks(ctx context.Context, ownerID uuid.UUID, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO document_chunks
			(id, user_id, filename, content_type, file_size, file_path, page, total_pages, chunk_index, text, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, chunk := range chunks {
		_, err := tx.Exec(ctx, query,
			chunk.ID,
			ownerID,
			chunk.Filename,
			chunk.ContentType,
			chunk.FileSize,
			chunk.FilePath,
			chunk.Page,
			chunk.TotalPages,
			chunk.ChunkIndex,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chunk insert: %w", err)
	}

	return nil
}

// SearchOwned runs a cosine similarity search restricted to the
// owner's rows. The filter lives inside the index query itself, so the
// top-K really is the owner's top-K; there is no inflate-then-filter
// step that could silently drop recall.
func (s *Store) SearchOwned(ctx context.Context, ownerID uuid.UUID, embedding []float32, topK int) ([]models.SearchResult, error) {
	query := `
		SELECT id, text, filename, content_type, file_size, file_path, page, total_pages,
		       embedding <=> $2 AS distance
		FROM document_chunks
		WHERE user_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, ownerID, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		var distance float64
		err := rows.Scan(
			&r.ID,
			&r.Text,
			&r.Metadata.Filename,
			&r.Metadata.ContentType,
			&r.Metadata.FileSize,
			&r.Metadata.FilePath,
			&r.Metadata.Page,
			&r.Metadata.TotalPages,
			&distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		r.Score = 1 - distance
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return results, nil
}

// ListOwned returns per-filename aggregates for the owner's documents.
func (s *Store) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.FileSummary, error) {
	query := `
		SELECT filename, COUNT(*) AS chunk_count, MAX(total_pages) AS pages,
		       MAX(content_type) AS content_type, MAX(file_size) AS file_size
		FROM document_chunks
		WHERE user_id = $1
		GROUP BY filename
		ORDER BY filename
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []models.FileSummary
	for rows.Next() {
		var f models.FileSummary
		if err := rows.Scan(&f.Filename, &f.ChunkCount, &f.Pages, &f.ContentType, &f.FileSize); err != nil {
			return nil, fmt.Errorf("failed to scan file summary: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}

	return files, nil
}

// DeleteOwned removes the owner's chunks for one filename and returns
// how many rows were deleted. Rows belonging to other users are never
// touched, even for identical filenames. ErrNoChunks when the owner
// has no such file.
func (s *Store) DeleteOwned(ctx context.Context, ownerID uuid.UUID, filename string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM document_chunks WHERE user_id = $1 AND filename = $2`,
		ownerID, filename,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chunks: %w", err)
	}

	deleted := tag.RowsAffected()
	if deleted == 0 {
		return 0, ErrNoChunks
	}

	return deleted, nil
}
