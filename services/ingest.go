package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"rag-document-backend/internal/logger"
	"rag-document-backend/models"
)

// Embedder generates embedding vectors for text fragments.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbeddingModel() string
}

// ChunkWriter persists a document's chunks for one owner.
type ChunkWriter interface {
	InsertChunks(ctx context.Context, ownerID uuid.UUID, chunks []models.Chunk) error
}

// UploadedDocument describes a file already saved to disk.
type UploadedDocument struct {
	Filename    string
	ContentType string
	FileSize    int64
	Path        string
}

// IngestService runs the extract -> chunk -> embed -> store pipeline
// for uploaded documents.
type IngestService struct {
	embedder         Embedder
	chunks           ChunkWriter
	chunker          *Chunker
	maxContentLength int
}

func NewIngestService(embedder Embedder, chunks ChunkWriter, chunker *Chunker, maxContentLength int) *IngestService {
	return &IngestService{
		embedder:         embedder,
		chunks:           chunks,
		chunker:          chunker,
		maxContentLength: maxContentLength,
	}
}

// IngestFile extracts, chunks, and embeds a document, then stores all
// chunks in one transaction with the owner set on every row. An
// embedding failure aborts the whole document; nothing is committed.
func (s *IngestService) IngestFile(ctx context.Context, ownerID uuid.UUID, doc UploadedDocument) (*models.UploadResponse, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "ingest.file")
	defer span.End()
	span.SetAttributes(attribute.String("document.filename", doc.Filename))

	pages, err := ExtractPages(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	pages, contentLength := truncatePages(pages, s.maxContentLength)
	totalPages := pages[len(pages)-1].Page

	var chunks []models.Chunk
	chunkIndex := 0
	for _, page := range pages {
		for _, text := range s.chunker.ChunkText(page.Text) {
			embedding, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("embedding failed: %w", err)
			}

			chunks = append(chunks, models.Chunk{
				ID:          uuid.New(),
				UserID:      ownerID,
				Filename:    doc.Filename,
				ContentType: doc.ContentType,
				FileSize:    doc.FileSize,
				FilePath:    doc.Path,
				Page:        page.Page,
				TotalPages:  totalPages,
				ChunkIndex:  chunkIndex,
				Text:        text,
				Embedding:   embedding,
			})
			chunkIndex++
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no chunks")
	}

	if err := s.chunks.InsertChunks(ctx, ownerID, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.Info("document ingested",
		"filename", doc.Filename,
		"chunks", len(chunks),
		"pages", len(pages),
		"content_length", contentLength,
	)

	return &models.UploadResponse{
		Message:        "Document embedded successfully",
		Filename:       doc.Filename,
		ContentLength:  contentLength,
		EmbeddingModel: s.embedder.EmbeddingModel(),
		ChunksEmbedded: len(chunks),
		Pages:          len(pages),
	}, nil
}

// truncatePages caps the total extracted text at maxLen bytes to keep
// very large documents from overwhelming the embedding service. The
// cut is snapped back to a rune boundary so the partial page stays
// valid UTF-8. Returns the (possibly shortened) pages and the
// retained length.
func truncatePages(pages []PageText, maxLen int) ([]PageText, int) {
	if maxLen <= 0 {
		total := 0
		for _, p := range pages {
			total += len(p.Text)
		}
		return pages, total
	}

	total := 0
	for i, page := range pages {
		if total+len(page.Text) <= maxLen {
			total += len(page.Text)
			continue
		}

		keep := maxLen - total
		if keep <= 0 {
			return pages[:i], total
		}
		for keep > 0 && !utf8.RuneStart(page.Text[keep]) {
			keep--
		}
		if keep == 0 {
			return pages[:i], total
		}
		pages[i].Text = page.Text[:keep]
		return pages[:i+1], total + keep
	}

	return pages, total
}
