package models

import (
	"github.com/google/uuid"
)

// Chunk is one embedded text fragment of an uploaded document.
// Every row carries the owner's user id; it is written in the same
// transaction as the chunk itself, so no row is ever ownerless.
type Chunk struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	FilePath    string    `json:"file_path"`
	Page        int       `json:"page"`
	TotalPages  int       `json:"total_pages"`
	ChunkIndex  int       `json:"chunk_index"`
	Text        string    `json:"text"`
	Embedding   []float32 `json:"-"`
}

// ChunkMetadata is the metadata block attached to query sources.
type ChunkMetadata struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
}

// SearchResult is one ranked hit from a similarity search, already
// scoped to the calling user.
type SearchResult struct {
	ID       uuid.UUID     `json:"id"`
	Text     string        `json:"text"`
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// FileSummary is one entry in the GET /files listing.
type FileSummary struct {
	Filename    string `json:"filename"`
	ChunkCount  int    `json:"chunk_count"`
	Pages       int    `json:"pages"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Message        string `json:"message"`
	Filename       string `json:"filename"`
	ContentLength  int    `json:"content_length"`
	EmbeddingModel string `json:"embedding_model"`
	ChunksEmbedded int    `json:"chunks_embedded"`
	Pages          int    `json:"pages"`
}

// QueryResponse is returned by GET /query.
type QueryResponse struct {
	Query    string         `json:"query"`
	Response string         `json:"response"`
	Sources  []SearchResult `json:"sources"`
}

// FilesResponse is returned by GET /files.
type FilesResponse struct {
	Files      []FileSummary `json:"files"`
	TotalFiles int           `json:"total_files"`
}
