// Package routes wires the HTTP surface. Handlers depend on small
// interfaces rather than concrete clients so tests can run against
// fakes; cmd/main injects the real store and Ollama client.
package routes

import (
	"context"

	"github.com/google/uuid"

	"rag-document-backend/models"
	"rag-document-backend/services"
)

// UserStore is the credential store surface the auth routes need.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ChunkStore is the tenant-scoped chunk surface the document routes need.
type ChunkStore interface {
	SearchOwned(ctx context.Context, ownerID uuid.UUID, embedding []float32, topK int) ([]models.SearchResult, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.FileSummary, error)
	DeleteOwned(ctx context.Context, ownerID uuid.UUID, filename string) (int64, error)
}

// AIClient is the embedding/LLM surface used by query and chat.
type AIClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Answer(ctx context.Context, system string, history []models.ChatTurn, prompt string) (string, error)
	Stream(ctx context.Context, system string, history []models.ChatTurn, prompt string, fn func(ctx context.Context, chunk []byte) error) error
	EmbeddingModel() string
	LLMModel() string
}

// Ingestor runs the upload pipeline.
type Ingestor interface {
	IngestFile(ctx context.Context, ownerID uuid.UUID, doc services.UploadedDocument) (*models.UploadResponse, error)
}
