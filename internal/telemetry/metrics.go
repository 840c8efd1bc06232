package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	UploadsTotal      metric.Int64Counter
	QueriesTotal      metric.Int64Counter
	ChatsTotal        metric.Int64Counter
	ChunksEmbedded    metric.Int64Counter
	IngestionDuration metric.Float64Histogram
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("rag-document-backend")

	uploadsTotal, err := meter.Int64Counter(
		"documents.uploads.total",
		metric.WithDescription("Total document uploads"),
	)
	if err != nil {
		return nil, err
	}

	queriesTotal, err := meter.Int64Counter(
		"documents.queries.total",
		metric.WithDescription("Total retrieval queries"),
	)
	if err != nil {
		return nil, err
	}

	chatsTotal, err := meter.Int64Counter(
		"documents.chats.total",
		metric.WithDescription("Total chat requests"),
	)
	if err != nil {
		return nil, err
	}

	chunksEmbedded, err := meter.Int64Counter(
		"documents.chunks.embedded",
		metric.WithDescription("Total chunks embedded and stored"),
	)
	if err != nil {
		return nil, err
	}

	ingestionDuration, err := meter.Float64Histogram(
		"documents.ingestion.duration",
		metric.WithDescription("Document ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		UploadsTotal:      uploadsTotal,
		QueriesTotal:      queriesTotal,
		ChatsTotal:        chatsTotal,
		ChunksEmbedded:    chunksEmbedded,
		IngestionDuration: ingestionDuration,
	}, nil
}
