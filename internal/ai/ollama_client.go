// Package ai wraps the Ollama embedding/LLM service behind a circuit
// breaker and a client-side rate limiter. Embedding generation and
// answer generation are the only paths out to the model service; both
// go through the breaker so a down Ollama sheds load fast instead of
// timing out every request individually.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"

	"rag-document-backend/internal/config"
	"rag-document-backend/internal/logger"
	"rag-document-backend/models"
)

// ErrUnavailable is returned when the breaker is open.
var ErrUnavailable = errors.New("embedding service unavailable")

type Client struct {
	embedLLM *ollama.LLM
	chatLLM  *ollama.LLM

	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter

	embeddingModel string
	llmModel       string
}

// NewClient builds the Ollama client. Both the embedding model and the
// chat model talk to the same base URL.
func NewClient(cfg *config.Config) (*Client, error) {
	embedLLM, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaBaseURL),
		ollama.WithModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	chatLLM, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaBaseURL),
		ollama.WithModel(cfg.LLMModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "OllamaAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	// Ollama runs embeddings serially; keep request pressure modest.
	limiter := rate.NewLimiter(rate.Limit(10), 5)

	return &Client{
		embedLLM:       embedLLM,
		chatLLM:        chatLLM,
		breaker:        breaker,
		limiter:        limiter,
		embeddingModel: cfg.EmbeddingModel,
		llmModel:       cfg.LLMModel,
	}, nil
}

// Embed returns the embedding vector for one text fragment.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		vectors, err := c.embedLLM.CreateEmbedding(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, fmt.Errorf("empty embedding returned")
		}
		return vectors[0], nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	return result.([]float32), nil
}

// Answer generates a single complete response for the query endpoint.
func (c *Client) Answer(ctx context.Context, system string, history []models.ChatTurn, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.chatLLM.GenerateContent(ctx, buildMessages(system, history, prompt))
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response choices returned")
		}
		return resp.Choices[0].Content, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	return result.(string), nil
}

// Stream generates a response and forwards tokens, in order, to fn as
// they are produced. Cancellation of ctx (client disconnect) stops
// generation.
func (c *Client) Stream(ctx context.Context, system string, history []models.ChatTurn, prompt string, fn func(ctx context.Context, chunk []byte) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return c.chatLLM.GenerateContent(ctx, buildMessages(system, history, prompt),
			llms.WithStreamingFunc(fn))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrUnavailable
		}
		return fmt.Errorf("failed to stream answer: %w", err)
	}

	return nil
}

func (c *Client) EmbeddingModel() string { return c.embeddingModel }
func (c *Client) LLMModel() string       { return c.llmModel }

// buildMessages replays the caller-supplied history into the model's
// message sequence before the new turn. No conversation state is held
// between requests; context is rebuilt from the transcript each call.
func buildMessages(system string, history []models.ChatTurn, prompt string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)

	if system != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}

	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		if turn.Role == "assistant" {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}

	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, prompt))

	return messages
}
