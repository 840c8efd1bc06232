package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"rag-document-backend/internal/ai"
	"rag-document-backend/internal/prompts"
	"rag-document-backend/internal/telemetry"
	"rag-document-backend/middleware"
	"rag-document-backend/models"
	"rag-document-backend/utils"
)

const (
	defaultTopK = 5
	maxTopK     = 20
)

// SetupQueryRoutes registers the single-shot retrieval endpoint.
func SetupQueryRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware, aiClient AIClient, chunks ChunkStore, metrics *telemetry.Metrics) {
	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())

	authed.GET("/query", func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			utils.RespondWithBadRequest(c, "Query cannot be empty.", nil)
			return
		}

		topK := parseTopK(c.Query("top_k"))

		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		embedding, err := aiClient.Embed(ctx, query)
		if err != nil {
			respondUpstreamError(c, err, "Failed to embed query.")
			return
		}

		results, err := chunks.SearchOwned(ctx, middleware.GetUserID(c), embedding, topK)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to search documents", err.Error())
			return
		}

		answer, err := aiClient.Answer(ctx, prompts.Get(prompts.DefaultType), nil, buildQueryPrompt(query, results))
		if err != nil {
			respondUpstreamError(c, err, "Failed to generate response.")
			return
		}

		if metrics != nil {
			metrics.QueriesTotal.Add(ctx, 1)
		}

		if results == nil {
			results = []models.SearchResult{}
		}

		c.JSON(http.StatusOK, models.QueryResponse{
			Query:    query,
			Response: answer,
			Sources:  results,
		})
	})
}

func parseTopK(raw string) int {
	topK := defaultTopK
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			topK = parsed
		}
	}
	if topK < 1 {
		topK = 1
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	return topK
}

// buildQueryPrompt assembles the retrieved context and the question
// into a single prompt for the answer model.
func buildQueryPrompt(query string, results []models.SearchResult) string {
	var b strings.Builder

	if len(results) == 0 {
		b.WriteString("No documents matched the question.\n\n")
	} else {
		b.WriteString("Context from the document knowledge base:\n\n")
		for _, r := range results {
			fmt.Fprintf(&b, "[%s, page %d]\n%s\n\n", r.Metadata.Filename, r.Metadata.Page, r.Text)
		}
	}

	fmt.Fprintf(&b, "Question: %s\n\nAnswer based on the context above.", query)
	return b.String()
}

func respondUpstreamError(c *gin.Context, err error, message string) {
	if errors.Is(err, ai.ErrUnavailable) {
		utils.RespondWithError(c, http.StatusInternalServerError, "ai_unavailable", message, err.Error())
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "ai_error", message, err.Error())
}
