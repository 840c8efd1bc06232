package routes

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"rag-document-backend/internal/logger"
	"rag-document-backend/internal/prompts"
	"rag-document-backend/internal/telemetry"
	"rag-document-backend/middleware"
	"rag-document-backend/models"
	"rag-document-backend/utils"
)

// SetupChatRoutes registers the streaming conversational endpoint.
func SetupChatRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware, aiClient AIClient, chunks ChunkStore, metrics *telemetry.Metrics) {
	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())

	authed.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_input",
				"Invalid request data", gin.H{"error": err.Error()})
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			utils.RespondWithBadRequest(c, "Message cannot be empty.", nil)
			return
		}

		// The request context carries client disconnects: once the
		// caller goes away, generation stops.
		ctx := c.Request.Context()

		embedding, err := aiClient.Embed(ctx, message)
		if err != nil {
			respondUpstreamError(c, err, "Failed to embed message.")
			return
		}

		results, err := chunks.SearchOwned(ctx, middleware.GetUserID(c), embedding, defaultTopK)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to search documents", err.Error())
			return
		}

		if metrics != nil {
			metrics.ChatsTotal.Add(ctx, 1)
		}

		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		// Tokens are forwarded in order as they are produced; no
		// buffering beyond the flush granularity below.
		streamErr := aiClient.Stream(ctx,
			resolveSystemPrompt(req.SystemPrompt),
			req.ChatHistory,
			buildQueryPrompt(message, results),
			func(ctx context.Context, chunk []byte) error {
				if _, err := c.Writer.Write(chunk); err != nil {
					return err
				}
				c.Writer.Flush()
				return nil
			})
		if streamErr != nil {
			// Headers are already out; all we can do is log and stop.
			logger.Error("chat stream aborted", "error", streamErr)
			return
		}

		if refs := buildReferences(results); refs != "" {
			c.Writer.WriteString(refs)
			c.Writer.Flush()
		}
	})
}

// resolveSystemPrompt maps a catalogued template name to its text and
// passes free-form instructions through verbatim.
func resolveSystemPrompt(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return prompts.Get(prompts.DefaultType)
	}
	if prompt, ok := prompts.Lookup(requested); ok {
		return prompt
	}
	return requested
}

// buildReferences renders the trailing citation block: one line per
// distinct source filename with a deduplicated, sorted page list. The
// retrieval feeding it is owner-scoped, so citations never name
// another user's documents.
func buildReferences(results []models.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	pagesByFile := make(map[string]map[int]struct{})
	for _, r := range results {
		if pagesByFile[r.Metadata.Filename] == nil {
			pagesByFile[r.Metadata.Filename] = make(map[int]struct{})
		}
		pagesByFile[r.Metadata.Filename][r.Metadata.Page] = struct{}{}
	}

	filenames := make([]string, 0, len(pagesByFile))
	for filename := range pagesByFile {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	var b strings.Builder
	b.WriteString("\n\nReferences:\n")
	for _, filename := range filenames {
		pages := make([]int, 0, len(pagesByFile[filename]))
		for page := range pagesByFile[filename] {
			pages = append(pages, page)
		}
		sort.Ints(pages)

		pageStrs := make([]string, len(pages))
		for i, page := range pages {
			pageStrs[i] = fmt.Sprintf("%d", page)
		}
		fmt.Fprintf(&b, "- %s (pages %s)\n", filename, strings.Join(pageStrs, ", "))
	}

	return b.String()
}
