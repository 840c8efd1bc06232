package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rag-document-backend/internal/prompts"
	"rag-document-backend/utils"
)

// SetupPromptRoutes registers the unauthenticated prompt catalogue
// endpoints.
func SetupPromptRoutes(router *gin.Engine) {
	router.GET("/prompts", func(c *gin.Context) {
		info := prompts.Info()
		c.JSON(http.StatusOK, gin.H{
			"prompts":       info,
			"total_prompts": len(info),
		})
	})

	router.GET("/prompts/:type", func(c *gin.Context) {
		promptType := c.Param("type")
		prompt, ok := prompts.Lookup(promptType)
		if !ok {
			utils.RespondWithNotFound(c, "Unknown prompt type.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"type":   promptType,
			"prompt": prompt,
		})
	})
}
