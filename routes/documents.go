package routes

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"rag-document-backend/internal/ai"
	"rag-document-backend/internal/config"
	"rag-document-backend/internal/store"
	"rag-document-backend/internal/telemetry"
	"rag-document-backend/middleware"
	"rag-document-backend/models"
	"rag-document-backend/services"
	"rag-document-backend/utils"
)

// SetupDocumentRoutes registers upload and file management endpoints.
// All of them run behind the auth gate; every store call is scoped to
// the authenticated owner.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, authMiddleware *middleware.AuthMiddleware, ingest Ingestor, chunks ChunkStore, metrics *telemetry.Metrics) {
	authed := router.Group("/")
	authed.Use(authMiddleware.RequireAuth())

	authed.POST("/upload", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "Uploaded file must include a filename.", nil)
			return
		}

		filename := filepath.Base(fileHeader.Filename)
		if filename == "" || filename == "." || filename == "/" {
			utils.RespondWithBadRequest(c, "Uploaded file must include a filename.", nil)
			return
		}

		if fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File exceeds the maximum allowed size.",
				gin.H{"max_file_size": cfg.MaxFileSize})
			return
		}

		if !services.IsSupportedFile(filename) {
			utils.RespondWithError(c, http.StatusBadRequest, "unsupported_file_type",
				"Unsupported file type for extraction.", nil)
			return
		}

		destination := filepath.Join(cfg.FileStorageDir, filename)
		if err := c.SaveUploadedFile(fileHeader, destination); err != nil {
			utils.RespondWithInternalError(c, "Failed to store uploaded file", err.Error())
			return
		}

		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		start := time.Now()
		resp, err := ingest.IngestFile(ctx, middleware.GetUserID(c), services.UploadedDocument{
			Filename:    filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			FileSize:    fileHeader.Size,
			Path:        destination,
		})
		if err != nil {
			if errors.Is(err, ai.ErrUnavailable) {
				utils.RespondWithError(c, http.StatusInternalServerError, "embedding_error",
					"Embedding service is unavailable.", err.Error())
				return
			}
			utils.RespondWithError(c, http.StatusInternalServerError, "embedding_error",
				"Failed to embed document.", err.Error())
			return
		}

		if metrics != nil {
			metrics.UploadsTotal.Add(ctx, 1)
			metrics.ChunksEmbedded.Add(ctx, int64(resp.ChunksEmbedded))
			metrics.IngestionDuration.Record(ctx, time.Since(start).Seconds())
		}

		c.JSON(http.StatusCreated, resp)
	})

	authed.GET("/files", func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		files, err := chunks.ListOwned(ctx, middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list files", err.Error())
			return
		}

		if files == nil {
			files = []models.FileSummary{}
		}

		c.JSON(http.StatusOK, models.FilesResponse{
			Files:      files,
			TotalFiles: len(files),
		})
	})

	authed.DELETE("/files/:filename", func(c *gin.Context) {
		filename := c.Param("filename")

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		deleted, err := chunks.DeleteOwned(ctx, middleware.GetUserID(c), filename)
		if err != nil {
			if errors.Is(err, store.ErrNoChunks) {
				utils.RespondWithError(c, http.StatusNotFound, "file_not_found",
					"No document found with that filename.", nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to delete file", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Document deleted successfully",
			"filename":       filename,
			"chunks_deleted": deleted,
		})
	})
}
