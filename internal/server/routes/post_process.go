package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/polok-dev98/agentpro/internal/queue"
	"github.com/polok-dev98/agentpro/internal/server/middleware"
	"github.com/polok-dev98/agentpro/internal/storage"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

// ProcessHandler accepts a document upload and queues it for ingestion.
// The optional clear_code form field requests a store wipe before the
// document is processed; the worker verifies it against the configured
// confirmation code.
func ProcessHandler(c echo.Context) error {
	type processResponse struct {
		JobID   string `json:"job_id"`
		FileKey string `json:"file_key"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "A file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("failed to open uploaded file", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	defer file.Close()

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	jobID, err := util.NewID()
	if err != nil {
		logger.Error("failed to generate job id", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	fileKey, err := storage.PutFile(ctx, app.S3, jobID, fileHeader.Filename, file)
	if err != nil {
		logger.Error("failed to upload file", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to store file"})
	}

	job := queue.IngestJobMsg{
		JobID:     jobID,
		FileKey:   fileKey,
		Kind:      strings.TrimSpace(c.FormValue("kind")),
		ClearCode: strings.TrimSpace(c.FormValue("clear_code")),
	}

	msgBytes, err := json.Marshal(job)
	if err != nil {
		logger.Error("failed to marshal ingest job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msgBytes); err != nil {
		logger.Error("failed to queue ingest job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to queue document"})
	}

	logger.Info("queued document for ingestion", "job", jobID, "file", fileKey, "user", user.UserID)
	return c.JSON(http.StatusAccepted, processResponse{
		JobID:   jobID,
		FileKey: fileKey,
	})
}
