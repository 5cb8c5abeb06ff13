package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/polok-dev98/agentpro/internal/storage"
	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/graph"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

// IngestJobMsg is one document ingestion job.
type IngestJobMsg struct {
	// JobID correlates worker logs with the API request that queued the job.
	JobID string `json:"job_id"`
	// FileKey is the S3 object key of the uploaded document.
	FileKey string `json:"file_key"`
	// Kind overrides content-type detection; empty means derive from the
	// file extension.
	Kind string `json:"kind,omitempty"`
	// ClearCode, when present, requests a wipe of graph and vector stores
	// before ingesting. It must match the configured confirmation code or
	// the wipe is rejected and ingestion proceeds over the existing data.
	ClearCode string `json:"clear_code,omitempty"`
}

// ProcessIngestMessage handles one job from the ingest queue: fetch the
// document from S3, split it into chunks, and run graph construction.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	splitter *chunk.Splitter,
	builder *graph.Builder,
	msg []byte,
) error {
	var job IngestJobMsg
	if err := json.Unmarshal(msg, &job); err != nil {
		return fmt.Errorf("unmarshal ingest job: %w", err)
	}
	if job.FileKey == "" {
		return fmt.Errorf("ingest job %s: missing file key", job.JobID)
	}

	if job.ClearCode != "" {
		result, err := builder.Clear(ctx, job.ClearCode)
		if err != nil {
			return fmt.Errorf("ingest job %s: clear stores: %w", job.JobID, err)
		}
		if !result.Cleared {
			logger.Warn("clear request rejected, keeping existing data", "job", job.JobID, "reason", result.Reason)
		}
	}

	data, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]byte, error) {
		return storage.GetFile(ctx, s3Client, job.FileKey)
	})
	if err != nil {
		return fmt.Errorf("ingest job %s: %w", job.JobID, err)
	}

	kind, err := resolveKind(job)
	if err != nil {
		return fmt.Errorf("ingest job %s: %w", job.JobID, err)
	}

	chunks, err := splitter.Split(kind, data, job.FileKey)
	if err != nil {
		return fmt.Errorf("ingest job %s: split document: %w", job.JobID, err)
	}
	logger.Info("split document", "job", job.JobID, "file", job.FileKey, "chunks", len(chunks))

	report, err := builder.Run(ctx, chunks)
	if err != nil {
		return fmt.Errorf("ingest job %s: build graph: %w", job.JobID, err)
	}

	// The chunk text now lives in the graph; the upload itself is done.
	if err := storage.DeleteFile(ctx, s3Client, job.FileKey); err != nil {
		logger.Warn("failed to delete processed upload", "job", job.JobID, "file", job.FileKey, "err", err)
	}

	logger.Info(
		"ingestion finished",
		"job", job.JobID,
		"chunks", report.Chunks,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return nil
}

func resolveKind(job IngestJobMsg) (chunk.Kind, error) {
	kind := job.Kind
	if kind == "" {
		kind = strings.TrimPrefix(filepath.Ext(job.FileKey), ".")
	}

	switch strings.ToLower(kind) {
	case "txt", "text", "md":
		return chunk.KindText, nil
	case "csv":
		return chunk.KindCSV, nil
	case "pdf":
		return chunk.KindPDF, nil
	default:
		return "", fmt.Errorf("%w: %s", chunk.ErrUnsupportedKind, kind)
	}
}
