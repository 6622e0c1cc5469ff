package service

import (
	"context"
	"fmt"
	"time"

	"fleetpoints/internal/dto"
	"fleetpoints/internal/model"
	"fleetpoints/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BlobPutter is the slice of the blob store the import pipeline needs:
// store a named byte blob, get back a retrieval reference.
type BlobPutter interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type ImportService interface {
	// Preview parses without writing anything, so the operator can confirm
	// the rows before committal.
	Preview(data []byte, filename string) (*dto.ImportPreviewResponse, error)
	Process(ctx context.Context, data []byte, filename string, byID uuid.UUID, byEmail string) (*dto.ImportSummary, error)
	History(ctx context.Context) ([]dto.UploadLogResponse, error)
}

type importService struct {
	drivers   repository.DriverRepository
	uploads   repository.UploadLogRepository
	blobs     BlobPutter
	chunkSize int
}

func NewImportService(
	drivers repository.DriverRepository,
	uploads repository.UploadLogRepository,
	blobs BlobPutter,
	chunkSize int,
) ImportService {
	if chunkSize < 1 {
		chunkSize = 350
	}
	return &importService{drivers: drivers, uploads: uploads, blobs: blobs, chunkSize: chunkSize}
}

func (s *importService) Preview(data []byte, filename string) (*dto.ImportPreviewResponse, error) {
	rows, err := parseImportFile(data, filename)
	if err != nil {
		return nil, err
	}
	resp := &dto.ImportPreviewResponse{Total: len(rows), Rows: make([]dto.ImportRowResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.ImportRowResponse{
			License: row.License,
			Points:  row.Points,
			Error:   row.Err,
		})
	}
	return resp, nil
}

// pointUpdate is one resolved balance increment waiting for a batch commit.
type pointUpdate struct {
	driverID uuid.UUID
	delta    int
}

// ── Process ──────────────────────────────────────────────────────────────────
// Pipeline stages:
//   1. Parse — an error here aborts the whole import.
//   2. Persist the original file to the blob store — an error here aborts too.
//   3. Create the upload log with zero counts.
//   4. Resolve each valid row to a driver (license, then legacy alias).
//      A miss is counted and the batch continues.
//   5. Commit increments in bounded chunks, one transaction per chunk. A chunk
//      that fails to commit marks its rows failed; earlier chunks stay
//      committed, later chunks still run.
//   6. Finalize the upload log.
//
// Deltas are raw atomic increments — imports deliberately carry no
// non-negativity floor, unlike redemption.

func (s *importService) Process(ctx context.Context, data []byte, filename string, byID uuid.UUID, byEmail string) (*dto.ImportSummary, error) {
	rows, err := parseImportFile(data, filename)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	blobKey := fmt.Sprintf("uploads/%d_%s", time.Now().Unix(), filename)
	if _, err := s.blobs.Put(ctx, blobKey, "application/octet-stream", data); err != nil {
		return nil, fmt.Errorf("import: store original: %w", err)
	}

	uploadLog := &model.UploadLog{
		Filename:   filename,
		Size:       int64(len(data)),
		BlobKey:    blobKey,
		ByID:       byID,
		ByEmail:    byEmail,
		Total:      len(rows),
		UploadedAt: time.Now(),
	}
	if err := s.uploads.Create(ctx, uploadLog); err != nil {
		return nil, fmt.Errorf("import: create upload log: %w", err)
	}

	summary := &dto.ImportSummary{Total: len(rows), Unmatched: []string{}}

	var pending []pointUpdate
	for _, row := range rows {
		if row.Err != "" {
			summary.Fail++
			if row.License != "" {
				summary.Unmatched = append(summary.Unmatched, row.License)
			}
			continue
		}
		driver, err := s.drivers.FindByLicense(ctx, row.License)
		if err != nil {
			summary.Fail++
			summary.Unmatched = append(summary.Unmatched, row.License)
			continue
		}
		pending = append(pending, pointUpdate{driverID: driver.ID, delta: row.Points})
	}

	// Bounded all-or-nothing chunks: the grouping exists for write efficiency,
	// not cross-row consistency — a failed chunk never rolls back a committed one.
	for start := 0; start < len(pending); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		err := runTx(ctx, s.drivers.DB(), func(tx *gorm.DB) error {
			for _, u := range chunk {
				if err := s.drivers.AddPointsTx(tx, u.driverID, u.delta); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Error().Err(err).
				Str("filename", filename).
				Int("chunk_start", start).
				Int("chunk_len", len(chunk)).
				Msg("import: chunk commit failed")
			summary.Fail += len(chunk)
			continue
		}
		summary.OK += len(chunk)
	}

	if err := s.uploads.Finalize(ctx, uploadLog.ID, summary.OK, summary.Fail, time.Now()); err != nil {
		// The increments are already committed; a finalize failure only loses
		// audit counts, so report it without failing the import.
		log.Error().Err(err).Str("upload_id", uploadLog.ID.String()).Msg("import: finalize log failed")
	}

	return summary, nil
}

func (s *importService) History(ctx context.Context) ([]dto.UploadLogResponse, error) {
	logs, err := s.uploads.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UploadLogResponse, 0, len(logs))
	for _, l := range logs {
		item := dto.UploadLogResponse{
			ID:         l.ID.String(),
			Filename:   l.Filename,
			Size:       l.Size,
			ByEmail:    l.ByEmail,
			Total:      l.Total,
			OK:         l.OK,
			Fail:       l.Fail,
			UploadedAt: l.UploadedAt.Format(time.RFC3339),
		}
		if l.ProcessedAt != nil {
			item.ProcessedAt = l.ProcessedAt.Format(time.RFC3339)
		}
		resp = append(resp, item)
	}
	return resp, nil
}
