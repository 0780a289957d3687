package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/service"
)

// scanFormField is the multipart field carrying the plant photo.
const scanFormField = "image"

// ScanHandler accepts plant photos and reports their diagnosis.
type ScanHandler struct {
	scans         service.ScanService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewScanHandler creates a new ScanHandler. A maxUploadSize of zero means
// domain.MaxScanImageBytes.
func NewScanHandler(scans service.ScanService, maxUploadSize int64, logger *slog.Logger) *ScanHandler {
	if maxUploadSize <= 0 || maxUploadSize > domain.MaxScanImageBytes {
		maxUploadSize = domain.MaxScanImageBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanHandler{scans: scans, maxUploadSize: maxUploadSize, logger: logger.With("component", "scan_handler")}
}

// Upload handles POST /api/plant-scans. The photo is analysed in the
// background, so the response is 202 with the pending scan.
func (h *ScanHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	farmerID, ok := requireFarmerID(w, r, log)
	if !ok {
		return
	}

	// Allow room for multipart framing around the image.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, domain.ErrScanImageTooLarge, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(scanFormField)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrEmptyScanImage, err), "")
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read image", err)
		return
	}
	if int64(len(image)) > h.maxUploadSize {
		HandleAPIError(w, r, domain.ErrScanImageTooLarge, "")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	scan, err := h.scans.Upload(r.Context(), farmerID, mimeType, image)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit plant scan")
		return
	}

	log.Info("plant scan accepted", "scan_id", scan.ID, "bytes", len(image), "mime_type", mimeType)
	shared.RespondWithJSON(w, r, http.StatusAccepted, ScanAcceptedResponse{ID: scan.ID, Status: scan.Status})
}

// Get handles GET /api/plant-scans/{id}.
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	farmerID, scanID, ok := handleFarmerIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	scan, err := h.scans.Get(r.Context(), farmerID, scanID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get plant scan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, scan)
}
