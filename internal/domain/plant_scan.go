package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScanStatus is the processing state of a plant scan.
type ScanStatus string

// Possible scan statuses.
const (
	ScanStatusPending    ScanStatus = "pending"
	ScanStatusProcessing ScanStatus = "processing"
	ScanStatusCompleted  ScanStatus = "completed"
	ScanStatusFailed     ScanStatus = "failed"
)

// MaxScanImageBytes bounds an uploaded plant photo.
const MaxScanImageBytes = 10 << 20

// Plant scan validation errors.
var (
	ErrEmptyScanID          = errors.New("scan ID cannot be empty")
	ErrEmptyScanFarmerID    = errors.New("scan farmer ID cannot be empty")
	ErrEmptyScanImage       = errors.New("scan image cannot be empty")
	ErrScanImageTooLarge    = errors.New("scan image is too large")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrInvalidScanStatus    = errors.New("invalid scan status")
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsSupportedImageType reports whether a MIME type can be diagnosed.
func IsSupportedImageType(mimeType string) bool {
	return supportedImageTypes[mimeType]
}

// Diagnosis is the result of analysing a plant photo.
type Diagnosis struct {
	Healthy    bool        `json:"healthy"`
	Disease    string      `json:"disease,omitempty"`
	Confidence float64     `json:"confidence"`
	Notes      string      `json:"notes,omitempty"`
	Symptoms   []string    `json:"symptoms,omitempty"`
	Treatments []Treatment `json:"treatments,omitempty"`
}

// PlantScan is a photo submitted for disease detection. Analysis runs in
// the background and the scan moves from pending to completed or failed.
type PlantScan struct {
	ID        uuid.UUID  `json:"id"`
	FarmerID  uuid.UUID  `json:"farmer_id"`
	MIMEType  string     `json:"mime_type"`
	Image     []byte     `json:"-"`
	Status    ScanStatus `json:"status"`
	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewPlantScan creates a pending scan.
func NewPlantScan(farmerID uuid.UUID, mimeType string, image []byte) (*PlantScan, error) {
	now := time.Now().UTC()
	s := &PlantScan{
		ID:        uuid.New(),
		FarmerID:  farmerID,
		MIMEType:  mimeType,
		Image:     image,
		Status:    ScanStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the PlantScan has valid data.
func (s *PlantScan) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyScanID
	}
	if s.FarmerID == uuid.Nil {
		return ErrEmptyScanFarmerID
	}
	if len(s.Image) == 0 {
		return ErrEmptyScanImage
	}
	if len(s.Image) > MaxScanImageBytes {
		return ErrScanImageTooLarge
	}
	if !IsSupportedImageType(s.MIMEType) {
		return ErrUnsupportedImageType
	}
	if !s.Status.IsValid() {
		return ErrInvalidScanStatus
	}
	return nil
}

// IsValid reports whether st is a known status.
func (st ScanStatus) IsValid() bool {
	switch st {
	case ScanStatusPending, ScanStatusProcessing, ScanStatusCompleted, ScanStatusFailed:
		return true
	}
	return false
}

// StartProcessing marks the scan as being analysed.
func (s *PlantScan) StartProcessing() {
	s.Status = ScanStatusProcessing
	s.UpdatedAt = time.Now().UTC()
}

// IsFinal reports whether analysis has finished, successfully or not.
func (s *PlantScan) IsFinal() bool {
	return s.Status == ScanStatusCompleted || s.Status == ScanStatusFailed
}

// Complete records a diagnosis.
func (s *PlantScan) Complete(d Diagnosis) {
	s.Status = ScanStatusCompleted
	s.Diagnosis = &d
	s.Error = ""
	s.UpdatedAt = time.Now().UTC()
}

// Fail records an analysis failure.
func (s *PlantScan) Fail(reason string) {
	s.Status = ScanStatusFailed
	s.Error = reason
	s.UpdatedAt = time.Now().UTC()
}
