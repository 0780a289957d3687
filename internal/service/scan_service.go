package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrinathi/agrinathi-api/internal/diagnosis"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/events"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/agrinathi/agrinathi-api/internal/task"
	"github.com/google/uuid"
)

// Failure reasons stored on a scan. They are shown to the farmer.
const (
	scanReasonUnavailable = "Plant diagnosis is temporarily unavailable. Please try again later."
	scanReasonFailed      = "The photo could not be analysed. Please take a clearer photo of the affected leaves."
)

// DiseaseCatalog supplies known diseases and their treatments.
type DiseaseCatalog interface {
	Disease(name string) (domain.Disease, bool)
	DiseaseNames() []string
}

// ScanObserver records final scan outcomes.
type ScanObserver interface {
	ObserveScan(status string)
}

// ScanService is the plant scanner: uploads, background diagnosis and
// result lookup.
type ScanService interface {
	// Upload stores a pending scan and requests its diagnosis in the background.
	Upload(ctx context.Context, farmerID uuid.UUID, mimeType string, image []byte) (*domain.PlantScan, error)

	// Get returns a scan. Returns ErrNotOwned when farmerID does not own it.
	Get(ctx context.Context, farmerID, scanID uuid.UUID) (*domain.PlantScan, error)

	// ProcessScan diagnoses a stored scan. Scans that already finished are left alone.
	ProcessScan(ctx context.Context, scanID uuid.UUID) error
}

// ScanServiceImpl implements ScanService
type ScanServiceImpl struct {
	scans     store.ScanStore
	diagnoser diagnosis.Diagnoser
	guard     *resilience.Guard
	catalog   DiseaseCatalog
	emitter   events.EventEmitter
	observer  ScanObserver
	logger    *slog.Logger
}

var (
	_ ScanService        = (*ScanServiceImpl)(nil)
	_ task.ScanProcessor = (*ScanServiceImpl)(nil)
)

// NewScanService creates a new ScanService. observer may be nil.
func NewScanService(
	scans store.ScanStore,
	diagnoser diagnosis.Diagnoser,
	guard *resilience.Guard,
	catalog DiseaseCatalog,
	emitter events.EventEmitter,
	observer ScanObserver,
	logger *slog.Logger,
) *ScanServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanServiceImpl{
		scans:     scans,
		diagnoser: diagnoser,
		guard:     guard,
		catalog:   catalog,
		emitter:   emitter,
		observer:  observer,
		logger:    logger.With("component", "scan_service"),
	}
}

// Upload implements ScanService.
func (s *ScanServiceImpl) Upload(
	ctx context.Context,
	farmerID uuid.UUID,
	mimeType string,
	image []byte,
) (*domain.PlantScan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	scan, err := domain.NewPlantScan(farmerID, mimeType, image)
	if err != nil {
		return nil, err
	}
	if err := s.scans.Create(ctx, scan); err != nil {
		log.Error("failed to save plant scan", "error", err, "farmer_id", farmerID)
		return nil, NewServiceError("scan", "upload", err)
	}

	ev, err := events.NewEvent(events.TypeScanRequested, events.ScanRequested{ScanID: scan.ID, FarmerID: farmerID})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, ev)
	}
	switch {
	case err == nil:
	case errors.Is(err, task.ErrQueueFull):
		log.Warn("task queue full, scan stays pending until the task monitor enqueues it", "scan_id", scan.ID)
	default:
		log.Error("failed to request scan diagnosis", "error", err, "scan_id", scan.ID)
		scan.Fail(scanReasonUnavailable)
		if uerr := s.scans.UpdateResult(ctx, scan); uerr != nil {
			log.Error("failed to mark scan failed", "error", uerr, "scan_id", scan.ID)
		}
		return nil, NewServiceError("scan", "upload", err)
	}

	log.Info("plant scan accepted", "scan_id", scan.ID, "farmer_id", farmerID, "bytes", len(image))
	return scan, nil
}

// Get implements ScanService.
func (s *ScanServiceImpl) Get(ctx context.Context, farmerID, scanID uuid.UUID) (*domain.PlantScan, error) {
	scan, err := s.scans.GetByID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if scan.FarmerID != farmerID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("farmer requested another farmer's scan",
			"scan_id", scanID,
			"farmer_id", farmerID)
		return nil, ErrNotOwned
	}
	return scan, nil
}

// ProcessScan implements task.ScanProcessor.
func (s *ScanServiceImpl) ProcessScan(ctx context.Context, scanID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With("scan_id", scanID)

	scan, err := s.scans.GetByID(ctx, scanID)
	if err != nil {
		return fmt.Errorf("failed to load scan: %w", err)
	}
	if scan.IsFinal() {
		log.Info("scan already processed, skipping", "status", scan.Status)
		return nil
	}

	scan.StartProcessing()
	if err := s.scans.UpdateResult(ctx, scan); err != nil {
		return fmt.Errorf("failed to mark scan processing: %w", err)
	}

	var known []string
	if s.catalog != nil {
		known = s.catalog.DiseaseNames()
	}
	res, err := resilience.Do(ctx, s.guard, func(ctx context.Context) (*diagnosis.Result, error) {
		return s.diagnoser.Diagnose(ctx, diagnosis.Request{
			Image:         scan.Image,
			MIMEType:      scan.MIMEType,
			KnownDiseases: known,
		})
	})
	if err != nil {
		reason := scanReasonFailed
		if errors.Is(err, resilience.ErrUnavailable) {
			reason = scanReasonUnavailable
		}
		scan.Fail(reason)
		if uerr := s.scans.UpdateResult(ctx, scan); uerr != nil {
			log.Error("failed to record scan failure", "error", uerr)
		}
		s.observe(domain.ScanStatusFailed)
		log.Error("plant diagnosis failed", "error", err)
		return fmt.Errorf("%w: %w", diagnosis.ErrDiagnosisFailed, err)
	}

	scan.Complete(s.enrich(res))
	if err := s.scans.UpdateResult(ctx, scan); err != nil {
		return fmt.Errorf("failed to save diagnosis: %w", err)
	}
	s.observe(domain.ScanStatusCompleted)
	log.Info("plant scan diagnosed",
		"healthy", res.Healthy,
		"disease", scan.Diagnosis.Disease,
		"treatments", len(scan.Diagnosis.Treatments))
	return nil
}

// enrich adds knowledge-base treatments to a model result.
func (s *ScanServiceImpl) enrich(res *diagnosis.Result) domain.Diagnosis {
	d := domain.Diagnosis{
		Healthy:    res.Healthy,
		Disease:    res.Disease,
		Confidence: res.Confidence,
		Notes:      res.Notes,
		Symptoms:   res.Symptoms,
	}
	if res.Healthy || s.catalog == nil {
		return d
	}
	if known, ok := s.catalog.Disease(res.Disease); ok {
		d.Disease = known.Name
		d.Treatments = known.Treatments
		if len(d.Symptoms) == 0 {
			d.Symptoms = known.Symptoms
		}
	}
	return d
}

func (s *ScanServiceImpl) observe(status domain.ScanStatus) {
	if s.observer != nil {
		s.observer.ObserveScan(string(status))
	}
}
