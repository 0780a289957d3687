package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ScanProcessor diagnoses a stored plant scan and records the result.
type ScanProcessor interface {
	ProcessScan(ctx context.Context, scanID uuid.UUID) error
}

type plantDiagnosisPayload struct {
	ScanID uuid.UUID `json:"scan_id"`
}

// PlantDiagnosisTask runs the diagnosis of a single plant scan.
type PlantDiagnosisTask struct {
	id        uuid.UUID
	scanID    uuid.UUID
	status    TaskStatus
	processor ScanProcessor
}

// NewPlantDiagnosisTask creates a pending diagnosis task for scanID.
func NewPlantDiagnosisTask(scanID uuid.UUID, processor ScanProcessor) (*PlantDiagnosisTask, error) {
	if scanID == uuid.Nil {
		return nil, fmt.Errorf("scan ID cannot be empty")
	}
	if processor == nil {
		return nil, fmt.Errorf("scan processor cannot be nil")
	}
	return &PlantDiagnosisTask{
		id:        uuid.New(),
		scanID:    scanID,
		status:    TaskStatusPending,
		processor: processor,
	}, nil
}

// PlantDiagnosisFactory rebuilds recovered plant diagnosis tasks.
func PlantDiagnosisFactory(processor ScanProcessor) Factory {
	return func(id uuid.UUID, payload []byte) (Task, error) {
		var p plantDiagnosisPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("invalid plant diagnosis payload: %w", err)
		}
		t, err := NewPlantDiagnosisTask(p.ScanID, processor)
		if err != nil {
			return nil, err
		}
		t.id = id
		return t, nil
	}
}

func (t *PlantDiagnosisTask) ID() uuid.UUID      { return t.id }
func (t *PlantDiagnosisTask) Type() string       { return TaskTypePlantDiagnosis }
func (t *PlantDiagnosisTask) Status() TaskStatus { return t.status }

// ScanID returns the scan being diagnosed.
func (t *PlantDiagnosisTask) ScanID() uuid.UUID { return t.scanID }

// Payload returns the JSON-encoded scan reference.
func (t *PlantDiagnosisTask) Payload() []byte {
	b, _ := json.Marshal(plantDiagnosisPayload{ScanID: t.scanID})
	return b
}

// Execute delegates to the scan processor.
func (t *PlantDiagnosisTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	if err := t.processor.ProcessScan(ctx, t.scanID); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to diagnose scan %s: %w", t.scanID, err)
	}
	t.status = TaskStatusCompleted
	return nil
}
