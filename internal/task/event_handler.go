package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrinathi/agrinathi-api/internal/events"
)

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// ScanEventHandler turns scan.requested events into plant diagnosis tasks.
type ScanEventHandler struct {
	processor ScanProcessor
	runner    Submitter
	logger    *slog.Logger
}

// NewScanEventHandler creates a handler that submits diagnosis tasks to runner.
func NewScanEventHandler(processor ScanProcessor, runner Submitter, logger *slog.Logger) *ScanEventHandler {
	return &ScanEventHandler{
		processor: processor,
		runner:    runner,
		logger:    logger.With("component", "scan_event_handler"),
	}
}

// HandleEvent implements events.EventHandler.
func (h *ScanEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeScanRequested {
		return nil
	}

	var payload events.ScanRequested
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := NewPlantDiagnosisTask(payload.ScanID, h.processor)
	if err != nil {
		h.logger.Error("failed to create task", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	h.logger.Debug("submitting task to runner",
		"task_id", t.ID(),
		"scan_id", payload.ScanID,
		"event_id", event.ID)
	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", t.ID(),
			"scan_id", payload.ScanID)
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}
