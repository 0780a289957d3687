package influx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/events"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// pointWriter is the subset of api.WriteAPI the recorder uses.
type pointWriter interface {
	WritePoint(point *write.Point)
	Errors() <-chan error
	Flush()
}

// Recorder writes a point per query.completed event. Writes are batched
// and asynchronous; write errors are logged.
type Recorder struct {
	api    pointWriter
	logger *slog.Logger

	mu      sync.RWMutex
	lastErr time.Time
}

var _ events.EventHandler = (*Recorder)(nil)

// NewRecorder starts draining w's error channel.
func NewRecorder(w pointWriter, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{api: w, logger: logger.With("component", "influx_recorder")}
	go func() {
		for err := range w.Errors() {
			if err == nil {
				continue
			}
			r.mu.Lock()
			r.lastErr = time.Now()
			r.mu.Unlock()
			r.logger.Error("influx write failed", "error", err)
		}
	}()
	return r
}

// HandleEvent implements events.EventHandler.
func (r *Recorder) HandleEvent(_ context.Context, ev *events.Event) error {
	if ev.Type != events.TypeQueryCompleted {
		return nil
	}
	var q events.QueryCompleted
	if err := ev.UnmarshalPayload(&q); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", ev.Type, err)
	}
	r.api.WritePoint(queryPoint(q))
	return nil
}

// lastErrorAt reports when the last asynchronous write failed; zero if never.
func (r *Recorder) lastErrorAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Flush writes buffered points.
func (r *Recorder) Flush() {
	r.api.Flush()
}

func queryPoint(q events.QueryCompleted) *write.Point {
	category := q.Category
	if category == "" {
		category = "unknown"
	}
	tags := map[string]string{
		"category": category,
		"channel":  q.Channel,
		"source":   q.Source,
		"language": q.Language,
		"success":  strconv.FormatBool(q.Success),
	}
	fields := map[string]interface{}{
		"confidence":    q.Confidence,
		"processing_ms": q.ProcessingMillis,
	}
	ts := q.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return influxdb2.NewPoint(Measurement, tags, fields, ts)
}
