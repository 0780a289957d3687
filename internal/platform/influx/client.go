package influx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/config"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Measurement is the InfluxDB measurement holding one point per query.
const Measurement = "queries"

// Client bundles the recorder and trend reader over one InfluxDB connection.
type Client struct {
	client   influxdb2.Client
	Recorder *Recorder
	Trends   *TrendReader
}

// Open connects to InfluxDB and checks it is reachable.
func Open(ctx context.Context, cfg config.InfluxConfig, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("influx url is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if ok, err := c.Ping(pingCtx); err != nil || !ok {
		c.Close()
		if err == nil {
			err = fmt.Errorf("ping returned not ready")
		}
		return nil, fmt.Errorf("failed to reach influxdb at %s: %w", cfg.URL, err)
	}

	logger.Info("connected to influxdb", "url", cfg.URL, "bucket", cfg.Bucket)
	return &Client{
		client:   c,
		Recorder: NewRecorder(c.WriteAPI(cfg.Org, cfg.Bucket), logger),
		Trends:   NewTrendReader(c.QueryAPI(cfg.Org), cfg.Bucket),
	}, nil
}

// Close flushes pending points and releases the connection.
func (c *Client) Close() {
	c.Recorder.Flush()
	c.client.Close()
}
