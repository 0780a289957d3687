package influx

import (
	"context"
	"fmt"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// TrendReader implements store.TrendStore over the Flux query API.
type TrendReader struct {
	api    api.QueryAPI
	bucket string
}

var _ store.TrendStore = (*TrendReader)(nil)

// NewTrendReader creates a TrendReader for bucket.
func NewTrendReader(q api.QueryAPI, bucket string) *TrendReader {
	return &TrendReader{api: q, bucket: bucket}
}

func trendFlux(bucket string, days int) string {
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q and r._field == "confidence")
  |> group(columns: ["category"])
  |> aggregateWindow(every: 1d, fn: count, createEmpty: false, timeSrc: "_start")
  |> sort(columns: ["_time"])
`, bucket, days, Measurement)
}

// QueryTrends implements store.TrendStore.
func (t *TrendReader) QueryTrends(ctx context.Context, days int) ([]store.QueryTrend, error) {
	if days <= 0 {
		days = 30
	}
	res, err := t.api.Query(ctx, trendFlux(t.bucket, days))
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer func() { _ = res.Close() }()

	out := []store.QueryTrend{}
	for res.Next() {
		rec := res.Record()
		category, _ := rec.ValueByKey("category").(string)
		out = append(out, store.QueryTrend{
			Day:      rec.Time().UTC().Format(time.DateOnly),
			Category: category,
			Count:    toInt(rec.Value()),
		})
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trend rows: %w", err)
	}
	return out, nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
