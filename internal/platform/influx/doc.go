// Package influx records answered queries as an InfluxDB time series and
// reads per-category daily trends back for the admin analytics report.
package influx
