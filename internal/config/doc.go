// Package config handles configuration loading, parsing, and validation
// from a config.yaml file and AGRINATHI_ prefixed environment variables.
// Optional integrations (Redis, InfluxDB, MQTT, Google speech APIs) are
// disabled by leaving their address or key empty.
package config
