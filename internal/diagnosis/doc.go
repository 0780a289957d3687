// Package diagnosis defines the boundary between plant scans and the
// external vision model that inspects plant photos. It keeps the scan
// service independent of any specific AI provider.
package diagnosis
